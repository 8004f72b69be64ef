package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"neogiator/internal/config"
	"neogiator/internal/errors"
	"neogiator/internal/observability"
)

// CertReloadMetrics tracks certificate reload activity for health reporting.
type CertReloadMetrics struct {
	ReloadCount        int64
	ReloadSuccessCount int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

// CertReloader keeps the server certificate fresh by watching the cert and
// key files and reloading the pair when they change. File change events are
// debounced so an atomic cert+key rotation triggers a single reload.
type CertReloader struct {
	mu sync.RWMutex

	certFile string
	keyFile  string

	current *tls.Certificate
	metrics CertReloadMetrics

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	om     *observability.ObservabilityManager
	logger *errors.Logger

	running bool
}

// NewCertReloader loads the initial certificate pair and prepares a watcher.
// Certificates provided as inline content cannot be watched; callers should
// only construct a reloader for file-based certificates.
func NewCertReloader(tlsCfg *config.TLSConfig, om *observability.ObservabilityManager, logger *errors.Logger) (*CertReloader, error) {
	if tlsCfg.CertFile == "" || tlsCfg.KeyFile == "" {
		return nil, fmt.Errorf("certificate auto-reload requires certFile and keyFile paths")
	}

	debounce := tlsCfg.AutoReload.DebounceDelay
	if debounce == 0 {
		debounce = time.Second
	}

	cr := &CertReloader{
		certFile:      tlsCfg.CertFile,
		keyFile:       tlsCfg.KeyFile,
		debounceDelay: debounce,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		om:            om,
		logger:        logger,
	}

	if err := cr.reload(); err != nil {
		return nil, fmt.Errorf("failed to load initial certificate: %w", err)
	}

	return cr, nil
}

// Start begins watching the certificate files for changes
func (cr *CertReloader) Start() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.running {
		return fmt.Errorf("certificate reloader is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cr.fsWatcher = watcher

	for _, file := range []string{cr.certFile, cr.keyFile} {
		if err := cr.watchFile(file); err != nil {
			cr.logger.Warn("Failed to watch certificate file", "file", file, "error", err)
		}
	}

	cr.running = true
	go cr.watchLoop()

	cr.logger.Info("Certificate file watcher started",
		"files", cr.WatchedFiles(),
		"debounce_delay", cr.debounceDelay)
	return nil
}

// watchFile adds a file and its directory to the watcher. The directory is
// watched too so atomic writes (rename onto the path) are caught.
func (cr *CertReloader) watchFile(file string) error {
	if err := cr.fsWatcher.Add(file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to watch file %s: %w", file, err)
	}

	dir := filepath.Dir(file)
	if err := cr.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return nil
}

// Stop stops the certificate file watcher
func (cr *CertReloader) Stop() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.running {
		return nil
	}

	close(cr.stopChan)

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}

	if cr.fsWatcher != nil {
		if err := cr.fsWatcher.Close(); err != nil {
			cr.logger.LogError(err, "Failed to close file system watcher")
			return err
		}
	}

	cr.running = false
	cr.logger.Info("Certificate file watcher stopped")
	return nil
}

// watchLoop is the main event loop for file watching
func (cr *CertReloader) watchLoop() {
	for {
		select {
		case event, ok := <-cr.fsWatcher.Events:
			if !ok {
				return
			}
			if cr.shouldProcessEvent(event) {
				cr.scheduleReload()
			}

		case err, ok := <-cr.fsWatcher.Errors:
			if !ok {
				return
			}
			cr.logger.LogError(err, "File watcher error")

		case <-cr.reloadChan:
			cr.logger.Info("Certificate files changed, reloading")
			if err := cr.reload(); err != nil {
				cr.logger.LogError(err, "Failed to reload TLS certificates")
			} else {
				cr.logger.Info("TLS certificates reloaded successfully")
			}

		case <-cr.stopChan:
			return
		}
	}
}

// shouldProcessEvent filters events down to writes, creates, and renames of
// the watched files.
func (cr *CertReloader) shouldProcessEvent(event fsnotify.Event) bool {
	isWatched := false
	for _, file := range []string{cr.certFile, cr.keyFile} {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			isWatched = true
			break
		}
	}
	if !isWatched {
		return false
	}

	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (cr *CertReloader) scheduleReload() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}

	cr.debounceTimer = time.AfterFunc(cr.debounceDelay, func() {
		select {
		case cr.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}

// reload loads the certificate pair from disk and swaps it in.
func (cr *CertReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)

	cr.mu.Lock()
	defer cr.mu.Unlock()

	cr.metrics.ReloadCount++
	cr.metrics.LastReloadTime = time.Now()

	if err != nil {
		cr.metrics.ReloadFailureCount++
		cr.metrics.LastReloadSuccess = false
		cr.metrics.LastReloadError = err.Error()
		return fmt.Errorf("failed to load cert/key pair: %w", err)
	}

	cr.current = &cert
	cr.metrics.ReloadSuccessCount++
	cr.metrics.LastReloadSuccess = true
	cr.metrics.LastReloadError = ""

	cr.recordReloadMetric()
	return nil
}

// recordReloadMetric increments the OTel reload counter when metrics are up.
func (cr *CertReloader) recordReloadMetric() {
	if cr.om == nil {
		return
	}
	metrics := cr.om.GetMetrics()
	if metrics.CertReloadCount != nil {
		metrics.CertReloadCount.Add(context.Background(), 1)
	}
}

// GetCertificate returns the current certificate for TLS handshakes.
func (cr *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.current == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cr.current, nil
}

// CheckExpiry returns the time remaining until the current certificate expires.
func (cr *CertReloader) CheckExpiry() (time.Duration, error) {
	cr.mu.RLock()
	current := cr.current
	cr.mu.RUnlock()

	if current == nil || len(current.Certificate) == 0 {
		return 0, fmt.Errorf("no certificate loaded")
	}

	leaf, err := x509.ParseCertificate(current.Certificate[0])
	if err != nil {
		return 0, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return time.Until(leaf.NotAfter), nil
}

// Metrics returns a copy of the reload metrics.
func (cr *CertReloader) Metrics() CertReloadMetrics {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.metrics
}

// IsRunning returns whether the watcher is currently running
func (cr *CertReloader) IsRunning() bool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.running
}

// WatchedFiles returns the list of files being watched
func (cr *CertReloader) WatchedFiles() []string {
	return []string{cr.certFile, cr.keyFile}
}
