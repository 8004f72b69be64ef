package server

import (
	"time"

	"neogiator/internal/ai"
	"neogiator/internal/config"
	neogiatorErrors "neogiator/internal/errors"
	"neogiator/internal/negotiation"
	"neogiator/internal/resume"
	"neogiator/internal/types"
)

// CreateContextRequest is the request body for the context creation endpoint.
type CreateContextRequest struct {
	Company        string            `json:"company"`
	Position       string            `json:"position"`
	UserProfile    types.UserProfile `json:"userProfile"`
	TargetSalary   *int              `json:"targetSalary,omitempty"`
	TargetBenefits []string          `json:"targetBenefits,omitempty"`
	DealBreakers   []string          `json:"dealBreakers,omitempty"`
}

// CreateContextResponse returns the identifier of a newly created context.
type CreateContextResponse struct {
	ContextID      string   `json:"contextId"`
	LeveragePoints []string `json:"leveragePoints"`
}

// RespondRequest is the request body for the respond endpoint.
type RespondRequest struct {
	ContextID string       `json:"contextId"`
	Message   string       `json:"message"`
	Offer     *types.Offer `json:"offer,omitempty"`
}

// RespondResponse carries a generated negotiation reply.
type RespondResponse struct {
	Response            string               `json:"response"`
	TemplateID          string               `json:"templateId"`
	Analysis            types.TacticAnalysis `json:"analysis"`
	AnalysisFallback    bool                 `json:"analysisFallback"`
	EnhancementFallback bool                 `json:"enhancementFallback"`
}

// StrategyRequest is the request body for the strategy update endpoint.
type StrategyRequest struct {
	ContextID string `json:"contextId"`
	Strategy  string `json:"strategy"`
}

// LeverageRequest is the request body for the leverage point endpoint.
type LeverageRequest struct {
	ContextID string `json:"contextId"`
	Point     string `json:"point"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Negotiation core, shared across requests
	Store        *negotiation.Store
	Catalog      *negotiation.Catalog
	Orchestrator *negotiation.Orchestrator
	ResumeParser *resume.Parser

	// Logger
	Logger *neogiatorErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct.
// The negotiation core is wired once here and lives for the whole server
// lifetime, since contexts are held in memory. Missing AI credentials do
// not prevent startup; every turn then takes the template-only path.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *neogiatorErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	store := negotiation.NewStore()
	catalog := negotiation.DefaultCatalog()
	analyzer, enhancer, extractor := buildAIComponents(appCfg, logger)

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Store:          store,
		Catalog:        catalog,
		Orchestrator:   negotiation.NewOrchestrator(store, catalog, analyzer, enhancer, logger),
		ResumeParser:   resume.NewParser(extractor, logger),
		Logger:         logger,
	}
}

// buildAIComponents creates the per-operation AI services when credentials
// are configured. Failures degrade to nil components instead of aborting.
func buildAIComponents(appCfg *config.Config, logger *neogiatorErrors.Logger) (ai.TacticAnalyzer, ai.ResponseEnhancer, ai.ProfileExtractor) {
	if !appCfg.HasAIKey() {
		logger.Warn("No AI API key configured, running with template-only responses")
		return nil, nil, nil
	}

	var analyzer ai.TacticAnalyzer
	var enhancer ai.ResponseEnhancer
	var extractor ai.ProfileExtractor

	analyzeCfg := appCfg.GetAnalyzeConfig()
	if svc, err := ai.NewService(&analyzeCfg, "analyze", logger); err != nil {
		logger.LogError(err, "Failed to create analyze service, tactic analysis disabled")
	} else {
		analyzer = svc.Provider
	}

	enhanceCfg := appCfg.GetEnhanceConfig()
	if svc, err := ai.NewService(&enhanceCfg, "enhance", logger); err != nil {
		logger.LogError(err, "Failed to create enhance service, response enhancement disabled")
	} else {
		enhancer = svc.Provider
	}

	extractCfg := appCfg.GetExtractConfig()
	if svc, err := ai.NewService(&extractCfg, "extract", logger); err != nil {
		logger.LogError(err, "Failed to create extract service, resume structuring disabled")
	} else {
		extractor = svc.Provider
	}

	return analyzer, enhancer, extractor
}
