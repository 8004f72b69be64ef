package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neogiator/internal/config"
	"neogiator/internal/errors"
	"neogiator/internal/observability"
	"neogiator/internal/types"
)

func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()

	appCfg := &config.Config{}
	srv := NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "0",
		Version:        "test",
		MaxRequestSize: 1 << 20,
	}, errors.NewLogger(0))

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, appCfg)
	if err != nil {
		t.Fatalf("observability manager: %v", err)
	}

	return srv, srv.setupRoutes(om)
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createContext(t *testing.T, mux *http.ServeMux) CreateContextResponse {
	t.Helper()

	rec := postJSON(t, mux, "/contexts", CreateContextRequest{
		Company:  "TechCorp",
		Position: "Senior Engineer",
		UserProfile: types.UserProfile{
			YearsExperience:   8,
			EducationLevel:    "Masters",
			Industry:          "technology",
			HasCompetingOffer: true,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create context: status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp CreateContextResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func TestCreateContextEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("returns id and leverage points", func(t *testing.T) {
		resp := createContext(t, mux)
		if resp.ContextID == "" {
			t.Fatal("expected context id")
		}
		if !strings.HasPrefix(resp.ContextID, "TechCorp_Senior-Engineer_") {
			t.Errorf("ContextID = %q", resp.ContextID)
		}
		found := false
		for _, p := range resp.LeveragePoints {
			if p == "competing_offer" {
				found = true
			}
		}
		if !found {
			t.Errorf("LeveragePoints = %v, want competing_offer", resp.LeveragePoints)
		}
	})

	t.Run("missing company rejected", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts", CreateContextRequest{Position: "Engineer"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("wrong content type rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contexts", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRespondEndpoint(t *testing.T) {
	_, mux := newTestServer(t)
	created := createContext(t, mux)

	t.Run("template response without AI", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts/respond", RespondRequest{
			ContextID: created.ContextID,
			Message:   "We can only offer 85k, and we need an answer by Friday.",
			Offer:     &types.Offer{Salary: 85000},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var resp RespondResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Response == "" {
			t.Error("expected non-empty response text")
		}
		if resp.TemplateID == "" {
			t.Error("expected template id")
		}
		if !resp.AnalysisFallback || !resp.EnhancementFallback {
			t.Error("expected both fallback flags without AI components")
		}
		if resp.Analysis.Tactic != "unknown" {
			t.Errorf("Analysis.Tactic = %q, want unknown", resp.Analysis.Tactic)
		}
	})

	t.Run("unknown context yields 404", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts/respond", RespondRequest{
			ContextID: "nope_nope_999",
			Message:   "hello",
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing message rejected", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts/respond", RespondRequest{ContextID: created.ContextID})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStatusEndpoint(t *testing.T) {
	_, mux := newTestServer(t)
	created := createContext(t, mux)

	t.Run("snapshot round trip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contexts/status?context_id="+created.ContextID, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var status types.NegotiationStatus
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if status.Company != "TechCorp" || status.Position != "Senior Engineer" {
			t.Errorf("status = %+v", status)
		}
		if status.Strategy != types.DefaultStrategy {
			t.Errorf("Strategy = %q, want default", status.Strategy)
		}
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contexts/status?context_id=missing_ctx_1", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing id rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contexts/status", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStrategyEndpoint(t *testing.T) {
	_, mux := newTestServer(t)
	created := createContext(t, mux)

	t.Run("valid strategy accepted", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts/strategy", StrategyRequest{
			ContextID: created.ContextID,
			Strategy:  "confident_assertive",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown strategy rejected before store access", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts/strategy", StrategyRequest{
			ContextID: created.ContextID,
			Strategy:  "aggressive_bluffing",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown context yields 404", func(t *testing.T) {
		rec := postJSON(t, mux, "/contexts/strategy", StrategyRequest{
			ContextID: "missing_ctx_1",
			Strategy:  "confident_assertive",
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestLeverageEndpoint(t *testing.T) {
	_, mux := newTestServer(t)
	created := createContext(t, mux)

	rec := postJSON(t, mux, "/contexts/leverage", LeverageRequest{
		ContextID: created.ContextID,
		Point:     "patent_pending",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		LeveragePoints []string `json:"leveragePoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, p := range resp.LeveragePoints {
		if p == "patent_pending" {
			found = true
		}
	}
	if !found {
		t.Errorf("LeveragePoints = %v, want patent_pending appended", resp.LeveragePoints)
	}
}

func TestStrategiesEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/strategies", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Strategies []string `json:"strategies"`
		Default    string   `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Strategies) != 4 {
		t.Errorf("got %d strategies, want 4", len(resp.Strategies))
	}
	if resp.Default != "professional_passive_aggressive" {
		t.Errorf("default = %q", resp.Default)
	}
}

func TestExtractEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("raw upload with filename header", func(t *testing.T) {
		body := "Jane Doe\njane@example.com\n8 years of experience in Go"
		req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
		req.Header.Set("X-Filename", "resume.txt")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var resp ExtractResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Fallback {
			t.Error("expected fallback extraction without AI")
		}
		if resp.Profile.Name != "Jane Doe" {
			t.Errorf("Name = %q", resp.Profile.Name)
		}
		if resp.UserProfile.YearsExperience != 8 {
			t.Errorf("UserProfile.YearsExperience = %d", resp.UserProfile.YearsExperience)
		}
	})

	t.Run("unsupported format rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader("x"))
		req.Header.Set("X-Filename", "resume.odt")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing filename rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader("x"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	appCfg := &config.Config{}
	srv := NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "0",
		Version:        "test",
		MaxRequestSize: 1 << 20,
		APIKeys:        []string{"secret-key-12345"},
	}, errors.NewLogger(0))

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, appCfg)
	if err != nil {
		t.Fatalf("observability manager: %v", err)
	}
	mux := srv.setupRoutes(om)

	body := func() *bytes.Reader {
		data, _ := json.Marshal(CreateContextRequest{Company: "A", Position: "B"})
		return bytes.NewReader(data)
	}

	t.Run("missing key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contexts", body())
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid header key accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contexts", body())
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", "secret-key-12345")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contexts", body())
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer secret-key-12345")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "context not found",
			err:  errors.NewNegotiationError(errors.ErrCodeContextNotFound, "no such context", nil),
			want: http.StatusNotFound,
		},
		{
			name: "invalid strategy",
			err:  errors.NewValidationError(errors.ErrCodeInvalidStrategy, "unknown strategy", nil),
			want: http.StatusBadRequest,
		},
		{
			name: "unsupported file",
			err:  errors.NewValidationError(errors.ErrCodeUnsupportedFile, "bad extension", nil),
			want: http.StatusBadRequest,
		},
		{
			name: "no template for strategy",
			err:  errors.NewNegotiationError(errors.ErrCodeNoTemplate, "empty pool", nil),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "template variable failure is internal",
			err:  errors.NewNegotiationError(errors.ErrCodeTemplateVariable, "unknown variable", nil),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}
