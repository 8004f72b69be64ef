package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"neogiator/internal/ai"
	"neogiator/internal/errors"
	"neogiator/internal/negotiation"
	"neogiator/internal/observability"
	"neogiator/internal/resume"
	"neogiator/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// statusForError maps application error codes to HTTP status codes.
// Unknown context identifiers surface as 404 instead of creating contexts.
func statusForError(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrCodeContextNotFound):
		return http.StatusNotFound
	case errors.HasCode(err, errors.ErrCodeInvalidStrategy),
		errors.HasCode(err, errors.ErrCodeUnsupportedFile),
		errors.HasCode(err, errors.ErrCodeInvalidRequest):
		return http.StatusBadRequest
	case errors.HasCode(err, errors.ErrCodeNoTemplate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// createContextHandler starts a negotiation context for a company and position.
func (s *Server) createContextHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("neogiator.api")
		ctx, span := tracer.Start(ctx, "api.create_context")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CreateContextRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Company) == "" {
			writeErrorResponse(w, "Missing company", "company field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Position) == "" {
			writeErrorResponse(w, "Missing position", "position field is required", http.StatusBadRequest)
			return
		}

		contextID := s.Store.Create(negotiation.CreateParams{
			CompanyName:    req.Company,
			Position:       req.Position,
			Profile:        req.UserProfile,
			TargetSalary:   req.TargetSalary,
			TargetBenefits: req.TargetBenefits,
			DealBreakers:   req.DealBreakers,
		})

		status, err := s.Store.Status(contextID)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to create context", err.Error(), http.StatusInternalServerError)
			return
		}

		om.GetMetrics().RecordBusinessMetric(ctx, "context_created", true,
			attribute.String("company", req.Company))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("context.id", contextID),
			attribute.Int("leverage.count", len(status.LeveragePoints)),
		)

		writeJSONResponse(w, span, CreateContextResponse{
			ContextID:      contextID,
			LeveragePoints: status.LeveragePoints,
		})
	}
}

// createRespondHandler generates a negotiation reply for an incoming
// employer message, optionally recording a new offer first.
func (s *Server) createRespondHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("neogiator.api")
		ctx, span := tracer.Start(ctx, "api.respond")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RespondRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ContextID) == "" {
			writeErrorResponse(w, "Missing context id", "contextId field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeErrorResponse(w, "Missing message", "message field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("context.id", req.ContextID),
			attribute.Int("request.message_length", len(req.Message)),
			attribute.Bool("request.has_offer", req.Offer != nil),
		)

		metrics := om.GetMetrics()
		result, err := s.Orchestrator.Respond(ctx, req.ContextID, req.Message, req.Offer)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "response_generated", false)
			writeErrorResponse(w, "Failed to generate response", err.Error(), statusForError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "response_generated", true,
			attribute.String("template.id", result.TemplateID))
		if result.AnalysisFallback {
			metrics.RecordBusinessMetric(ctx, "fallback_taken", true,
				attribute.String("operation", "analyze"))
		}
		if result.EnhancementFallback {
			metrics.RecordBusinessMetric(ctx, "fallback_taken", true,
				attribute.String("operation", "enhance"))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("template.id", result.TemplateID),
			attribute.Bool("analysis.fallback", result.AnalysisFallback),
			attribute.Bool("enhancement.fallback", result.EnhancementFallback),
		)
		recordTokenAttributes(span, "analyze", result.AnalysisTokens)
		recordTokenAttributes(span, "enhance", result.EnhancementTokens)

		writeJSONResponse(w, span, RespondResponse{
			Response:            result.Text,
			TemplateID:          result.TemplateID,
			Analysis:            result.Analysis,
			AnalysisFallback:    result.AnalysisFallback,
			EnhancementFallback: result.EnhancementFallback,
		})
	}
}

// statusHandler returns a read-only snapshot of a negotiation context.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contextID := r.URL.Query().Get("context_id")
	if contextID == "" {
		writeErrorResponse(w, "Missing context id", "context_id query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := s.Store.Status(contextID)
	if err != nil {
		writeErrorResponse(w, "Failed to fetch status", err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.Logger.LogError(err, "Failed to encode status response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// strategyHandler switches the active strategy for a context. Unknown
// strategy values are rejected before the store is touched.
func (s *Server) strategyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StrategyRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.ContextID) == "" {
		writeErrorResponse(w, "Missing context id", "contextId field is required", http.StatusBadRequest)
		return
	}

	strategy, err := types.ParseStrategy(req.Strategy)
	if err != nil {
		writeErrorResponse(w, "Invalid strategy", err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.Store.UpdateStrategy(req.ContextID, strategy); err != nil {
		writeErrorResponse(w, "Failed to update strategy", err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"contextId": req.ContextID,
		"strategy":  strategy,
	}); err != nil {
		s.Logger.LogError(err, "Failed to encode strategy response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// leverageHandler appends a manual leverage point to a context.
func (s *Server) leverageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LeverageRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.ContextID) == "" {
		writeErrorResponse(w, "Missing context id", "contextId field is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Point) == "" {
		writeErrorResponse(w, "Missing leverage point", "point field is required", http.StatusBadRequest)
		return
	}

	if err := s.Store.AddLeveragePoint(req.ContextID, req.Point); err != nil {
		writeErrorResponse(w, "Failed to add leverage point", err.Error(), statusForError(err))
		return
	}

	status, err := s.Store.Status(req.ContextID)
	if err != nil {
		writeErrorResponse(w, "Failed to fetch status", err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"contextId":      req.ContextID,
		"leveragePoints": status.LeveragePoints,
	}); err != nil {
		s.Logger.LogError(err, "Failed to encode leverage response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// strategiesHandler enumerates the supported negotiation strategies.
func (s *Server) strategiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"strategies": types.AllStrategies(),
		"default":    types.DefaultStrategy,
	}); err != nil {
		s.Logger.LogError(err, "Failed to encode strategies response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ExtractResponse carries an extracted resume profile and the derived
// negotiation profile.
type ExtractResponse struct {
	Profile     types.ExtractedProfile `json:"profile"`
	UserProfile types.UserProfile      `json:"userProfile"`
	Fallback    bool                   `json:"fallback"`
}

// createExtractHandler turns an uploaded resume into a structured profile.
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("neogiator.api")
		ctx, span := tracer.Start(ctx, "api.extract")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		filename, data, err := readResumeUpload(r, s.MaxRequestSize)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid resume upload", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", filename),
			attribute.Int("request.file_size", len(data)),
		)

		metrics := om.GetMetrics()
		result, err := s.ResumeParser.Parse(ctx, filename, data)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_parsed", false)
			writeErrorResponse(w, "Failed to parse resume", err.Error(), statusForError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_parsed", true,
			attribute.Bool("fallback", result.Fallback))
		if result.Fallback {
			metrics.RecordBusinessMetric(ctx, "fallback_taken", true,
				attribute.String("operation", "extract"))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("extraction.fallback", result.Fallback),
		)
		recordTokenAttributes(span, "extract", result.Tokens)

		writeJSONResponse(w, span, ExtractResponse{
			Profile:     result.Profile,
			UserProfile: resume.BuildUserProfile(result.Profile),
			Fallback:    result.Fallback,
		})
	}
}

// readResumeUpload reads the resume file from a multipart form, falling back
// to the raw body with an X-Filename header for simple clients.
func readResumeUpload(r *http.Request, maxSize int64) (string, []byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return "", nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			return "", nil, fmt.Errorf("resume file field is required: %w", err)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read resume file: %w", err)
		}
		return header.Filename, data, nil
	}

	filename := r.Header.Get("X-Filename")
	if filename == "" {
		return "", nil, fmt.Errorf("multipart form with resume field or X-Filename header required")
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return filename, data, nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// recordTokenAttributes attaches AI token usage to a span when available.
func recordTokenAttributes(span oteltrace.Span, operation string, usage *ai.TokenUsage) {
	if usage == nil {
		return
	}
	span.SetAttributes(
		attribute.Int64("ai."+operation+".tokens.input", usage.InputTokens),
		attribute.Int64("ai."+operation+".tokens.output", usage.OutputTokens),
		attribute.Int64("ai."+operation+".tokens.total", usage.TotalTokens),
	)
}
