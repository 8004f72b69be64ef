package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"neogiator/internal/config"
	neogiatorErrors "neogiator/internal/errors"
	"neogiator/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *neogiatorErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *neogiatorErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, neogiatorErrors.NewAIError(neogiatorErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection refused) are worth retrying
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// generate runs a single generation request through the circuit breaker and
// retry stack, with common span bookkeeping.
func (g *GeminiProvider) generate(ctx context.Context, span trace.Span, operationName, userPrompt, systemPrompt string, genaiConfig *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, neogiatorErrors.NewAIError(neogiatorErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if tokenUsage := extractTokenUsage(result); tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	return result, nil
}

// executeAIOperation is a generic helper to run structured AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("neogiator.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()
	span.SetAttributes(spanAttributes...)

	result, err := g.generate(ctx, span, operationName, userPrompt, systemPrompt, genaiConfig)
	if err != nil {
		return output, nil, err
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, neogiatorErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, extractTokenUsage(result), nil
}

// executeTextOperation runs an AI operation that returns free-form text
// instead of a JSON document.
func (g *GeminiProvider) executeTextOperation(
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (string, *TokenUsage, error) {
	tracer := otel.Tracer("neogiator.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()
	span.SetAttributes(spanAttributes...)

	result, err := g.generate(ctx, span, operationName, userPrompt, systemPrompt, genaiConfig)
	if err != nil {
		return "", nil, err
	}

	text := strings.TrimSpace(result.Text())
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(text)),
	)
	return text, extractTokenUsage(result), nil
}

// AnalyzeMessage implements TacticAnalyzer for employer message classification
func (g *GeminiProvider) AnalyzeMessage(ctx context.Context, input AnalyzeMessageInput) (types.TacticAnalysis, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("analyze")
	userPrompt := fmt.Sprintf(g.getUserPrompt("analyze"),
		input.Message,
		input.Company,
		input.Position,
		formatTargetSalary(input.TargetSalary),
		formatLeveragePoints(input.LeveragePoints),
	)

	output, tokenUsage, err := executeAIOperation[types.TacticAnalysis](
		g,
		ctx,
		"analyze_message",
		userPrompt,
		systemPrompt,
		g.buildAnalyzeSchema(),
		attribute.Int("input.message_length", len(input.Message)),
		attribute.Int("input.leverage_count", len(input.LeveragePoints)),
	)
	if err != nil {
		return types.TacticAnalysis{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("output.tactic", output.Tactic),
			attribute.Int("output.pressure_points", len(output.PressurePoints)),
		)
	}

	return output, tokenUsage, nil
}

// EnhanceResponse implements ResponseEnhancer for drafted negotiation replies
func (g *GeminiProvider) EnhanceResponse(ctx context.Context, input EnhanceResponseInput) (string, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("enhance")
	userPrompt := fmt.Sprintf(g.getUserPrompt("enhance"),
		input.Draft,
		input.Company,
		input.Position,
		formatTargetSalary(input.TargetSalary),
		formatLeveragePoints(input.LeveragePoints),
	)

	genaiConfig := &genai.GenerateContentConfig{}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return g.executeTextOperation(
		ctx,
		"enhance_response",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.Int("input.draft_length", len(input.Draft)),
	)
}

// ExtractProfile implements ProfileExtractor for resume structuring
func (g *GeminiProvider) ExtractProfile(ctx context.Context, resumeText string) (types.ExtractedProfile, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("extract")
	userPrompt := fmt.Sprintf(g.getUserPrompt("extract"), resumeText)

	output, tokenUsage, err := executeAIOperation[types.ExtractedProfile](
		g,
		ctx,
		"extract_profile",
		userPrompt,
		systemPrompt,
		g.buildExtractSchema(),
		attribute.Int("input.resume_length", len(resumeText)),
	)
	if err != nil {
		return types.ExtractedProfile{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.skills_count", len(output.Skills)),
			attribute.Int("output.positions_count", len(output.WorkExperience)),
		)
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy()

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildAnalyzeSchema creates the schema for tactic analysis requests
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"tactic": {Type: genai.TypeString},
				"pressurePoints": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"informationNeeds": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"responseStrategy": {Type: genai.TypeString},
			},
			Required: []string{"tactic", "pressurePoints", "responseStrategy"},
		},
	}

	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildExtractSchema creates the schema for profile extraction requests
func (g *GeminiProvider) buildExtractSchema() *genai.GenerateContentConfig {
	stringArray := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":            {Type: genai.TypeString},
				"email":           {Type: genai.TypeString},
				"phone":           {Type: genai.TypeString},
				"yearsExperience": {Type: genai.TypeInteger},
				"educationLevel":  {Type: genai.TypeString},
				"industry":        {Type: genai.TypeString},
				"skills":          stringArray,
				"certifications":  stringArray,
				"achievements":    stringArray,
				"workExperience": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":       {Type: genai.TypeString},
							"company":     {Type: genai.TypeString},
							"duration":    {Type: genai.TypeString},
							"description": {Type: genai.TypeString},
						},
						Required: []string{"title", "company"},
					},
				},
				"education": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"degree":      {Type: genai.TypeString},
							"institution": {Type: genai.TypeString},
							"year":        {Type: genai.TypeString},
						},
						Required: []string{"degree"},
					},
				},
				"languages": stringArray,
			},
			Required: []string{"name", "skills"},
		},
	}

	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt(promptType string) string {
	loadedPrompts, configPrompts := g.getPrompts(promptType)

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.AnalyzeTactic,
			configPrompts.SystemPrompts.AnalyzeTactic,
			DefaultSystemPrompts.AnalyzeTactic,
		)
	case "enhance":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.EnhanceResponse,
			configPrompts.SystemPrompts.EnhanceResponse,
			DefaultSystemPrompts.EnhanceResponse,
		)
	case "extract":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.ExtractProfile,
			configPrompts.SystemPrompts.ExtractProfile,
			DefaultSystemPrompts.ExtractProfile,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt(promptType string) string {
	loadedPrompts, configPrompts := g.getPrompts(promptType)

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.UserPrompts.AnalyzeTactic,
			configPrompts.UserPrompts.AnalyzeTactic,
			DefaultUserPrompts.AnalyzeTactic,
		)
	case "enhance":
		return resolvePrompt(
			loadedPrompts.UserPrompts.EnhanceResponse,
			configPrompts.UserPrompts.EnhanceResponse,
			DefaultUserPrompts.EnhanceResponse,
		)
	case "extract":
		return resolvePrompt(
			loadedPrompts.UserPrompts.ExtractProfile,
			configPrompts.UserPrompts.ExtractProfile,
			DefaultUserPrompts.ExtractProfile,
		)
	default:
		return ""
	}
}

// getPrompts returns the appropriate prompts for the operation, prioritizing loaded content over config
func (g *GeminiProvider) getPrompts(operationType string) (config.OperationLoadedPrompts, *config.PromptConfig) {
	loadedPrompts := config.GetPromptsForOperation(operationType)
	configPrompts := &g.config.CustomPrompts
	return loadedPrompts, configPrompts
}

// resolvePrompt selects the correct prompt string based on priority order:
// file-loaded content, then config content, then the hardcoded default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// formatTargetSalary renders the candidate's target for prompt interpolation
func formatTargetSalary(target *int) string {
	if target == nil {
		return "not disclosed"
	}
	return strconv.Itoa(*target)
}

// formatLeveragePoints renders leverage tags for prompt interpolation
func formatLeveragePoints(points []string) string {
	if len(points) == 0 {
		return "none identified"
	}
	return strings.Join(points, ", ")
}
