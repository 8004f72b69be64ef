package ai

import (
	"context"

	"neogiator/internal/types"
)

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// AnalyzeMessageInput carries an employer message with its negotiation context
type AnalyzeMessageInput struct {
	Message        string
	Company        string
	Position       string
	TargetSalary   *int
	LeveragePoints []string
}

// EnhanceResponseInput carries a drafted response with its negotiation context
type EnhanceResponseInput struct {
	Draft          string
	Company        string
	Position       string
	TargetSalary   *int
	LeveragePoints []string
}

// TacticAnalyzer classifies the negotiation tactic in an employer message
type TacticAnalyzer interface {
	AnalyzeMessage(ctx context.Context, input AnalyzeMessageInput) (types.TacticAnalysis, *TokenUsage, error)
}

// ResponseEnhancer rewrites a drafted response into more persuasive prose
type ResponseEnhancer interface {
	EnhanceResponse(ctx context.Context, input EnhanceResponseInput) (string, *TokenUsage, error)
}

// ProfileExtractor structures raw resume text into a candidate profile
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, resumeText string) (types.ExtractedProfile, *TokenUsage, error)
}

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	TacticAnalyzer
	ResponseEnhancer
	ProfileExtractor
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
