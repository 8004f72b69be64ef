package negotiation

import (
	"context"
	"time"

	"neogiator/internal/ai"
	"neogiator/internal/errors"
	"neogiator/internal/types"
)

// Orchestrator coordinates one full negotiation turn: record the incoming
// offer, analyze the employer's message, select and fill a template, enhance
// the draft, and append the result to history. The two external AI calls are
// allowed to fail; the turn degrades instead of aborting. Selection and
// filling errors are terminal for the turn.
type Orchestrator struct {
	store    *Store
	catalog  *Catalog
	analyzer ai.TacticAnalyzer
	enhancer ai.ResponseEnhancer
	logger   *errors.Logger
}

// NewOrchestrator wires a response orchestrator. analyzer and enhancer may be
// nil when no AI provider is configured; every turn then takes the fallback
// path and still produces a usable reply.
func NewOrchestrator(store *Store, catalog *Catalog, analyzer ai.TacticAnalyzer, enhancer ai.ResponseEnhancer, logger *errors.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		catalog:  catalog,
		analyzer: analyzer,
		enhancer: enhancer,
		logger:   logger,
	}
}

// TurnResult reports what one turn produced, including which degradation
// paths were taken so callers can record them in metrics.
type TurnResult struct {
	Text                string               `json:"text"`
	TemplateID          string               `json:"templateId"`
	Analysis            types.TacticAnalysis `json:"analysis"`
	AnalysisFallback    bool                 `json:"analysisFallback"`
	EnhancementFallback bool                 `json:"enhancementFallback"`
	AnalysisTokens      *ai.TokenUsage       `json:"analysisTokens,omitempty"`
	EnhancementTokens   *ai.TokenUsage       `json:"enhancementTokens,omitempty"`
}

// Respond runs one negotiation turn against the identified context. The whole
// turn executes under the per-context lock, so concurrent turns on the same
// identifier serialize while turns on different identifiers run in parallel.
// Within a turn, analysis always precedes template selection and enhancement
// always follows filling.
func (o *Orchestrator) Respond(ctx context.Context, contextID, incomingMessage string, offer *types.Offer) (TurnResult, error) {
	var result TurnResult

	err := o.store.WithContext(contextID, func(nc *types.NegotiationContext) error {
		if offer != nil {
			recorded := *offer
			nc.CurrentOffer = &recorded
			nc.History = append(nc.History, types.HistoryEntry{
				Kind:      types.HistoryOfferReceived,
				Timestamp: time.Now(),
				Offer:     &recorded,
			})
		}

		result.Analysis, result.AnalysisTokens, result.AnalysisFallback = o.analyzeMessage(ctx, incomingMessage, nc)

		template, err := SelectTemplate(o.catalog, result.Analysis, nc)
		if err != nil {
			return err
		}
		result.TemplateID = template.TemplateID

		draft, err := FillTemplate(template, nc)
		if err != nil {
			return err
		}

		result.Text, result.EnhancementTokens, result.EnhancementFallback = o.enhanceDraft(ctx, draft, nc)

		nc.History = append(nc.History, types.HistoryEntry{
			Kind:       types.HistoryResponseSent,
			Timestamp:  time.Now(),
			TemplateID: template.TemplateID,
			Response:   result.Text,
		})
		return nil
	})
	if err != nil {
		return TurnResult{}, err
	}
	return result, nil
}

// analyzeMessage invokes the external tactic analyzer and degrades to the
// neutral analysis on any failure. The failure is logged so genuinely
// unexpected errors stay observable, but it never aborts the turn.
func (o *Orchestrator) analyzeMessage(ctx context.Context, message string, nc *types.NegotiationContext) (types.TacticAnalysis, *ai.TokenUsage, bool) {
	if o.analyzer == nil {
		return types.NeutralAnalysis(), nil, true
	}

	analysis, tokens, err := o.analyzer.AnalyzeMessage(ctx, ai.AnalyzeMessageInput{
		Message:        message,
		Company:        nc.CompanyName,
		Position:       nc.Position,
		TargetSalary:   nc.TargetSalary,
		LeveragePoints: nc.LeveragePoints,
	})
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("Tactic analysis failed, continuing with neutral analysis",
				"company", nc.CompanyName,
				"position", nc.Position,
				"error", err.Error())
		}
		return types.NeutralAnalysis(), nil, true
	}
	return analysis, tokens, false
}

// enhanceDraft invokes the external text enhancer and degrades to the filled
// template verbatim on any failure.
func (o *Orchestrator) enhanceDraft(ctx context.Context, draft string, nc *types.NegotiationContext) (string, *ai.TokenUsage, bool) {
	if o.enhancer == nil {
		return draft, nil, true
	}

	enhanced, tokens, err := o.enhancer.EnhanceResponse(ctx, ai.EnhanceResponseInput{
		Draft:          draft,
		Company:        nc.CompanyName,
		Position:       nc.Position,
		TargetSalary:   nc.TargetSalary,
		LeveragePoints: nc.LeveragePoints,
	})
	if err != nil || enhanced == "" {
		if err != nil && o.logger != nil {
			o.logger.Warn("Response enhancement failed, returning filled template",
				"company", nc.CompanyName,
				"error", err.Error())
		}
		return draft, nil, true
	}
	return enhanced, tokens, false
}
