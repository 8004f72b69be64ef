package negotiation

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"neogiator/internal/ai"
	"neogiator/internal/errors"
	"neogiator/internal/types"
)

type stubAnalyzer struct {
	analysis types.TacticAnalysis
	err      error
	calls    int
}

func (s *stubAnalyzer) AnalyzeMessage(ctx context.Context, input ai.AnalyzeMessageInput) (types.TacticAnalysis, *ai.TokenUsage, error) {
	s.calls++
	if s.err != nil {
		return types.TacticAnalysis{}, nil, s.err
	}
	return s.analysis, &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
}

type stubEnhancer struct {
	prefix string
	err    error
	calls  int
	drafts []string
}

func (s *stubEnhancer) EnhanceResponse(ctx context.Context, input ai.EnhanceResponseInput) (string, *ai.TokenUsage, error) {
	s.calls++
	s.drafts = append(s.drafts, input.Draft)
	if s.err != nil {
		return "", nil, s.err
	}
	return s.prefix + input.Draft, &ai.TokenUsage{InputTokens: 20, OutputTokens: 10, TotalTokens: 30}, nil
}

func newTestOrchestrator(store *Store, analyzer ai.TacticAnalyzer, enhancer ai.ResponseEnhancer) *Orchestrator {
	return NewOrchestrator(store, DefaultCatalog(), analyzer, enhancer, nil)
}

func createStoredContext(t *testing.T, store *Store, target *int) string {
	t.Helper()
	return store.Create(CreateParams{
		CompanyName: "TechCorp",
		Position:    "Senior Engineer",
		Profile: types.UserProfile{
			YearsExperience: 8,
			Industry:        "technology",
		},
		TargetSalary: target,
	})
}

func TestRespondHappyPath(t *testing.T) {
	store := NewStore()
	target := 120000
	id := createStoredContext(t, store, &target)

	analyzer := &stubAnalyzer{analysis: types.TacticAnalysis{
		Tactic:           "lowball_offer",
		PressurePoints:   []string{"budget_constraints"},
		ResponseStrategy: "assertive",
	}}
	enhancer := &stubEnhancer{prefix: "ENHANCED: "}
	orch := newTestOrchestrator(store, analyzer, enhancer)

	offer := &types.Offer{Salary: 85000, Benefits: []string{"health"}}
	result, err := orch.Respond(context.Background(), id, "We can offer $85k, need an answer by Friday.", offer)
	if err != nil {
		t.Fatalf("Respond() error: %v", err)
	}

	if !strings.HasPrefix(result.Text, "ENHANCED: ") {
		t.Errorf("response text should carry enhancement, got %q", result.Text)
	}
	if result.AnalysisFallback {
		t.Error("analysis fallback should not be taken when analyzer succeeds")
	}
	if result.EnhancementFallback {
		t.Error("enhancement fallback should not be taken when enhancer succeeds")
	}
	if result.TemplateID == "" {
		t.Error("result should name the selected template")
	}
	if analyzer.calls != 1 || enhancer.calls != 1 {
		t.Errorf("analyzer called %d times, enhancer %d times; want 1 and 1", analyzer.calls, enhancer.calls)
	}

	status, _ := store.Status(id)
	if status.CurrentOffer == nil || status.CurrentOffer.Salary != 85000 {
		t.Error("offer was not recorded on the context")
	}
	if len(status.History) != 2 {
		t.Fatalf("history has %d entries, want 2", len(status.History))
	}
	if status.History[0].Kind != types.HistoryOfferReceived {
		t.Errorf("first history entry kind = %q, want offer_received", status.History[0].Kind)
	}
	if status.History[1].Kind != types.HistoryResponseSent {
		t.Errorf("second history entry kind = %q, want response_sent", status.History[1].Kind)
	}
	if status.History[1].Response != result.Text {
		t.Error("recorded response does not match returned text")
	}
}

func TestRespondAnalyzerFailureDegrades(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)

	analyzer := &stubAnalyzer{err: stderrors.New("upstream unavailable")}
	enhancer := &stubEnhancer{prefix: "ENHANCED: "}
	orch := newTestOrchestrator(store, analyzer, enhancer)

	result, err := orch.Respond(context.Background(), id, "Take it or leave it.", nil)
	if err != nil {
		t.Fatalf("Respond() should degrade, not fail: %v", err)
	}

	if !result.AnalysisFallback {
		t.Error("analysis fallback should be reported")
	}
	if result.Analysis.Tactic != "unknown" {
		t.Errorf("fallback analysis tactic = %q, want unknown", result.Analysis.Tactic)
	}
	if result.Text == "" {
		t.Error("degraded turn must still produce a response")
	}
	if enhancer.calls != 1 {
		t.Error("enhancement should still run after analysis fallback")
	}
}

func TestRespondEnhancerFailureReturnsDraft(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)

	analyzer := &stubAnalyzer{analysis: types.NeutralAnalysis()}
	enhancer := &stubEnhancer{err: stderrors.New("quota exceeded")}
	orch := newTestOrchestrator(store, analyzer, enhancer)

	result, err := orch.Respond(context.Background(), id, "Our offer stands.", nil)
	if err != nil {
		t.Fatalf("Respond() should degrade, not fail: %v", err)
	}

	if !result.EnhancementFallback {
		t.Error("enhancement fallback should be reported")
	}
	if len(enhancer.drafts) != 1 {
		t.Fatal("enhancer should have been attempted once")
	}
	if result.Text != enhancer.drafts[0] {
		t.Error("on enhancement failure the filled draft must be returned verbatim")
	}

	status, _ := store.Status(id)
	if len(status.History) != 1 || status.History[0].Response != result.Text {
		t.Error("draft response should be recorded in history")
	}
}

func TestRespondWithoutProviders(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)

	orch := newTestOrchestrator(store, nil, nil)

	result, err := orch.Respond(context.Background(), id, "Hello.", nil)
	if err != nil {
		t.Fatalf("Respond() without providers should work: %v", err)
	}
	if !result.AnalysisFallback || !result.EnhancementFallback {
		t.Error("both fallbacks should be reported with nil providers")
	}
	if result.Text == "" {
		t.Error("turn must produce text from the template alone")
	}
	if strings.Contains(result.Text, "{") {
		t.Errorf("response contains unsubstituted placeholder: %q", result.Text)
	}
}

func TestRespondNoOfferSkipsOfferHistory(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)
	orch := newTestOrchestrator(store, nil, nil)

	if _, err := orch.Respond(context.Background(), id, "Checking in.", nil); err != nil {
		t.Fatalf("Respond() error: %v", err)
	}

	status, _ := store.Status(id)
	if status.CurrentOffer != nil {
		t.Error("no offer was supplied, none should be recorded")
	}
	if len(status.History) != 1 {
		t.Fatalf("history has %d entries, want 1 (response only)", len(status.History))
	}
	if status.History[0].Kind != types.HistoryResponseSent {
		t.Errorf("history entry kind = %q, want response_sent", status.History[0].Kind)
	}
}

func TestRespondOfferReplacement(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)
	orch := newTestOrchestrator(store, nil, nil)

	first := &types.Offer{Salary: 80000, Benefits: []string{"health", "dental"}}
	if _, err := orch.Respond(context.Background(), id, "First offer.", first); err != nil {
		t.Fatalf("Respond() error: %v", err)
	}

	// Second offer has no benefits; replacement is wholesale, not a merge
	second := &types.Offer{Salary: 90000}
	if _, err := orch.Respond(context.Background(), id, "Improved offer.", second); err != nil {
		t.Fatalf("Respond() error: %v", err)
	}

	status, _ := store.Status(id)
	if status.CurrentOffer.Salary != 90000 {
		t.Errorf("current offer salary = %d, want 90000", status.CurrentOffer.Salary)
	}
	if len(status.CurrentOffer.Benefits) != 0 {
		t.Errorf("benefits should not survive replacement, got %v", status.CurrentOffer.Benefits)
	}
	if len(status.History) != 4 {
		t.Errorf("history has %d entries, want 4 (two offers, two responses)", len(status.History))
	}
}

func TestRespondUnknownContext(t *testing.T) {
	store := NewStore()
	orch := newTestOrchestrator(store, nil, nil)

	_, err := orch.Respond(context.Background(), "nope_1", "Hi.", nil)
	if err == nil {
		t.Fatal("expected error for unknown context")
	}
	if !errors.HasCode(err, errors.ErrCodeContextNotFound) {
		t.Errorf("expected CONTEXT_NOT_FOUND, got %v", err)
	}
}

func TestRespondNoTemplateForStrategy(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)

	// Catalog with no templates for the context's strategy
	orch := NewOrchestrator(store, NewCatalog(nil), nil, nil, nil)

	_, err := orch.Respond(context.Background(), id, "Hi.", nil)
	if err == nil {
		t.Fatal("expected error with an empty catalog")
	}
	if !errors.HasCode(err, errors.ErrCodeNoTemplate) {
		t.Errorf("expected NO_TEMPLATE_AVAILABLE, got %v", err)
	}
}

func TestRespondHistoryGrowsPerTurn(t *testing.T) {
	store := NewStore()
	id := createStoredContext(t, store, nil)
	orch := newTestOrchestrator(store, nil, nil)

	const offerTurns = 3
	const plainTurns = 2

	for i := 0; i < offerTurns; i++ {
		if _, err := orch.Respond(context.Background(), id, "Offer round.", &types.Offer{Salary: 80000 + i}); err != nil {
			t.Fatalf("offer turn %d: %v", i, err)
		}
	}
	for i := 0; i < plainTurns; i++ {
		if _, err := orch.Respond(context.Background(), id, "Plain round.", nil); err != nil {
			t.Fatalf("plain turn %d: %v", i, err)
		}
	}

	status, _ := store.Status(id)
	want := offerTurns*2 + plainTurns
	if len(status.History) != want {
		t.Errorf("history has %d entries, want %d", len(status.History), want)
	}
}
