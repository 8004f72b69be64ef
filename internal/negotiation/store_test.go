package negotiation

import (
	"sync"
	"testing"

	"neogiator/internal/errors"
	"neogiator/internal/types"
)

func TestStoreCreateGeneratesUniqueIDs(t *testing.T) {
	store := NewStore()

	params := CreateParams{
		CompanyName: "TechCorp",
		Position:    "Senior Engineer",
	}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := store.Create(params)
		if seen[id] {
			t.Fatalf("duplicate context ID generated: %s", id)
		}
		seen[id] = true
	}

	if store.Len() != 50 {
		t.Errorf("expected 50 contexts, got %d", store.Len())
	}
}

func TestStoreCreateConcurrent(t *testing.T) {
	store := NewStore()

	const workers = 20
	const perWorker = 10

	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- store.Create(CreateParams{CompanyName: "Acme", Position: "Dev"})
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate context ID under concurrency: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}
}

func TestStoreCreateComputesLeverage(t *testing.T) {
	store := NewStore()

	target := 120000
	id := store.Create(CreateParams{
		CompanyName: "TechCorp",
		Position:    "Staff Engineer",
		Profile: types.UserProfile{
			YearsExperience:   9,
			HasCompetingOffer: true,
		},
		TargetSalary: &target,
	})

	status, err := store.Status(id)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}

	want := []string{LeverageSeniorExperience, LeverageCompetingOffer}
	if len(status.LeveragePoints) != len(want) {
		t.Fatalf("leverage points = %v, want %v", status.LeveragePoints, want)
	}
	for i, p := range want {
		if status.LeveragePoints[i] != p {
			t.Errorf("leverage point %d = %q, want %q", i, status.LeveragePoints[i], p)
		}
	}

	if status.Strategy != types.DefaultStrategy {
		t.Errorf("new context strategy = %q, want default %q", status.Strategy, types.DefaultStrategy)
	}
	if status.CurrentOffer != nil {
		t.Error("new context should have no current offer")
	}
	if len(status.History) != 0 {
		t.Errorf("new context history should be empty, got %d entries", len(status.History))
	}
}

func TestStoreUnknownContext(t *testing.T) {
	store := NewStore()

	checkNotFound := func(t *testing.T, err error) {
		t.Helper()
		if err == nil {
			t.Fatal("expected error for unknown context")
		}
		if !errors.HasCode(err, errors.ErrCodeContextNotFound) {
			t.Errorf("expected CONTEXT_NOT_FOUND, got %v", err)
		}
	}

	t.Run("Status", func(t *testing.T) {
		_, err := store.Status("missing_id_1")
		checkNotFound(t, err)
	})

	t.Run("UpdateStrategy", func(t *testing.T) {
		err := store.UpdateStrategy("missing_id_1", types.StrategyConfidentAssertive)
		checkNotFound(t, err)
	})

	t.Run("AddLeveragePoint", func(t *testing.T) {
		err := store.AddLeveragePoint("missing_id_1", "competing_offer")
		checkNotFound(t, err)
	})

	t.Run("WithContext", func(t *testing.T) {
		err := store.WithContext("missing_id_1", func(*types.NegotiationContext) error { return nil })
		checkNotFound(t, err)
	})

	// Unknown identifiers must never materialize contexts
	if store.Len() != 0 {
		t.Errorf("store should remain empty, has %d contexts", store.Len())
	}
}

func TestStoreUpdateStrategyRoundTrip(t *testing.T) {
	store := NewStore()
	id := store.Create(CreateParams{CompanyName: "Acme", Position: "Dev"})

	if err := store.UpdateStrategy(id, types.StrategyCollaborativeProblemSolver); err != nil {
		t.Fatalf("UpdateStrategy() error: %v", err)
	}

	status, err := store.Status(id)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status.Strategy != types.StrategyCollaborativeProblemSolver {
		t.Errorf("strategy = %q, want %q", status.Strategy, types.StrategyCollaborativeProblemSolver)
	}
}

func TestStoreAddLeveragePointAllowsDuplicates(t *testing.T) {
	store := NewStore()
	id := store.Create(CreateParams{CompanyName: "Acme", Position: "Dev"})

	for i := 0; i < 2; i++ {
		if err := store.AddLeveragePoint(id, "competing_offer"); err != nil {
			t.Fatalf("AddLeveragePoint() error: %v", err)
		}
	}

	status, _ := store.Status(id)
	count := 0
	for _, p := range status.LeveragePoints {
		if p == "competing_offer" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 occurrences of manual point, got %d", count)
	}
}

func TestStoreStatusSnapshotIsolation(t *testing.T) {
	store := NewStore()
	target := 100000
	id := store.Create(CreateParams{
		CompanyName:  "Acme",
		Position:     "Dev",
		Profile:      types.UserProfile{HasCompetingOffer: true},
		TargetSalary: &target,
	})

	err := store.WithContext(id, func(nc *types.NegotiationContext) error {
		// Record the offer the way a turn does: the same Offer value as
		// both the current offer and the history entry.
		offer := &types.Offer{Salary: 85000, Benefits: []string{"health"}}
		nc.CurrentOffer = offer
		nc.History = append(nc.History, types.HistoryEntry{
			Kind:  types.HistoryOfferReceived,
			Offer: offer,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("WithContext() error: %v", err)
	}

	status, _ := store.Status(id)

	// Mutate everything reachable through the snapshot
	status.LeveragePoints[0] = "tampered"
	status.CurrentOffer.Salary = 1
	status.CurrentOffer.Benefits[0] = "tampered"
	status.History[0].Offer.Salary = 1
	status.History[0].Offer.Benefits[0] = "tampered"
	*status.TargetSalary = 1

	fresh, _ := store.Status(id)
	if fresh.LeveragePoints[0] != LeverageCompetingOffer {
		t.Error("snapshot mutation leaked into stored leverage points")
	}
	if fresh.CurrentOffer.Salary != 85000 {
		t.Error("snapshot mutation leaked into stored offer salary")
	}
	if fresh.CurrentOffer.Benefits[0] != "health" {
		t.Error("snapshot mutation leaked into stored offer benefits")
	}
	if fresh.History[0].Offer.Salary != 85000 {
		t.Error("snapshot mutation leaked into stored history offer")
	}
	if fresh.History[0].Offer.Benefits[0] != "health" {
		t.Error("snapshot mutation leaked into stored history offer benefits")
	}
	if *fresh.TargetSalary != 100000 {
		t.Error("snapshot mutation leaked into stored target salary")
	}
}

func TestStoreWithContextSerializesTurns(t *testing.T) {
	store := NewStore()
	id := store.Create(CreateParams{CompanyName: "Acme", Position: "Dev"})

	const turns = 100
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithContext(id, func(nc *types.NegotiationContext) error {
				// Non-atomic read-modify-write; only safe when serialized
				n := len(nc.History)
				nc.History = append(nc.History, types.HistoryEntry{
					Kind:     types.HistoryResponseSent,
					Response: "turn",
				})
				if len(nc.History) != n+1 {
					t.Error("history append interleaved")
				}
				return nil
			})
		}()
	}
	wg.Wait()

	status, _ := store.Status(id)
	if len(status.History) != turns {
		t.Errorf("history has %d entries, want %d", len(status.History), turns)
	}
}
