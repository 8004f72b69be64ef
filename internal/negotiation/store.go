package negotiation

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"neogiator/internal/errors"
	"neogiator/internal/types"
)

// Store holds all active negotiation contexts in process memory. Contexts live
// until process end; nothing is persisted. The store owns two levels of
// locking: a map-level mutex guarding the context table, and one mutex per
// context serializing full turns against the same identifier so that
// concurrent turns cannot tear current_offer or lose history appends. Turns
// against different identifiers proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	contexts map[string]*entry
	seq      atomic.Uint64
}

// entry pairs a context with its per-context turn lock.
type entry struct {
	mu  sync.Mutex
	ctx *types.NegotiationContext
}

// NewStore creates an empty context store. One store is constructed at process
// start and injected wherever contexts are needed; tests build their own for
// isolation.
func NewStore() *Store {
	return &Store{contexts: make(map[string]*entry)}
}

// CreateParams carries the caller-supplied fields for a new negotiation context.
type CreateParams struct {
	CompanyName    string
	Position       string
	Profile        types.UserProfile
	TargetSalary   *int
	TargetBenefits []string
	DealBreakers   []string
}

// Create registers a new negotiation context and returns its identifier.
// Identifiers combine the company, position, and a process-lifetime sequence
// number, so two creations never collide even with identical company and
// position arguments. Leverage points are computed once here from the profile.
func (s *Store) Create(params CreateParams) string {
	id := fmt.Sprintf("%s_%s_%d",
		sanitizeIDPart(params.CompanyName),
		sanitizeIDPart(params.Position),
		s.seq.Add(1))

	ctx := &types.NegotiationContext{
		CompanyName:    params.CompanyName,
		Position:       params.Position,
		CurrentOffer:   nil,
		UserProfile:    params.Profile,
		History:        []types.HistoryEntry{},
		Strategy:       types.DefaultStrategy,
		TargetSalary:   params.TargetSalary,
		TargetBenefits: params.TargetBenefits,
		DealBreakers:   params.DealBreakers,
		LeveragePoints: IdentifyLeveragePoints(params.Profile),
	}

	s.mu.Lock()
	s.contexts[id] = &entry{ctx: ctx}
	s.mu.Unlock()

	return id
}

// sanitizeIDPart makes a company or position usable inside an identifier.
func sanitizeIDPart(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}

// lookup returns the entry for an identifier or a CONTEXT_NOT_FOUND error.
// Unknown identifiers are never fabricated into fresh contexts.
func (s *Store) lookup(contextID string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.contexts[contextID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNegotiationError(errors.ErrCodeContextNotFound,
			fmt.Sprintf("negotiation context %q not found", contextID), nil).
			WithContext("context_id", contextID)
	}
	return e, nil
}

// UpdateStrategy switches the active strategy for a context.
func (s *Store) UpdateStrategy(contextID string, strategy types.NegotiationStrategy) error {
	e, err := s.lookup(contextID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.ctx.Strategy = strategy
	e.mu.Unlock()
	return nil
}

// AddLeveragePoint appends a manual leverage tag. Duplicates are allowed;
// nothing deduplicates the list.
func (s *Store) AddLeveragePoint(contextID, point string) error {
	e, err := s.lookup(contextID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.ctx.LeveragePoints = append(e.ctx.LeveragePoints, point)
	e.mu.Unlock()
	return nil
}

// Status returns a read-only snapshot of a context. Slices are copied so the
// caller cannot mutate store state through the snapshot.
func (s *Store) Status(contextID string) (types.NegotiationStatus, error) {
	e, err := s.lookup(contextID)
	if err != nil {
		return types.NegotiationStatus{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	history := append([]types.HistoryEntry(nil), e.ctx.History...)
	for i := range history {
		history[i].Offer = copyOffer(history[i].Offer)
	}

	status := types.NegotiationStatus{
		ContextID:      contextID,
		Company:        e.ctx.CompanyName,
		Position:       e.ctx.Position,
		Strategy:       e.ctx.Strategy,
		History:        history,
		LeveragePoints: append([]string(nil), e.ctx.LeveragePoints...),
		CurrentOffer:   copyOffer(e.ctx.CurrentOffer),
	}
	if e.ctx.TargetSalary != nil {
		target := *e.ctx.TargetSalary
		status.TargetSalary = &target
	}
	return status, nil
}

// copyOffer clones an offer so a snapshot never aliases store state. The
// orchestrator records the same Offer value as CurrentOffer and in history,
// so each occurrence has to be cloned independently.
func copyOffer(o *types.Offer) *types.Offer {
	if o == nil {
		return nil
	}
	c := *o
	c.Benefits = append([]string(nil), o.Benefits...)
	return &c
}

// WithContext runs fn while holding the per-context lock, giving fn exclusive
// access to the context for exactly one turn. The orchestrator uses this to
// keep the read-offer, mutate, append-history sequence atomic against
// interleaved turns on the same identifier.
func (s *Store) WithContext(contextID string, fn func(*types.NegotiationContext) error) error {
	e, err := s.lookup(contextID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.ctx)
}

// Len reports the number of live contexts, for stats endpoints.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}
