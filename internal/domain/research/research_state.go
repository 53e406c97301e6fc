package research

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// InProgress is the single active research record an actor may hold
type InProgress struct {
	TechID         string
	PointsSpent    int
	PointsRequired int
	StartedAt      time.Time
}

// Remaining returns the points still needed to complete the tech
func (p InProgress) Remaining() int {
	if p.PointsSpent >= p.PointsRequired {
		return 0
	}
	return p.PointsRequired - p.PointsSpent
}

// ApplyResult describes the effect of a points application
type ApplyResult struct {
	TechID          string
	PointsApplied   int
	PointsRemaining int
	Completed       bool
}

// ResearchState is an actor's position in the tech graph.
//
// Available and locked are derived from the completed set: they always partition
// the catalog minus completed techs and are rebuilt whenever completed changes.
type ResearchState struct {
	actorID          shared.ActorID
	completed        map[string]struct{}
	available        []string
	locked           []string
	inProgress       *InProgress
	totalPointsSpent int
	version          int
	updatedAt        time.Time
}

// NewResearchState creates the lazily-initialised state for an actor with nothing completed
func NewResearchState(actorID shared.ActorID, catalog *Catalog, now time.Time) *ResearchState {
	s := &ResearchState{
		actorID:   actorID,
		completed: make(map[string]struct{}),
		updatedAt: now,
	}
	s.Recompute(catalog)
	return s
}

// ReconstructResearchState rebuilds state from persistence. Derived sets are
// recomputed against the current catalog rather than trusted from storage.
func ReconstructResearchState(
	actorID shared.ActorID,
	completed []string,
	inProgress *InProgress,
	totalPointsSpent int,
	version int,
	updatedAt time.Time,
	catalog *Catalog,
) *ResearchState {
	s := &ResearchState{
		actorID:          actorID,
		completed:        make(map[string]struct{}, len(completed)),
		inProgress:       inProgress,
		totalPointsSpent: totalPointsSpent,
		version:          version,
		updatedAt:        updatedAt,
	}
	for _, id := range completed {
		s.completed[id] = struct{}{}
	}
	s.Recompute(catalog)
	return s
}

// CanStart checks every precondition for starting techID, in order:
// unknown, completed, in progress, prerequisites, gates, balance.
func (s *ResearchState) CanStart(catalog *Catalog, techID string, balance int, gates Gates) error {
	def, ok := catalog.Get(techID)
	if !ok {
		return shared.NewValidationError(shared.ReasonUnknownTech, "tech %q is not in the catalog", techID)
	}

	if s.IsCompleted(techID) {
		return shared.NewPreconditionError(shared.ReasonAlreadyCompleted, "tech %s is already completed", techID)
	}

	if s.inProgress != nil {
		if s.inProgress.TechID == techID {
			return shared.NewPreconditionError(shared.ReasonAlreadyInProgress, "tech %s is already being researched", techID)
		}
		return shared.NewPreconditionError(shared.ReasonConcurrentResearchActive,
			"research of %s is active; only one tech may be researched at a time", s.inProgress.TechID).
			WithDetail("active_tech", s.inProgress.TechID)
	}

	if missing := catalog.MissingPrerequisites(techID, s.completed); len(missing) > 0 {
		return shared.NewPreconditionError(shared.ReasonPrerequisiteUnmet,
			"tech %s requires %s", techID, strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}

	if def.MinActorLevel > 0 && gates.ActorLevel < def.MinActorLevel {
		return shared.NewPreconditionError(shared.ReasonActorLevelTooLow,
			"tech %s requires actor level %d, have %d", techID, def.MinActorLevel, gates.ActorLevel)
	}
	if def.MinGroupLevel > 0 && gates.GroupLevel < def.MinGroupLevel {
		return shared.NewPreconditionError(shared.ReasonGroupLevelTooLow,
			"tech %s requires group level %d, have %d", techID, def.MinGroupLevel, gates.GroupLevel)
	}

	if balance < def.Cost {
		return shared.NewPreconditionError(shared.ReasonInsufficientPoints,
			"tech %s costs %d points, have %d", techID, def.Cost, balance).
			WithDetail("required", def.Cost).
			WithDetail("available", balance)
	}

	return nil
}

// Start opens the in-progress record. multiplier discounts the cost and must be in (0, 1].
func (s *ResearchState) Start(catalog *Catalog, techID string, balance int, gates Gates, multiplier float64, now time.Time) error {
	if multiplier <= 0 || multiplier > 1 {
		return shared.NewValidationError(shared.ReasonInvalidArgument, "cost multiplier must be in (0, 1], got %.2f", multiplier)
	}
	if err := s.CanStart(catalog, techID, balance, gates); err != nil {
		return err
	}

	def, _ := catalog.Get(techID)
	required := int(math.Ceil(float64(def.Cost) * multiplier))
	if required < 1 {
		required = 1
	}

	s.inProgress = &InProgress{
		TechID:         techID,
		PointsRequired: required,
		StartedAt:      now,
	}
	s.updatedAt = now
	return nil
}

// Spendable returns how much of amount the active research can absorb
func (s *ResearchState) Spendable(amount int) (int, error) {
	if amount <= 0 {
		return 0, shared.NewValidationError(shared.ReasonInvalidArgument, "amount must be positive, got %d", amount)
	}
	if s.inProgress == nil {
		return 0, shared.NewPreconditionError(shared.ReasonNoActiveResearch, "no research in progress")
	}
	if remaining := s.inProgress.Remaining(); amount > remaining {
		return remaining, nil
	}
	return amount, nil
}

// ApplyPoints adds already-debited points to the active research and completes
// the tech once the requirement is met. Points beyond the requirement are not absorbed.
func (s *ResearchState) ApplyPoints(catalog *Catalog, amount int, now time.Time) (ApplyResult, error) {
	applied, err := s.Spendable(amount)
	if err != nil {
		return ApplyResult{}, err
	}

	s.inProgress.PointsSpent += applied
	s.totalPointsSpent += applied
	s.updatedAt = now

	result := ApplyResult{
		TechID:          s.inProgress.TechID,
		PointsApplied:   applied,
		PointsRemaining: s.inProgress.Remaining(),
	}

	if s.inProgress.PointsSpent >= s.inProgress.PointsRequired {
		s.completed[s.inProgress.TechID] = struct{}{}
		s.inProgress = nil
		s.Recompute(catalog)
		result.Completed = true
	}

	return result, nil
}

// Cancel drops the active research. Spent points are not refunded.
func (s *ResearchState) Cancel(now time.Time) (InProgress, error) {
	if s.inProgress == nil {
		return InProgress{}, shared.NewPreconditionError(shared.ReasonNoActiveResearch, "no research in progress")
	}
	cancelled := *s.inProgress
	s.inProgress = nil
	s.updatedAt = now
	return cancelled, nil
}

// Recompute rebuilds the available and locked sets in one pass over the catalog
func (s *ResearchState) Recompute(catalog *Catalog) {
	available := make([]string, 0)
	locked := make([]string, 0)

	for _, id := range catalog.order {
		if _, done := s.completed[id]; done {
			continue
		}
		if len(catalog.MissingPrerequisites(id, s.completed)) == 0 {
			available = append(available, id)
		} else {
			locked = append(locked, id)
		}
	}

	s.available = available
	s.locked = locked
}

// Getters

func (s *ResearchState) ActorID() shared.ActorID {
	return s.actorID
}

func (s *ResearchState) IsCompleted(techID string) bool {
	_, ok := s.completed[techID]
	return ok
}

// Completed returns completed tech ids sorted lexically
func (s *ResearchState) Completed() []string {
	ids := make([]string, 0, len(s.completed))
	for id := range s.completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *ResearchState) Available() []string {
	return append([]string(nil), s.available...)
}

func (s *ResearchState) Locked() []string {
	return append([]string(nil), s.locked...)
}

// InProgress returns a copy of the active record, or nil
func (s *ResearchState) InProgress() *InProgress {
	if s.inProgress == nil {
		return nil
	}
	p := *s.inProgress
	return &p
}

func (s *ResearchState) TotalPointsSpent() int {
	return s.totalPointsSpent
}

// Version is the optimistic concurrency token the repository checks on save
func (s *ResearchState) Version() int {
	return s.version
}

// MarkPersisted advances the version after a successful conditional save
func (s *ResearchState) MarkPersisted() {
	s.version++
}

func (s *ResearchState) UpdatedAt() time.Time {
	return s.updatedAt
}
