// Package workflow contains the pure transition engine: the state catalog,
// the transition-eligibility policy and the comment-template resolver. No
// I/O happens here; repositories feed it data and services call it.
package workflow

import (
	"regexp"
	"sort"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
)

// Category is the explicit semantic role of a state. The catalog owner sets
// it; name matching exists only as a migration fallback for rows seeded
// before the column was introduced.
type Category string

const (
	CategoryNormal       Category = "normal"
	CategoryHolding      Category = "holding"
	CategoryTerminal     Category = "terminal"
	CategoryCancellation Category = "cancellation"
)

// State is one stage in the workflow.
type State struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Order    int      `json:"order"`
	Terminal bool     `json:"terminal"`
	Category Category `json:"category"`
}

// Legacy heuristics from the catalog before categories existed. The seeded
// state names are Spanish ("Pendiente", "Cancelado"), hence the patterns.
var (
	holdingNamePattern      = regexp.MustCompile(`(?i)pendiente`)
	cancellationNamePattern = regexp.MustCompile(`(?i)cancel`)
)

// Classify returns the effective category of a state: the explicit category
// when set, otherwise the legacy name heuristic.
func Classify(s State) Category {
	if s.Category != "" {
		return s.Category
	}
	switch {
	case cancellationNamePattern.MatchString(s.Name):
		return CategoryCancellation
	case s.Terminal:
		return CategoryTerminal
	case holdingNamePattern.MatchString(s.Name):
		return CategoryHolding
	}
	return CategoryNormal
}

// Normalize fills in the effective category so callers downstream never see
// an unclassified state.
func Normalize(s State) State {
	s.Category = Classify(s)
	return s
}

// IsTerminal reports whether the state admits no outgoing transitions.
func (s State) IsTerminal() bool {
	return s.Terminal || Classify(s) == CategoryTerminal
}

// Catalog is the ordered, immutable set of workflow states for one
// evaluation. It is loaded once and never mutated, so it is safe to share
// across concurrent transitions.
type Catalog struct {
	states []State
	byID   map[int64]State
}

// NewCatalog validates and indexes the given states. Order values and ids
// must be unique across the catalog.
func NewCatalog(states []State) (*Catalog, error) {
	sorted := make([]State, len(states))
	copy(sorted, states)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	byID := make(map[int64]State, len(sorted))
	byOrder := make(map[int]int64, len(sorted))
	for i := range sorted {
		sorted[i] = Normalize(sorted[i])
		s := sorted[i]
		if _, ok := byID[s.ID]; ok {
			return nil, apperrors.Newf(apperrors.CodeInternal, "duplicate state id %d in catalog", s.ID)
		}
		if other, ok := byOrder[s.Order]; ok {
			return nil, apperrors.Newf(apperrors.CodeInternal, "states %d and %d share order %d", other, s.ID, s.Order)
		}
		byID[s.ID] = s
		byOrder[s.Order] = s.ID
	}

	return &Catalog{states: sorted, byID: byID}, nil
}

// List returns the states sorted ascending by order.
func (c *Catalog) List() []State {
	out := make([]State, len(c.states))
	copy(out, c.states)
	return out
}

// ByID resolves a state by id.
func (c *Catalog) ByID(id int64) (State, error) {
	s, ok := c.byID[id]
	if !ok {
		return State{}, apperrors.NotFound("state", id)
	}
	return s, nil
}

// Len returns the number of states in the catalog.
func (c *Catalog) Len() int {
	return len(c.states)
}
