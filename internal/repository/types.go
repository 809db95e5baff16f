package repository

import (
	"time"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// ── Domain types for case tracking ───────────────────────────────────────────

// Case is a tracked work item moving through the workflow.
type Case struct {
	ID             int64
	Name           string
	Description    *string
	CaseType       *string // nil = untyped; drives comment-template matching
	CurrentStateID int64
	ResponsibleID  *int64
	CreatedAt      time.Time
	Events         []*Event
}

// Event is one immutable entry in a case's audit trail. StateName is a
// snapshot of the state's name at event time so history survives catalog
// renames.
type Event struct {
	ID        int64
	CaseID    int64
	StateID   int64
	StateName string
	Comment   *string
	ActorID   *int64
	ActorName *string // enrichment join, never persisted
	Timestamp time.Time
}

// User is an operator referenced for display-only attribution.
type User struct {
	ID    int64
	Name  string
	Email *string
}

// CurrentState resolves the case's current state against the catalog. A
// miss means the store is corrupt: the id came out of the same database the
// catalog did.
func (c *Case) CurrentState(catalog *workflow.Catalog) (workflow.State, error) {
	s, err := catalog.ByID(c.CurrentStateID)
	if err != nil {
		return workflow.State{}, apperrors.Newf(apperrors.CodeInternal,
			"case %d references unknown state %d", c.ID, c.CurrentStateID)
	}
	return s, nil
}

// ApplyEvent records the event in memory: the current state becomes the
// event's state and the event joins the history. Only the transition
// service calls this, after the store has committed.
func (c *Case) ApplyEvent(e *Event) {
	c.CurrentStateID = e.StateID
	c.Events = append(c.Events, e)
}
