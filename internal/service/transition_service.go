package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/repository"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// TransitionService orchestrates a single case transition: validate against
// the policy, append the event and move the case state atomically.
type TransitionService struct {
	db       TxRunner
	cases    CaseStore
	events   EventStore
	catalog  CatalogStore
	notifier Notifier
	log      *logger.Logger
}

// NewTransitionService creates a new TransitionService. notifier may be nil
// when no broker is configured.
func NewTransitionService(
	db TxRunner,
	cases CaseStore,
	events EventStore,
	catalog CatalogStore,
	notifier Notifier,
	log *logger.Logger,
) *TransitionService {
	return &TransitionService{
		db:       db,
		cases:    cases,
		events:   events,
		catalog:  catalog,
		notifier: notifier,
		log:      log,
	}
}

// CreateEventRequest is a request to append an event to a case. With
// ApplyTransition set the event moves the case to StateID after policy
// validation; without it the event is a plain note recorded against the
// case's current state.
type CreateEventRequest struct {
	CaseID          int64
	StateID         int64
	Comment         *string
	ActorID         *int64
	ApplyTransition bool
}

// CreateEvent applies a transition (or appends a note) and returns the
// stored event. Exactly one event and at most one state change happen, or
// nothing at all.
func (s *TransitionService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*repository.Event, error) {
	c, err := s.cases.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	current, err := c.CurrentState(catalog)
	if err != nil {
		return nil, err
	}

	if !req.ApplyTransition {
		return s.appendNote(ctx, c, current, req)
	}

	target, err := catalog.ByID(req.StateID)
	if err != nil {
		return nil, err
	}

	if !workflow.CanTransition(current, target, catalog.List()) {
		if current.IsTerminal() {
			return nil, apperrors.Newf(apperrors.CodeInvalidTransition,
				"state %q is terminal; no transitions are allowed", current.Name)
		}
		return nil, apperrors.Newf(apperrors.CodeInvalidTransition,
			"transition from %q to %q is not allowed", current.Name, target.Name)
	}

	templates, err := s.catalog.ListCommentTemplates(ctx)
	if err != nil {
		return nil, err
	}
	suggestion := workflow.ResolveTemplate(templates, target.ID, caseType(c))
	if suggestion.Required && isBlank(req.Comment) {
		return nil, apperrors.New(apperrors.CodeValidation,
			"a comment is required for this transition")
	}

	event := &repository.Event{
		CaseID:    c.ID,
		StateID:   target.ID,
		StateName: target.Name,
		Comment:   req.Comment,
		ActorID:   req.ActorID,
	}

	err = s.db.InTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.events.AppendTx(ctx, tx, event); err != nil {
			return err
		}
		return s.cases.UpdateStateIf(ctx, tx, c.ID, current.ID, target.ID)
	})
	if err != nil {
		return nil, err
	}

	c.ApplyEvent(event)

	s.log.Info().
		Int64("case_id", c.ID).
		Int64("event_id", event.ID).
		Str("from_state", current.Name).
		Str("to_state", target.Name).
		Msg("Transition applied")

	if s.notifier != nil {
		s.notifier.PublishTransition(ctx, TransitionNotification{
			EventID:     event.ID,
			CaseID:      c.ID,
			CaseName:    c.Name,
			FromStateID: current.ID,
			ToStateID:   target.ID,
			StateName:   target.Name,
			ActorID:     event.ActorID,
			Timestamp:   event.Timestamp,
		})
	}

	return event, nil
}

// appendNote records a comment-only event. The event snapshots the current
// state so the history invariant (last event state == current state) holds.
func (s *TransitionService) appendNote(ctx context.Context, c *repository.Case, current workflow.State, req *CreateEventRequest) (*repository.Event, error) {
	event := &repository.Event{
		CaseID:    c.ID,
		StateID:   current.ID,
		StateName: current.Name,
		Comment:   req.Comment,
		ActorID:   req.ActorID,
	}

	if err := s.events.Append(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("case_id", c.ID).
		Int64("event_id", event.ID).
		Str("state", current.Name).
		Msg("Note event appended")

	return event, nil
}

// EligibleTargets returns the states the case may transition to right now.
func (s *TransitionService) EligibleTargets(ctx context.Context, caseID int64) ([]workflow.State, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	current, err := c.CurrentState(catalog)
	if err != nil {
		return nil, err
	}

	return workflow.EligibleTargets(current, catalog.List()), nil
}

func (s *TransitionService) loadCatalog(ctx context.Context) (*workflow.Catalog, error) {
	states, err := s.catalog.ListStates(ctx)
	if err != nil {
		return nil, err
	}
	return workflow.NewCatalog(states)
}

func caseType(c *repository.Case) string {
	if c.CaseType == nil {
		return ""
	}
	return *c.CaseType
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
