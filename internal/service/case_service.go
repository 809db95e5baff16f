package service

import (
	"context"
	"strings"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/repository"
)

// CaseService handles the case admin CRUD around the transition engine.
type CaseService struct {
	cases   CaseStore
	catalog CatalogStore
	log     *logger.Logger
}

// NewCaseService creates a new case service.
func NewCaseService(cases CaseStore, catalog CatalogStore, log *logger.Logger) *CaseService {
	return &CaseService{cases: cases, catalog: catalog, log: log}
}

// CreateCaseRequest is a request to open a new case.
type CreateCaseRequest struct {
	Name          string
	Description   *string
	CaseType      *string
	StateID       int64 // 0 = start at the first state in the catalog
	ResponsibleID *int64
}

// UpdateCaseRequest rewrites a case's descriptive fields. The current state
// is deliberately absent: only a transition moves it.
type UpdateCaseRequest struct {
	Name          string
	Description   *string
	CaseType      *string
	ResponsibleID *int64
}

// ListCases returns all cases without histories.
func (s *CaseService) ListCases(ctx context.Context) ([]*repository.Case, error) {
	return s.cases.List(ctx)
}

// GetCase resolves a case by numeric id or name fragment, with its full
// event history.
func (s *CaseService) GetCase(ctx context.Context, code string) (*repository.Case, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.InvalidInput("code", "case id or name is required")
	}
	return s.cases.GetByCode(ctx, code)
}

// CreateCase opens a new case at the requested (or first) workflow state.
func (s *CaseService) CreateCase(ctx context.Context, req *CreateCaseRequest) (*repository.Case, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.InvalidInput("name", "name is required")
	}

	states, err := s.catalog.ListStates(ctx)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, apperrors.New(apperrors.CodeInternal, "state catalog is empty")
	}

	stateID := req.StateID
	if stateID == 0 {
		stateID = states[0].ID
	} else {
		found := false
		for _, st := range states {
			if st.ID == stateID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperrors.NotFound("state", stateID)
		}
	}

	c := &repository.Case{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		CaseType:       req.CaseType,
		CurrentStateID: stateID,
		ResponsibleID:  req.ResponsibleID,
		Events:         make([]*repository.Event, 0),
	}

	if err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("case_id", c.ID).
		Str("name", c.Name).
		Int64("state_id", c.CurrentStateID).
		Msg("Case created")

	return c, nil
}

// UpdateCase rewrites descriptive fields and returns the updated case.
func (s *CaseService) UpdateCase(ctx context.Context, id int64, req *UpdateCaseRequest) (*repository.Case, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.InvalidInput("name", "name is required")
	}

	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	c.CaseType = req.CaseType
	c.ResponsibleID = req.ResponsibleID

	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("case_id", c.ID).
		Str("name", c.Name).
		Msg("Case updated")

	return c, nil
}

// DeleteCase removes a case and its history.
func (s *CaseService) DeleteCase(ctx context.Context, id int64) error {
	if err := s.cases.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().
		Int64("case_id", id).
		Msg("Case deleted")

	return nil
}
