package service

import (
	"context"

	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// CatalogService serves the workflow reference data to the UI.
type CatalogService struct {
	catalog CatalogStore
	log     *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog CatalogStore, log *logger.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, log: log}
}

// StateWithNext is a catalog state plus the ids the policy allows from it,
// so the UI never re-derives the progression rule.
type StateWithNext struct {
	workflow.State
	AllowedNext []int64 `json:"allowedNext"`
}

// States returns the catalog sorted by order, each state annotated with its
// policy-eligible targets.
func (s *CatalogService) States(ctx context.Context) ([]StateWithNext, error) {
	states, err := s.catalog.ListStates(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := workflow.NewCatalog(states)
	if err != nil {
		return nil, err
	}

	list := catalog.List()
	out := make([]StateWithNext, len(list))
	for i, st := range list {
		out[i] = StateWithNext{
			State:       st,
			AllowedNext: workflow.AllowedNextIDs(st, list),
		}
	}
	return out, nil
}

// Templates returns all comment templates.
func (s *CatalogService) Templates(ctx context.Context) ([]workflow.CommentTemplate, error) {
	return s.catalog.ListCommentTemplates(ctx)
}
