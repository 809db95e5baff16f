package repository

import (
	"context"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/database"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// CatalogRepository reads the shared, read-only reference data: workflow
// states and comment templates.
type CatalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListStates returns all workflow states sorted ascending by order. Rows
// seeded before the category column existed come back with it empty;
// Normalize fills it from the legacy name heuristic.
func (r *CatalogRepository) ListStates(ctx context.Context) ([]workflow.State, error) {
	query := `
		SELECT id, name, sort_order, terminal, COALESCE(category, '')
		FROM workflow_states
		ORDER BY sort_order ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to list states")
	}
	defer rows.Close()

	states := make([]workflow.State, 0)
	for rows.Next() {
		var s workflow.State
		var category string
		if err := rows.Scan(&s.ID, &s.Name, &s.Order, &s.Terminal, &category); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to scan state")
		}
		s.Category = workflow.Category(category)
		states = append(states, workflow.Normalize(s))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to read states")
	}

	return states, nil
}

// ListCommentTemplates returns all comment templates ordered by id.
func (r *CatalogRepository) ListCommentTemplates(ctx context.Context) ([]workflow.CommentTemplate, error) {
	query := `
		SELECT id, state_id, case_type, COALESCE(title, ''), COALESCE(template, ''), required
		FROM comment_templates
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to list comment templates")
	}
	defer rows.Close()

	templates := make([]workflow.CommentTemplate, 0)
	for rows.Next() {
		var t workflow.CommentTemplate
		if err := rows.Scan(&t.ID, &t.StateID, &t.CaseType, &t.Title, &t.Text, &t.Required); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to scan comment template")
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to read comment templates")
	}

	return templates, nil
}
