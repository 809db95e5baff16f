package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/database"
)

// CaseRepository handles case data operations.
type CaseRepository struct {
	db     *database.DB
	events *EventRepository
}

// NewCaseRepository creates a new case repository.
func NewCaseRepository(db *database.DB, events *EventRepository) *CaseRepository {
	return &CaseRepository{db: db, events: events}
}

const caseColumns = `id, name, description, case_type, current_state_id, responsible_id, created_at`

// Create inserts a new case with no events.
func (r *CaseRepository) Create(ctx context.Context, c *Case) error {
	query := `
		INSERT INTO cases (name, description, case_type, current_state_id, responsible_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		c.Name,
		c.Description,
		c.CaseType,
		c.CurrentStateID,
		c.ResponsibleID,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "failed to create case")
	}
	return nil
}

// GetByID retrieves a case with its full event history.
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByCode resolves a case by numeric id, or by name fragment when the
// code is not numeric. Operators paste either into the search box.
func (r *CaseRepository) GetByCode(ctx context.Context, code string) (*Case, error) {
	if id, err := strconv.ParseInt(code, 10, 64); err == nil {
		return r.GetByID(ctx, id)
	}
	query := `SELECT ` + caseColumns + ` FROM cases WHERE name ILIKE '%' || $1 || '%' ORDER BY id ASC LIMIT 1`
	return r.getOne(ctx, query, code)
}

func (r *CaseRepository) getOne(ctx context.Context, query string, arg any) (*Case, error) {
	c := &Case{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.CaseType,
		&c.CurrentStateID,
		&c.ResponsibleID,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("case", arg)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to get case")
	}

	events, err := r.events.ListForCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Events = events

	return c, nil
}

// List retrieves all cases without event histories.
func (r *CaseRepository) List(ctx context.Context) ([]*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to list cases")
	}
	defer rows.Close()

	cases := make([]*Case, 0)
	for rows.Next() {
		c := &Case{}
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.CaseType,
			&c.CurrentStateID,
			&c.ResponsibleID,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to scan case")
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to read cases")
	}

	return cases, nil
}

// Update rewrites the case's descriptive fields. The current state is never
// touched here; only UpdateStateIf moves it, under the concurrency check.
func (r *CaseRepository) Update(ctx context.Context, c *Case) error {
	query := `
		UPDATE cases
		SET name = $2,
		    description = $3,
		    case_type = $4,
		    responsible_id = $5
		WHERE id = $1
		RETURNING id
	`

	var returnedID int64
	err := r.db.QueryRow(ctx, query,
		c.ID,
		c.Name,
		c.Description,
		c.CaseType,
		c.ResponsibleID,
	).Scan(&returnedID)

	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("case", c.ID)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "failed to update case")
	}
	return nil
}

// Delete removes a case and, via cascade, its events. The engine itself
// never calls this for terminal cases; it exists for the admin CRUD only.
func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "failed to delete case")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("case", id)
	}
	return nil
}

// UpdateStateIf moves the case to nextStateID only if it is still in
// expectedStateID. Zero rows updated means either the case vanished or a
// concurrent transition won the race; the two are told apart so the caller
// can report Conflict versus NotFound.
func (r *CaseRepository) UpdateStateIf(ctx context.Context, tx pgx.Tx, caseID, expectedStateID, nextStateID int64) error {
	query := `
		UPDATE cases
		SET current_state_id = $3
		WHERE id = $1 AND current_state_id = $2
		RETURNING id
	`

	var returnedID int64
	err := tx.QueryRow(ctx, query, caseID, expectedStateID, nextStateID).Scan(&returnedID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if probeErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1)`, caseID).Scan(&exists); probeErr != nil {
			return apperrors.Wrap(probeErr, apperrors.CodePersistence, "failed to check case existence")
		}
		if !exists {
			return apperrors.NotFound("case", caseID)
		}
		return apperrors.Newf(apperrors.CodeConflict,
			"case %d was modified concurrently; reload and retry", caseID)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "failed to update case state")
	}
	return nil
}
