package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/database"
)

// EventRepository appends and reads immutable case events. The table has a
// delete-prevention trigger so append is the only mutation exposed.
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Timestamps are assigned at insert and never move backwards within a case,
// even under clock skew between app servers.
const appendEventQuery = `
	INSERT INTO case_events (case_id, state_id, state_name, comment, actor_id, occurred_at)
	VALUES ($1, $2, $3, $4, $5,
	        GREATEST(now(), COALESCE((SELECT MAX(occurred_at) FROM case_events WHERE case_id = $1), now())))
	RETURNING id, occurred_at
`

// Append inserts one event outside any surrounding transaction.
func (r *EventRepository) Append(ctx context.Context, e *Event) error {
	err := r.db.QueryRow(ctx, appendEventQuery,
		e.CaseID,
		e.StateID,
		e.StateName,
		e.Comment,
		e.ActorID,
	).Scan(&e.ID, &e.Timestamp)

	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "failed to append event")
	}
	return nil
}

// AppendTx inserts one event inside the caller's transaction, so the append
// and the case-state update commit or roll back together.
func (r *EventRepository) AppendTx(ctx context.Context, tx pgx.Tx, e *Event) error {
	err := tx.QueryRow(ctx, appendEventQuery,
		e.CaseID,
		e.StateID,
		e.StateName,
		e.Comment,
		e.ActorID,
	).Scan(&e.ID, &e.Timestamp)

	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "failed to append event")
	}
	return nil
}

// ListForCase returns the full history for a case, oldest first, with the
// actor's display name joined in for the UI.
func (r *EventRepository) ListForCase(ctx context.Context, caseID int64) ([]*Event, error) {
	query := `
		SELECT e.id, e.case_id, e.state_id, e.state_name, e.comment, e.actor_id, u.name, e.occurred_at
		FROM case_events e
		LEFT JOIN users u ON u.id = e.actor_id
		WHERE e.case_id = $1
		ORDER BY e.occurred_at ASC, e.id ASC
	`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to list events")
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(
			&e.ID,
			&e.CaseID,
			&e.StateID,
			&e.StateName,
			&e.Comment,
			&e.ActorID,
			&e.ActorName,
			&e.Timestamp,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to scan event")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to read events")
	}

	return events, nil
}
