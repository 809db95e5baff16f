package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gestor-labs/be-case-tracking/internal/repository"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// Store interfaces kept small so services can be exercised against
// in-memory fakes. The repository package provides the pgx-backed
// implementations.

// CatalogStore reads the shared reference data.
type CatalogStore interface {
	ListStates(ctx context.Context) ([]workflow.State, error)
	ListCommentTemplates(ctx context.Context) ([]workflow.CommentTemplate, error)
}

// CaseStore reads and writes cases.
type CaseStore interface {
	List(ctx context.Context) ([]*repository.Case, error)
	GetByID(ctx context.Context, id int64) (*repository.Case, error)
	GetByCode(ctx context.Context, code string) (*repository.Case, error)
	Create(ctx context.Context, c *repository.Case) error
	Update(ctx context.Context, c *repository.Case) error
	Delete(ctx context.Context, id int64) error
	UpdateStateIf(ctx context.Context, tx pgx.Tx, caseID, expectedStateID, nextStateID int64) error
}

// EventStore appends and reads the append-only event log.
type EventStore interface {
	Append(ctx context.Context, e *repository.Event) error
	AppendTx(ctx context.Context, tx pgx.Tx, e *repository.Event) error
	ListForCase(ctx context.Context, caseID int64) ([]*repository.Event, error)
}

// UserStore lists operators for attribution.
type UserStore interface {
	List(ctx context.Context) ([]*repository.User, error)
}

// TxRunner runs a function inside a store transaction.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// TransitionNotification describes a committed transition for downstream
// consumers.
type TransitionNotification struct {
	EventID     int64
	CaseID      int64
	CaseName    string
	FromStateID int64
	ToStateID   int64
	StateName   string
	ActorID     *int64
	Timestamp   time.Time
}

// Notifier publishes transition notifications. Implementations must never
// fail the transition: publishing is strictly best-effort.
type Notifier interface {
	PublishTransition(ctx context.Context, n TransitionNotification)
}
