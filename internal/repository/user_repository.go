package repository

import (
	"context"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/database"
)

// UserRepository lists operators for display-only attribution. There is no
// authentication behind this; actor ids on events are best-effort labels.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to list users")
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "failed to read users")
	}

	return users, nil
}
