// Package user persists operator accounts. Accounts are created by the
// migrate command and are immutable afterwards.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rollcall/internal/apperr"
	"rollcall/internal/store"
)

// Roles recognized by the service.
const (
	RoleAdmin      = "admin"
	RoleDepartment = "department"
)

// User is an operator account. Department is set only for department-role users.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Department   string
}

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByUsername returns the user with the given username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, department
		FROM users WHERE username = $1
	`, username)
	var u User
	var dept sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &dept); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.ErrNotFound
		}
		return User{}, err
	}
	u.Department = dept.String
	return u, nil
}

// Create inserts a user. Duplicate usernames surface as a constraint violation.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	if u.Username == "" {
		return User{}, fmt.Errorf("%w: username required", apperr.ErrValidation)
	}
	if u.Role == RoleDepartment && u.Department == "" {
		return User{}, fmt.Errorf("%w: department required for department role", apperr.ErrValidation)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	var dept any
	if u.Department != "" {
		dept = u.Department
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, department)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.PasswordHash, u.Role, dept)
	if err != nil {
		return User{}, store.Translate(err)
	}
	return u, nil
}
