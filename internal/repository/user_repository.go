package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup/eventup/internal/model"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at`

// Insert persists a new user. A duplicate email surfaces as model.ErrConflict.
func (r *UserRepository) Insert(ctx context.Context, u model.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", model.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail returns the user with the given email, or nil when none exists.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// GetByID returns a single user or model.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// ListParticipants returns all PARTICIPANT users ordered by name, for the
// admin reservation form.
func (r *UserRepository) ListParticipants(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role = $1 ORDER BY last_name ASC, first_name ASC`,
		model.RoleParticipant)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName,
			&u.LastName, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
