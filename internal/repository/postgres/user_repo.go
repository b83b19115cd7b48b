package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/repository"
)

// userRepository implements repository.UserRepository for PostgreSQL.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrEmailAlreadyUsed, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a live user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, current_token, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a live user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, current_token, created_at, updated_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`

	return r.scanUser(ctx, query, email)
}

func (r *userRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CurrentToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update persists the mutable fields of a live user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrEmailAlreadyUsed, user.Email)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateToken sets or clears the user's current session token.
func (r *userRepository) UpdateToken(ctx context.Context, id int64, token *string) error {
	query := `
		UPDATE users
		SET current_token = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query, token, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update user token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CheckToken reports whether the live user's stored token matches.
func (r *userRepository) CheckToken(ctx context.Context, id int64, token string) (bool, error) {
	query := `
		SELECT COUNT(1)
		FROM users
		WHERE id = $1 AND current_token = $2 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, id, token).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user token: %w", err)
	}

	return count > 0, nil
}

// EmailInUse reports whether a live user other than excludeID holds the email.
func (r *userRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `
		SELECT COUNT(1)
		FROM users
		WHERE email = $1 AND id != $2 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, email, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return count > 0, nil
}

// SoftDelete marks a live user as deleted.
func (r *userRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET deleted_at = $1, updated_at = $1, current_token = NULL
		WHERE id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
