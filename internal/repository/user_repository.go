package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-magic-api/internal/models"
)

const userColumns = `id, school_id, email, password_hash, full_name, role, assigned_classes, active, created_at, updated_at`

const insertUser = `INSERT INTO users (id, school_id, email, password_hash, full_name, role, assigned_classes, active, created_at, updated_at) VALUES (:id, :school_id, :email, :password_hash, :full_name, :role, :assigned_classes, :active, :created_at, :updated_at)`

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user of a school by identifier.
func (r *UserRepository) FindByID(ctx context.Context, schoolID, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE school_id = $1 AND id = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ListBySchool returns every user of a school ordered by name.
func (r *UserRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE school_id = $1 ORDER BY full_name ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, schoolID); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.AssignedClasses == nil {
		user.AssignedClasses = []string{}
	}

	if _, err := r.db.NamedExecContext(ctx, insertUser, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update updates mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	if user.AssignedClasses == nil {
		user.AssignedClasses = []string{}
	}
	const query = `UPDATE users SET full_name = :full_name, role = :role, assigned_classes = :assigned_classes, active = :active, password_hash = :password_hash, updated_at = :updated_at WHERE id = :id AND school_id = :school_id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user from a school.
func (r *UserRepository) Delete(ctx context.Context, schoolID, id string) error {
	const query = `DELETE FROM users WHERE school_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, schoolID, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
