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

const schoolColumns = `id, name, head_position, logo, active, created_at, updated_at`

// SchoolRepository persists schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// FindByID returns a school by identifier.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE id = $1 LIMIT 1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find school by id: %w", err)
	}
	return &school, nil
}

// CreateWithAdmin inserts a school and its first administrator in one transaction.
func (r *SchoolRepository) CreateWithAdmin(ctx context.Context, school *models.School, admin *models.User) (err error) {
	now := time.Now().UTC()
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	if school.HeadPosition == "" {
		school.HeadPosition = models.DefaultHeadPosition
	}
	school.CreatedAt, school.UpdatedAt = now, now

	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.SchoolID = school.ID
	admin.CreatedAt, admin.UpdatedAt = now, now
	if admin.AssignedClasses == nil {
		admin.AssignedClasses = []string{}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin school tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertSchool = `INSERT INTO schools (id, name, head_position, logo, active, created_at, updated_at) VALUES (:id, :name, :head_position, :logo, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertSchool, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	if _, err = tx.NamedExecContext(ctx, insertUser, admin); err != nil {
		return fmt.Errorf("create school admin: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit school: %w", err)
	}
	return nil
}

// Update stores mutable school fields.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schools SET name = :name, head_position = :head_position, logo = :logo, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// Delete removes a school. Users, templates, result sets and dispatch history cascade.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schools WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
