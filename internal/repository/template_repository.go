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

const templateColumns = `id, school_id, name, description, class_data, created_at, updated_at`

// TemplateRepository persists saved class configurations.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs a TemplateRepository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// List returns the templates of a school, newest first.
func (r *TemplateRepository) List(ctx context.Context, schoolID string) ([]models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE school_id = $1 ORDER BY created_at DESC`
	var templates []models.Template
	if err := r.db.SelectContext(ctx, &templates, query, schoolID); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// FindByID returns a template of a school.
func (r *TemplateRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE school_id = $1 AND id = $2 LIMIT 1`
	var tpl models.Template
	if err := r.db.GetContext(ctx, &tpl, query, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return &tpl, nil
}

// Create inserts a template.
func (r *TemplateRepository) Create(ctx context.Context, tpl *models.Template) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tpl.CreatedAt, tpl.UpdatedAt = now, now
	const query = `INSERT INTO templates (id, school_id, name, description, class_data, created_at, updated_at) VALUES (:id, :school_id, :name, :description, :class_data, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tpl); err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// Update stores a template's name, description and configuration.
func (r *TemplateRepository) Update(ctx context.Context, tpl *models.Template) error {
	tpl.UpdatedAt = time.Now().UTC()
	const query = `UPDATE templates SET name = :name, description = :description, class_data = :class_data, updated_at = :updated_at WHERE id = :id AND school_id = :school_id`
	if _, err := r.db.NamedExecContext(ctx, query, tpl); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, schoolID, id string) error {
	const query = `DELETE FROM templates WHERE school_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, schoolID, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
