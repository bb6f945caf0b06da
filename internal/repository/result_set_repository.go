package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-magic-api/internal/models"
)

const resultSetColumns = `id, school_id, class_name, term, academic_year, class_data, students, created_by, created_at`

// ResultSetRepository persists saved class results.
type ResultSetRepository struct {
	db *sqlx.DB
}

// NewResultSetRepository constructs a ResultSetRepository.
func NewResultSetRepository(db *sqlx.DB) *ResultSetRepository {
	return &ResultSetRepository{db: db}
}

// List returns result sets matching the filter, newest first, with the total count.
func (r *ResultSetRepository) List(ctx context.Context, filter models.ResultSetFilter) ([]models.ResultSet, int, error) {
	conditions := []string{"school_id = $1"}
	args := []interface{}{filter.SchoolID}
	if filter.ClassName != "" {
		args = append(args, filter.ClassName)
		conditions = append(conditions, fmt.Sprintf("class_name = $%d", len(args)))
	}
	if filter.Term != "" {
		args = append(args, filter.Term)
		conditions = append(conditions, fmt.Sprintf("term = $%d", len(args)))
	}
	where := "FROM result_sets WHERE " + strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", resultSetColumns, where, pageSize, offset)
	var sets []models.ResultSet
	if err := r.db.SelectContext(ctx, &sets, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list result sets: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count result sets: %w", err)
	}
	return sets, total, nil
}

// ListAll returns every result set of a school in chronological order.
func (r *ResultSetRepository) ListAll(ctx context.Context, schoolID string) ([]models.ResultSet, error) {
	query := `SELECT ` + resultSetColumns + ` FROM result_sets WHERE school_id = $1 ORDER BY created_at ASC`
	var sets []models.ResultSet
	if err := r.db.SelectContext(ctx, &sets, query, schoolID); err != nil {
		return nil, fmt.Errorf("list all result sets: %w", err)
	}
	return sets, nil
}

// FindByID returns a result set of a school.
func (r *ResultSetRepository) FindByID(ctx context.Context, schoolID, id string) (*models.ResultSet, error) {
	query := `SELECT ` + resultSetColumns + ` FROM result_sets WHERE school_id = $1 AND id = $2 LIMIT 1`
	var set models.ResultSet
	if err := r.db.GetContext(ctx, &set, query, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find result set: %w", err)
	}
	return &set, nil
}

// Create inserts a result set.
func (r *ResultSetRepository) Create(ctx context.Context, set *models.ResultSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO result_sets (id, school_id, class_name, term, academic_year, class_data, students, created_by, created_at) VALUES (:id, :school_id, :class_name, :term, :academic_year, :class_data, :students, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, set); err != nil {
		return fmt.Errorf("create result set: %w", err)
	}
	return nil
}

// Delete removes a result set and its dispatch history.
func (r *ResultSetRepository) Delete(ctx context.Context, schoolID, id string) error {
	const query = `DELETE FROM result_sets WHERE school_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, schoolID, id)
	if err != nil {
		return fmt.Errorf("delete result set: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
