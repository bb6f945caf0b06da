package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-magic-api/internal/models"
)

// DispatchRepository stores dispatch history.
type DispatchRepository struct {
	db *sqlx.DB
}

// NewDispatchRepository constructs a DispatchRepository.
func NewDispatchRepository(db *sqlx.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

// Create inserts a dispatch record.
func (r *DispatchRepository) Create(ctx context.Context, record *models.DispatchRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO dispatch_records (id, school_id, result_set_id, method, message, successful, failed, dispatched_by, created_at) VALUES (:id, :school_id, :result_set_id, :method, :message, :successful, :failed, :dispatched_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create dispatch record: %w", err)
	}
	return nil
}

// ListBySchool returns the most recent dispatch records of a school.
func (r *DispatchRepository) ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.DispatchRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, school_id, result_set_id, method, message, successful, failed, dispatched_by, created_at FROM dispatch_records WHERE school_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var records []models.DispatchRecord
	if err := r.db.SelectContext(ctx, &records, query, schoolID); err != nil {
		return nil, fmt.Errorf("list dispatch records: %w", err)
	}
	return records, nil
}
