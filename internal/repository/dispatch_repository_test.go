package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-magic-api/internal/models"
)

func TestCreateDispatchRecord(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDispatchRepository(db)

	mock.ExpectExec("INSERT INTO dispatch_records").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.DispatchRecord{
		SchoolID:    "school-1",
		ResultSetID: "rs-1",
		Method:      models.DispatchWhatsApp,
		Successful:  models.DispatchTargets{{StudentID: "s1", Link: "https://wa.me/2348012345678"}},
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDispatchRecordsClampsLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDispatchRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_id", "result_set_id", "method", "message", "successful", "failed", "dispatched_by", "created_at"}).
		AddRow("d1", "school-1", "rs-1", "email", "", []byte(`[{"student_id":"s1"}]`), []byte(`[{"student_id":"s2","reason":"No email contact available"}]`), "user-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM dispatch_records WHERE school_id = $1 ORDER BY created_at DESC LIMIT 50")).
		WithArgs("school-1").
		WillReturnRows(rows)

	records, err := repo.ListBySchool(context.Background(), "school-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Successful, 1)
	assert.Equal(t, "No email contact available", records[0].Failed[0].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
