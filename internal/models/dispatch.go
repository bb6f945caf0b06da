package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// DispatchMethod is the channel used to deliver results to parents.
type DispatchMethod string

const (
	DispatchEmail    DispatchMethod = "email"
	DispatchWhatsApp DispatchMethod = "whatsapp"
)

// DispatchTarget is a generated deep link for one student.
type DispatchTarget struct {
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name"`
	AdmissionNumber string `json:"admission_number"`
	Recipient       string `json:"recipient"`
	Link            string `json:"link"`
}

// DispatchFailure records why a student could not be dispatched.
type DispatchFailure struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Reason      string `json:"reason"`
}

// DispatchTargets is the JSONB column type for successful dispatches.
type DispatchTargets []DispatchTarget

// Value implements driver.Valuer.
func (d DispatchTargets) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DispatchTargets) Scan(src interface{}) error {
	return scanJSON(src, d)
}

// DispatchFailures is the JSONB column type for failed dispatches.
type DispatchFailures []DispatchFailure

// Value implements driver.Valuer.
func (d DispatchFailures) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DispatchFailures) Scan(src interface{}) error {
	return scanJSON(src, d)
}

// DispatchRecord is the history entry written for every dispatch run.
type DispatchRecord struct {
	ID           string           `db:"id" json:"id"`
	SchoolID     string           `db:"school_id" json:"school_id"`
	ResultSetID  string           `db:"result_set_id" json:"result_set_id"`
	Method       DispatchMethod   `db:"method" json:"method"`
	Message      string           `db:"message" json:"message,omitempty"`
	Successful   DispatchTargets  `db:"successful" json:"successful"`
	Failed       DispatchFailures `db:"failed" json:"failed"`
	DispatchedBy string           `db:"dispatched_by" json:"dispatched_by"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}
