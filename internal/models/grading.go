package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GradingComponent is a named, weighted sub-assessment of a subject.
type GradingComponent struct {
	Name       string  `json:"name" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
	// Enabled defaults to true when omitted.
	Enabled *bool `json:"enabled,omitempty"`
}

// IsEnabled reports whether the component contributes to subject totals.
func (c GradingComponent) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ClassConfiguration describes one score-entry session: the class, its subjects and the
// weighting schemes applied to them.
type ClassConfiguration struct {
	ClassName                string                        `json:"class_name" validate:"required"`
	ExamType                 string                        `json:"exam_type" validate:"required"`
	Term                     string                        `json:"term" validate:"required"`
	Subjects                 []string                      `json:"subjects" validate:"required,min=1,dive,required"`
	GradingComponents        []GradingComponent            `json:"grading_components" validate:"dive"`
	SubjectGradingComponents map[string][]GradingComponent `json:"subject_grading_components,omitempty" validate:"dive,dive"`
}

// Value implements driver.Valuer for JSONB persistence.
func (c ClassConfiguration) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB persistence.
func (c *ClassConfiguration) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// ComponentScoreSet maps subject -> component name -> raw score.
type ComponentScoreSet map[string]map[string]float64

// ParentDetails holds the contact of a student's parent or guardian.
type ParentDetails struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
}

// StudentRecord is a student's scores for one result set together with the derived totals.
type StudentRecord struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	AdmissionNumber string             `json:"admission_number"`
	ParentDetails   ParentDetails      `json:"parent_details"`
	ComponentScores ComponentScoreSet  `json:"component_scores"`
	SubjectTotals   map[string]float64 `json:"subject_totals"`
	OverallTotal    float64            `json:"overall_total"`
	Average         float64            `json:"average"`
}

// StudentRecords is the JSONB column type for a result set roster.
type StudentRecords []StudentRecord

// Value implements driver.Valuer.
func (s StudentRecords) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StudentRecords) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// RankedStudent is a StudentRecord annotated with its competition-ranking position.
type RankedStudent struct {
	StudentRecord
	Position int `json:"position"`
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
