package dto

import "time"

// StudentSummary lists a student known to the school across all saved result sets.
type StudentSummary struct {
	AdmissionNumber string `json:"admission_number"`
	Name            string `json:"name"`
	LatestClass     string `json:"latest_class"`
	RecordCount     int    `json:"record_count"`
}

// TermRecord is a student's standing in one saved result set.
type TermRecord struct {
	ResultSetID   string             `json:"result_set_id"`
	ClassName     string             `json:"class_name"`
	Term          string             `json:"term"`
	ExamType      string             `json:"exam_type"`
	AcademicYear  int                `json:"academic_year"`
	SubjectTotals map[string]float64 `json:"subject_totals"`
	OverallTotal  float64            `json:"overall_total"`
	Average       float64            `json:"average"`
	Grade         string             `json:"grade"`
	Position      int                `json:"position"`
	ClassSize     int                `json:"class_size"`
	RecordedAt    time.Time          `json:"recorded_at"`
}

// StudentHistory is a student's academic record over time.
type StudentHistory struct {
	AdmissionNumber    string       `json:"admission_number"`
	Name               string       `json:"name"`
	Records            []TermRecord `json:"records"`
	CumulativeAverage  float64      `json:"cumulative_average"`
	PromotionThreshold float64      `json:"promotion_threshold"`
	Promoted           bool         `json:"promoted"`
}
