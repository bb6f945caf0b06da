package dto

import (
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/ranking"
)

// ResultRankings is the ranking view of one result set: the class order, the per-subject
// orders and the summaries shown above them.
type ResultRankings struct {
	ResultSetID      string                            `json:"result_set_id"`
	ClassName        string                            `json:"class_name"`
	Term             string                            `json:"term"`
	ExamType         string                            `json:"exam_type"`
	AcademicYear     int                               `json:"academic_year"`
	Subjects         []string                          `json:"subjects"`
	Class            []models.RankedStudent            `json:"class"`
	SubjectRankings  map[string][]models.RankedStudent `json:"subject_rankings"`
	Summary          ranking.ClassSummary              `json:"summary"`
	SubjectSummaries []ranking.SubjectSummary          `json:"subject_summaries"`
}

// SubjectRanking is one subject's order within a result set.
type SubjectRanking struct {
	ResultSetID string                 `json:"result_set_id"`
	Subject     string                 `json:"subject"`
	Students    []models.RankedStudent `json:"students"`
	Summary     ranking.SubjectSummary `json:"summary"`
}

// SchoolHeader is printed at the top of result sheets.
type SchoolHeader struct {
	Name         string `json:"name"`
	HeadPosition string `json:"head_position"`
	Logo         string `json:"logo,omitempty"`
}

// ComponentResult is one weighted component of a subject on a result sheet.
type ComponentResult struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Score      float64 `json:"score"`
	Weighted   float64 `json:"weighted"`
}

// SubjectResult is one subject row on a result sheet.
type SubjectResult struct {
	Subject    string            `json:"subject"`
	Components []ComponentResult `json:"components"`
	Total      float64           `json:"total"`
	Grade      string            `json:"grade"`
	Position   int               `json:"position"`
}

// StudentResultSheet is the printable result of one student.
type StudentResultSheet struct {
	School           SchoolHeader         `json:"school"`
	ResultSetID      string               `json:"result_set_id"`
	ClassName        string               `json:"class_name"`
	Term             string               `json:"term"`
	ExamType         string               `json:"exam_type"`
	AcademicYear     int                  `json:"academic_year"`
	StudentID        string               `json:"student_id"`
	StudentName      string               `json:"student_name"`
	AdmissionNumber  string               `json:"admission_number"`
	Parent           models.ParentDetails `json:"parent"`
	Subjects         []SubjectResult      `json:"subjects"`
	OverallTotal     float64              `json:"overall_total"`
	Average          float64              `json:"average"`
	Grade            string               `json:"grade"`
	Position         int                  `json:"position"`
	ClassSize        int                  `json:"class_size"`
	PerformanceLevel string               `json:"performance_level"`
}
