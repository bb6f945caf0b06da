package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/dto"
	"github.com/noah-isme/result-magic-api/internal/grading"
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/pkg/export"
)

type resultViews interface {
	Rankings(ctx context.Context, actor *models.JWTClaims, id string) (*dto.ResultRankings, error)
	StudentResult(ctx context.Context, actor *models.JWTClaims, id, studentID string) (*dto.StudentResultSheet, error)
}

type datasetRenderer interface {
	Render(format export.Format, data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered document ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders ranking views and result sheets into printable documents.
type ExportService struct {
	results  resultViews
	renderer datasetRenderer
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(results resultViews, renderer datasetRenderer, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewRenderer()
	}
	return &ExportService{results: results, renderer: renderer, metrics: metrics, logger: logger}
}

// ClassSummary renders the class ranking of a result set.
func (s *ExportService) ClassSummary(ctx context.Context, actor *models.JWTClaims, id string, format export.Format) (*ExportFile, error) {
	view, err := s.results.Rankings(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.render("class_summary", format, fmt.Sprintf("%s_%s_results", view.ClassName, view.Term), ClassSummaryDataset(view))
}

// StudentSheet renders the result sheet of one student.
func (s *ExportService) StudentSheet(ctx context.Context, actor *models.JWTClaims, id, studentID string, format export.Format) (*ExportFile, error) {
	sheet, err := s.results.StudentResult(ctx, actor, id, studentID)
	if err != nil {
		return nil, err
	}
	return s.render("student_sheet", format, fmt.Sprintf("%s_%s_%s", sheet.AdmissionNumber, sheet.ClassName, sheet.Term), StudentSheetDataset(sheet))
}

func (s *ExportService) render(kind string, format export.Format, base string, data export.Dataset) (*ExportFile, error) {
	body, err := s.renderer.Render(format, data)
	if err != nil {
		s.logger.Error("render export failed", zap.String("kind", kind), zap.String("format", string(format)), zap.Error(err))
		return nil, err
	}
	s.metrics.RecordExport(kind, string(format))
	return &ExportFile{Filename: format.Filename(base), ContentType: format.ContentType(), Data: body}, nil
}

// ClassSummaryDataset lays out a class ranking as one row per student.
func ClassSummaryDataset(view *dto.ResultRankings) export.Dataset {
	headers := []string{"Position", "Admission No", "Name"}
	headers = append(headers, view.Subjects...)
	headers = append(headers, "Total", "Average", "Grade")
	numeric := append([]string{"Position"}, view.Subjects...)
	numeric = append(numeric, "Total", "Average")

	rows := make([]map[string]string, 0, len(view.Class))
	for _, student := range view.Class {
		row := map[string]string{
			"Position":     strconv.Itoa(student.Position),
			"Admission No": student.AdmissionNumber,
			"Name":         student.Name,
			"Total":        formatScore(student.OverallTotal),
			"Average":      formatScore(student.Average),
			"Grade":        grading.GradeOf(student.Average),
		}
		for _, subject := range view.Subjects {
			row[subject] = formatScore(student.SubjectTotals[subject])
		}
		rows = append(rows, row)
	}

	summary := view.Summary
	return export.Dataset{
		Title: fmt.Sprintf("%s %s Results", view.ClassName, view.Term),
		Meta: []export.Field{
			{Label: "Class", Value: view.ClassName},
			{Label: "Term", Value: view.Term},
			{Label: "Exam", Value: view.ExamType},
			{Label: "Academic Year", Value: strconv.Itoa(view.AcademicYear)},
		},
		Headers: headers,
		Numeric: numeric,
		Rows:    rows,
		Summary: []export.Field{
			{Label: "Students", Value: strconv.Itoa(summary.StudentCount)},
			{Label: "Class Average", Value: formatScore(summary.ClassAverage)},
			{Label: "Highest Average", Value: formatScore(summary.HighestAverage)},
			{Label: "Lowest Average", Value: formatScore(summary.LowestAverage)},
			{Label: "Passed", Value: fmt.Sprintf("%d of %d (%s%%)", summary.PassCount, summary.StudentCount, formatScore(summary.PassRate))},
		},
	}
}

// StudentSheetDataset lays out a result sheet as one row per subject.
func StudentSheetDataset(sheet *dto.StudentResultSheet) export.Dataset {
	headers := []string{"Subject", "Breakdown", "Total", "Grade", "Position"}
	rows := make([]map[string]string, 0, len(sheet.Subjects))
	for _, subject := range sheet.Subjects {
		parts := make([]string, 0, len(subject.Components))
		for _, c := range subject.Components {
			parts = append(parts, fmt.Sprintf("%s %s/%s", c.Name, formatScore(c.Weighted), formatScore(c.Percentage)))
		}
		rows = append(rows, map[string]string{
			"Subject":   subject.Subject,
			"Breakdown": strings.Join(parts, ", "),
			"Total":     formatScore(subject.Total),
			"Grade":     subject.Grade,
			"Position":  strconv.Itoa(subject.Position),
		})
	}

	head := sheet.School.HeadPosition
	if head == "" {
		head = models.DefaultHeadPosition
	}
	title := "Student Result Sheet"
	if sheet.School.Name != "" {
		title = sheet.School.Name
	}
	return export.Dataset{
		Title: title,
		Meta: []export.Field{
			{Label: "Student", Value: sheet.StudentName},
			{Label: "Admission No", Value: sheet.AdmissionNumber},
			{Label: "Class", Value: sheet.ClassName},
			{Label: "Term", Value: fmt.Sprintf("%s (%s)", sheet.Term, sheet.ExamType)},
			{Label: "Academic Year", Value: strconv.Itoa(sheet.AcademicYear)},
			{Label: "Parent", Value: sheet.Parent.FullName},
		},
		Headers: headers,
		Numeric: []string{"Total", "Position"},
		Rows:    rows,
		Summary: []export.Field{
			{Label: "Overall Total", Value: formatScore(sheet.OverallTotal)},
			{Label: "Average", Value: formatScore(sheet.Average) + "%"},
			{Label: "Grade", Value: sheet.Grade},
			{Label: "Position", Value: fmt.Sprintf("%d of %d", sheet.Position, sheet.ClassSize)},
			{Label: "Performance", Value: sheet.PerformanceLevel},
			{Label: head + "'s Signature", Value: ""},
		},
	}
}

// formatScore prints a score without trailing zeros, e.g. 80 and 82.5.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
