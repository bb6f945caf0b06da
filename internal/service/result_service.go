package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/dto"
	"github.com/noah-isme/result-magic-api/internal/grading"
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/ranking"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type resultSetReader interface {
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.ResultSet, error)
}

type schoolReader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// ResultService computes ranking views and result sheets on demand from saved result sets.
type ResultService struct {
	sets     resultSetReader
	schools  schoolReader
	cache    *CacheService
	metrics  *MetricsService
	passMark float64
	logger   *zap.Logger
}

// NewResultService constructs a ResultService. A non-positive pass mark falls back to the default.
func NewResultService(sets resultSetReader, schools schoolReader, cache *CacheService, metrics *MetricsService, passMark float64, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if passMark <= 0 {
		passMark = ranking.DefaultPassMark
	}
	return &ResultService{sets: sets, schools: schools, cache: cache, metrics: metrics, passMark: passMark, logger: logger}
}

// Rankings returns the class ranking, every subject ranking and the summaries of a result set.
func (s *ResultService) Rankings(ctx context.Context, actor *models.JWTClaims, id string) (*dto.ResultRankings, error) {
	view, _, err := s.RankingsCached(ctx, actor, id)
	return view, err
}

// RankingsCached is Rankings that also reports whether the view came from cache.
func (s *ResultService) RankingsCached(ctx context.Context, actor *models.JWTClaims, id string) (*dto.ResultRankings, bool, error) {
	if actor == nil {
		return nil, false, appErrors.ErrUnauthorized
	}
	key := RankingKey(actor.SchoolID, id)
	var cached dto.ResultRankings
	if s.cache.Get(ctx, key, &cached) {
		if !actor.CanAccessClass(cached.ClassName) {
			return nil, false, appErrors.Clone(appErrors.ErrClassAccess, fmt.Sprintf("you do not have access to class %s", cached.ClassName))
		}
		return &cached, true, nil
	}

	set, err := s.sets.Get(ctx, actor, id)
	if err != nil {
		return nil, false, err
	}
	view := s.compute(set)
	s.cache.Set(ctx, key, view, 0)
	return view, false, nil
}

// SubjectRanking returns one subject's ranking within a result set.
func (s *ResultService) SubjectRanking(ctx context.Context, actor *models.JWTClaims, id, subject string) (*dto.SubjectRanking, error) {
	view, err := s.Rankings(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	students, ok := view.SubjectRankings[subject]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("subject %s is not part of this result set", subject))
	}
	out := &dto.SubjectRanking{ResultSetID: view.ResultSetID, Subject: subject, Students: students}
	for _, summary := range view.SubjectSummaries {
		if summary.Subject == subject {
			out.Summary = summary
		}
	}
	return out, nil
}

// StudentResult builds the printable result sheet of one student.
func (s *ResultService) StudentResult(ctx context.Context, actor *models.JWTClaims, id, studentID string) (*dto.StudentResultSheet, error) {
	set, err := s.sets.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	school, err := s.schools.FindByID(ctx, set.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	sheet, ok := BuildResultSheet(set, school, studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in result set")
	}
	return sheet, nil
}

func (s *ResultService) compute(set *models.ResultSet) *dto.ResultRankings {
	start := time.Now()
	subjects := set.ClassData.Subjects
	view := &dto.ResultRankings{
		ResultSetID:      set.ID,
		ClassName:        set.ClassName,
		Term:             set.Term,
		ExamType:         set.ClassData.ExamType,
		AcademicYear:     set.AcademicYear,
		Subjects:         append([]string{}, subjects...),
		Class:            ranking.RankByOverall(set.Students),
		SubjectRankings:  ranking.RankAllSubjects(subjects, set.Students),
		Summary:          ranking.SummarizeClass(set.Students, s.passMark),
		SubjectSummaries: make([]ranking.SubjectSummary, 0, len(subjects)),
	}
	for _, subject := range subjects {
		view.SubjectSummaries = append(view.SubjectSummaries, ranking.SummarizeSubject(subject, set.Students, s.passMark))
	}
	s.metrics.ObserveRanking(len(set.Students), time.Since(start))
	return view
}

// BuildResultSheet assembles the result sheet of studentID from a result set. The boolean is
// false when the student is not part of the set.
func BuildResultSheet(set *models.ResultSet, school *models.School, studentID string) (*dto.StudentResultSheet, bool) {
	student, ok := set.FindStudent(studentID)
	if !ok {
		return nil, false
	}
	cfg := set.ClassData

	position := 0
	for _, ranked := range ranking.RankByOverall(set.Students) {
		if ranked.ID == studentID {
			position = ranked.Position
			break
		}
	}

	sheet := &dto.StudentResultSheet{
		ResultSetID:      set.ID,
		ClassName:        set.ClassName,
		Term:             set.Term,
		ExamType:         cfg.ExamType,
		AcademicYear:     set.AcademicYear,
		StudentID:        student.ID,
		StudentName:      student.Name,
		AdmissionNumber:  student.AdmissionNumber,
		Parent:           student.ParentDetails,
		Subjects:         make([]dto.SubjectResult, 0, len(cfg.Subjects)),
		OverallTotal:     student.OverallTotal,
		Average:          student.Average,
		Grade:            grading.GradeOf(student.Average),
		Position:         position,
		ClassSize:        len(set.Students),
		PerformanceLevel: grading.PerformanceLevel(student.Average),
	}
	if school != nil {
		sheet.School = dto.SchoolHeader{Name: school.Name, HeadPosition: school.HeadPosition, Logo: school.Logo}
		if sheet.School.HeadPosition == "" {
			sheet.School.HeadPosition = models.DefaultHeadPosition
		}
	}

	for _, subject := range cfg.Subjects {
		row := dto.SubjectResult{
			Subject: subject,
			Total:   student.SubjectTotals[subject],
			Grade:   grading.GradeOf(student.SubjectTotals[subject]),
		}
		for _, component := range grading.ResolveScheme(subject, cfg) {
			if !component.IsEnabled() {
				continue
			}
			score := student.ComponentScores[subject][component.Name]
			row.Components = append(row.Components, dto.ComponentResult{
				Name:       component.Name,
				Percentage: component.Percentage,
				Score:      score,
				Weighted:   grading.Round2(score * component.Percentage / 100),
			})
		}
		for _, ranked := range ranking.RankBySubject(subject, set.Students) {
			if ranked.ID == studentID {
				row.Position = ranked.Position
				break
			}
		}
		sheet.Subjects = append(sheet.Subjects, row)
	}
	return sheet, true
}
