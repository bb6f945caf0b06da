package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/dto"
	"github.com/noah-isme/result-magic-api/internal/grading"
	"github.com/noah-isme/result-magic-api/internal/models"
	"github.com/noah-isme/result-magic-api/internal/ranking"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type historyRepository interface {
	ListAll(ctx context.Context, schoolID string) ([]models.ResultSet, error)
}

// HistoryService follows students across every saved result set of a school, keyed by
// admission number.
type HistoryService struct {
	repo      historyRepository
	threshold float64
	logger    *zap.Logger
}

// NewHistoryService constructs a HistoryService. A non-positive threshold falls back to the
// default promotion threshold.
func NewHistoryService(repo historyRepository, promotionThreshold float64, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if promotionThreshold <= 0 {
		promotionThreshold = ranking.DefaultPromotionThreshold
	}
	return &HistoryService{repo: repo, threshold: promotionThreshold, logger: logger}
}

// Students lists every distinct student sorted by admission number.
func (s *HistoryService) Students(ctx context.Context, actor *models.JWTClaims) ([]dto.StudentSummary, error) {
	sets, err := s.visibleSets(ctx, actor)
	if err != nil {
		return nil, err
	}
	byAdmission := make(map[string]*dto.StudentSummary)
	for _, set := range sets {
		for _, student := range set.Students {
			key := admissionKey(student.AdmissionNumber)
			summary, ok := byAdmission[key]
			if !ok {
				summary = &dto.StudentSummary{AdmissionNumber: student.AdmissionNumber}
				byAdmission[key] = summary
			}
			summary.Name = student.Name
			summary.LatestClass = set.ClassName
			summary.RecordCount++
		}
	}

	out := make([]dto.StudentSummary, 0, len(byAdmission))
	for _, summary := range byAdmission {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AdmissionNumber < out[j].AdmissionNumber
	})
	return out, nil
}

// StudentHistory returns a student's records in chronological order with the cumulative
// average and promotion decision. A nil threshold uses the configured one.
func (s *HistoryService) StudentHistory(ctx context.Context, actor *models.JWTClaims, admissionNumber string, threshold *float64) (*dto.StudentHistory, error) {
	sets, err := s.visibleSets(ctx, actor)
	if err != nil {
		return nil, err
	}
	limit := s.threshold
	if threshold != nil {
		limit = *threshold
	}

	key := admissionKey(admissionNumber)
	history := &dto.StudentHistory{AdmissionNumber: strings.TrimSpace(admissionNumber), PromotionThreshold: limit, Records: []dto.TermRecord{}}
	averages := make([]float64, 0)
	for _, set := range sets {
		for _, ranked := range ranking.RankByOverall(set.Students) {
			if admissionKey(ranked.AdmissionNumber) != key {
				continue
			}
			history.Name = ranked.Name
			history.AdmissionNumber = ranked.AdmissionNumber
			history.Records = append(history.Records, dto.TermRecord{
				ResultSetID:   set.ID,
				ClassName:     set.ClassName,
				Term:          set.Term,
				ExamType:      set.ClassData.ExamType,
				AcademicYear:  set.AcademicYear,
				SubjectTotals: ranked.SubjectTotals,
				OverallTotal:  ranked.OverallTotal,
				Average:       ranked.Average,
				Grade:         grading.GradeOf(ranked.Average),
				Position:      ranked.Position,
				ClassSize:     len(set.Students),
				RecordedAt:    set.CreatedAt,
			})
			averages = append(averages, ranked.Average)
			break
		}
	}
	if len(history.Records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no results recorded for admission number %s", admissionNumber))
	}

	history.CumulativeAverage = ranking.CumulativeAverage(averages)
	history.Promoted = ranking.Promoted(history.CumulativeAverage, limit)
	return history, nil
}

// Export renders a student's history as an indented JSON document.
func (s *HistoryService) Export(ctx context.Context, actor *models.JWTClaims, admissionNumber string, threshold *float64) (*ExportFile, error) {
	history, err := s.StudentHistory(ctx, actor, admissionNumber, threshold)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode history")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_history.json", sanitizeName(history.AdmissionNumber)),
		ContentType: "application/json",
		Data:        body,
	}, nil
}

func (s *HistoryService) visibleSets(ctx context.Context, actor *models.JWTClaims) ([]models.ResultSet, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	sets, err := s.repo.ListAll(ctx, actor.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results history")
	}
	visible := make([]models.ResultSet, 0, len(sets))
	for _, set := range sets {
		if actor.CanAccessClass(set.ClassName) {
			visible = append(visible, set)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.Before(visible[j].CreatedAt)
	})
	return visible, nil
}

func admissionKey(admissionNumber string) string {
	return strings.ToUpper(strings.TrimSpace(admissionNumber))
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' || r == '"' {
			return '_'
		}
		return r
	}, name)
}
