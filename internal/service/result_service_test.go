package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

// buildResultSet scores entries with sampleConfig and stores them as one result set.
func buildResultSet(t *testing.T, id string, entries ...StudentEntryRequest) *models.ResultSet {
	t.Helper()
	scorer := NewScoreEntryService(nil, nil, nil, nil)
	cfg := sampleConfig()
	set := &models.ResultSet{
		ID: id, SchoolID: "school-1", ClassName: cfg.ClassName, Term: cfg.Term,
		AcademicYear: 2024, ClassData: cfg, CreatedAt: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, entry := range entries {
		entry.ID = "student-" + entry.AdmissionNumber
		record, err := scorer.BuildStudent(cfg, entry)
		require.NoError(t, err, "entry %d", i)
		set.Students = append(set.Students, record)
	}
	return set
}

func classOfThree(t *testing.T) *models.ResultSet {
	return buildResultSet(t, "rs-1",
		sampleEntry("Ada", "A1", [2]float64{80, 90}, [2]float64{70, 60}),
		sampleEntry("Bola", "A2", [2]float64{100, 100}, [2]float64{50, 50}),
		sampleEntry("Chi", "A3", [2]float64{40, 40}, [2]float64{60, 50}),
	)
}

func newResultServiceForTest(repo *fakeResultSetRepo, cache *CacheService, metrics *MetricsService) *ResultService {
	schools := newFakeSchoolRepo(nil, &models.School{ID: "school-1", Name: "Springfield High", HeadPosition: "Head Teacher"})
	return NewResultService(NewScoreEntryService(repo, cache, nil, nil), schools, cache, metrics, 0, nil)
}

func TestResultServiceRankingsUsesCompetitionRanking(t *testing.T) {
	svc := newResultServiceForTest(newFakeResultSetRepo(classOfThree(t)), nil, nil)

	view, err := svc.Rankings(context.Background(), adminClaims("school-1"), "rs-1")
	require.NoError(t, err)

	require.Len(t, view.Class, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{view.Class[0].Position, view.Class[1].Position, view.Class[2].Position})
	assert.Equal(t, "Ada", view.Class[0].Name)
	assert.Equal(t, "Chi", view.Class[2].Name)

	mathRanks := view.SubjectRankings["Math"]
	require.Len(t, mathRanks, 3)
	assert.Equal(t, []string{"Bola", "Ada", "Chi"}, []string{mathRanks[0].Name, mathRanks[1].Name, mathRanks[2].Name})

	assert.Equal(t, 3, view.Summary.StudentCount)
	assert.Equal(t, 65.7, view.Summary.ClassAverage)
	assert.Equal(t, 2, view.Summary.PassCount)
	require.Len(t, view.SubjectSummaries, 2)
	assert.Equal(t, "Math", view.SubjectSummaries[0].Subject)
	assert.Equal(t, 75.3, view.SubjectSummaries[0].Average)
}

func TestResultServiceRankingsCached(t *testing.T) {
	repo := newFakeResultSetRepo(classOfThree(t))
	store := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, time.Minute, nil, true)
	svc := newResultServiceForTest(repo, cache, metrics)
	ctx := context.Background()

	first, err := svc.Rankings(ctx, adminClaims("school-1"), "rs-1")
	require.NoError(t, err)
	assert.Contains(t, store.entries, RankingKey("school-1", "rs-1"))

	second, hit, err := svc.RankingsCached(ctx, teacherClaims("school-1", "JSS 1"), "rs-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, first.Class[2].Position, second.Class[2].Position)

	_, err = svc.Rankings(ctx, teacherClaims("school-1", "JSS 2"), "rs-1")
	assert.Equal(t, appErrors.ErrClassAccess.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, repo.findCalls)
}

func TestResultServiceSubjectRanking(t *testing.T) {
	svc := newResultServiceForTest(newFakeResultSetRepo(classOfThree(t)), nil, nil)

	ranking, err := svc.SubjectRanking(context.Background(), adminClaims("school-1"), "rs-1", "English")
	require.NoError(t, err)
	assert.Equal(t, "English", ranking.Subject)
	assert.Equal(t, "Ada", ranking.Students[0].Name)
	assert.Equal(t, 64.0, ranking.Summary.Highest)

	_, err = svc.SubjectRanking(context.Background(), adminClaims("school-1"), "rs-1", "Physics")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResultServiceStudentResult(t *testing.T) {
	svc := newResultServiceForTest(newFakeResultSetRepo(classOfThree(t)), nil, nil)

	sheet, err := svc.StudentResult(context.Background(), adminClaims("school-1"), "rs-1", "student-A3")
	require.NoError(t, err)

	assert.Equal(t, "Springfield High", sheet.School.Name)
	assert.Equal(t, "Head Teacher", sheet.School.HeadPosition)
	assert.Equal(t, "Chi", sheet.StudentName)
	assert.Equal(t, 3, sheet.Position)
	assert.Equal(t, 3, sheet.ClassSize)
	assert.Equal(t, 47.0, sheet.Average)
	assert.Equal(t, "F", sheet.Grade)
	assert.Equal(t, "Needs Improvement", sheet.PerformanceLevel)

	require.Len(t, sheet.Subjects, 2)
	english := sheet.Subjects[1]
	assert.Equal(t, "English", english.Subject)
	assert.Equal(t, 54.0, english.Total)
	assert.Equal(t, "D", english.Grade)
	assert.Equal(t, 2, english.Position)
	require.Len(t, english.Components, 2)
	assert.Equal(t, 24.0, english.Components[0].Weighted)

	_, err = svc.StudentResult(context.Background(), adminClaims("school-1"), "rs-1", "nobody")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBuildResultSheetDefaultsHeadPosition(t *testing.T) {
	set := classOfThree(t)
	sheet, ok := BuildResultSheet(set, &models.School{Name: "S"}, "student-A1")
	require.True(t, ok)
	assert.Equal(t, models.DefaultHeadPosition, sheet.School.HeadPosition)
	assert.Equal(t, 1, sheet.Position)
	assert.Equal(t, "B", sheet.Grade)

	_, ok = BuildResultSheet(set, nil, "missing")
	assert.False(t, ok)
}
