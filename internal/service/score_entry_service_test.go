package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

func TestScoreEntryBuildStudentClampsAndDropsUnknownComponents(t *testing.T) {
	svc := NewScoreEntryService(newFakeResultSetRepo(), nil, nil, nil)

	record, err := svc.BuildStudent(sampleConfig(), StudentEntryRequest{
		Name:            " Ada ",
		AdmissionNumber: "A1",
		ParentDetails:   ParentDetailsRequest{FullName: "Parent", PhoneNumber: "0801"},
		Scores: models.ComponentScoreSet{
			"Math":    {"CA": 150, "Exam": -5, "Bonus": 40},
			"English": {"CA": 50},
			"Physics": {"CA": 90},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", record.Name)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, map[string]float64{"CA": 100, "Exam": 0}, record.ComponentScores["Math"])
	assert.NotContains(t, record.ComponentScores, "Physics")
	assert.Equal(t, 40.0, record.SubjectTotals["Math"])
	assert.Equal(t, 20.0, record.SubjectTotals["English"])
	assert.Equal(t, 60.0, record.OverallTotal)
	assert.Equal(t, 30.0, record.Average)
}

func TestScoreEntryBuildStudentRequiresParentContact(t *testing.T) {
	svc := NewScoreEntryService(newFakeResultSetRepo(), nil, nil, nil)

	_, err := svc.BuildStudent(sampleConfig(), StudentEntryRequest{
		Name:            "Ada",
		AdmissionNumber: "A1",
		ParentDetails:   ParentDetailsRequest{FullName: "Parent"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScoreEntryBuildStudentRejectsBlankContact(t *testing.T) {
	svc := NewScoreEntryService(newFakeResultSetRepo(), nil, nil, nil)

	_, err := svc.BuildStudent(sampleConfig(), StudentEntryRequest{
		Name:            "Ada",
		AdmissionNumber: "A1",
		ParentDetails:   ParentDetailsRequest{FullName: "Parent", PhoneNumber: "   "},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.BuildStudent(sampleConfig(), StudentEntryRequest{
		Name:            "  ",
		AdmissionNumber: "A1",
		ParentDetails:   ParentDetailsRequest{FullName: "Parent", PhoneNumber: "0801"},
	})
	require.Error(t, err)
}

func TestScoreEntryPreviewMatchesPaddedSubjectNames(t *testing.T) {
	svc := NewScoreEntryService(newFakeResultSetRepo(), nil, nil, nil)
	cfg := models.ClassConfiguration{
		ClassName: "JSS 1", ExamType: "Terminal", Term: "First Term",
		Subjects: []string{"Math "},
	}
	student := StudentEntryRequest{
		Name: "Ada", AdmissionNumber: "A1",
		ParentDetails: ParentDetailsRequest{FullName: "Parent", PhoneNumber: "0801"},
		Scores:        models.ComponentScoreSet{"Math ": {"Examination": 100}},
	}

	record, err := svc.Preview(PreviewRequest{ClassData: cfg, Student: student})
	require.NoError(t, err)
	assert.Equal(t, 60.0, record.SubjectTotals["Math"])
	assert.Equal(t, 60.0, record.Average)

	cfg.SubjectGradingComponents = map[string][]models.GradingComponent{
		"Math ": {{Name: "Examination", Percentage: 100}},
	}
	record, err = svc.Preview(PreviewRequest{ClassData: cfg, Student: student})
	require.NoError(t, err)
	assert.Equal(t, 100.0, record.SubjectTotals["Math"])
}

func TestScoreEntryPreviewAppliesDefaultScheme(t *testing.T) {
	svc := NewScoreEntryService(newFakeResultSetRepo(), nil, nil, nil)
	cfg := sampleConfig()
	cfg.GradingComponents = nil

	record, err := svc.Preview(PreviewRequest{
		ClassData: cfg,
		Student: StudentEntryRequest{
			Name: "Ada", AdmissionNumber: "A1",
			ParentDetails: ParentDetailsRequest{FullName: "Parent", Email: "p@example.com"},
			Scores:        models.ComponentScoreSet{"Math": {"Examination": 100, "1st CA": 50}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 65.0, record.SubjectTotals["Math"])
	assert.Equal(t, 32.5, record.Average)
}

func TestScoreEntryPreviewRejectsInvalidWeights(t *testing.T) {
	svc := NewScoreEntryService(newFakeResultSetRepo(), nil, nil, nil)
	cfg := sampleConfig()
	cfg.SubjectGradingComponents = map[string][]models.GradingComponent{
		"Math": {{Name: "CA", Percentage: 30}, {Name: "Exam", Percentage: 60}},
	}

	_, err := svc.Preview(PreviewRequest{ClassData: cfg, Student: sampleEntry("Ada", "A1", [2]float64{1, 1}, [2]float64{1, 1})})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidWeights.Code, appErrors.FromError(err).Code)

	cfg.SubjectGradingComponents = map[string][]models.GradingComponent{
		"Chemistry": {{Name: "Exam", Percentage: 100}},
	}
	_, err = svc.Preview(PreviewRequest{ClassData: cfg, Student: sampleEntry("Ada", "A1", [2]float64{1, 1}, [2]float64{1, 1})})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScoreEntrySaveResultSet(t *testing.T) {
	repo := newFakeResultSetRepo()
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Minute, nil, true)
	svc := NewScoreEntryService(repo, cache, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC) }

	set, err := svc.SaveResultSet(context.Background(), teacherClaims("school-1", "JSS 1"), SaveResultSetRequest{
		ClassData:    sampleConfig(),
		AcademicYear: 2024,
		Students: []StudentEntryRequest{
			sampleEntry("Ada", "A1", [2]float64{80, 90}, [2]float64{70, 60}),
			sampleEntry("Bola", "A2", [2]float64{100, 100}, [2]float64{50, 50}),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "rs-1", set.ID)
	assert.Equal(t, "school-1", set.SchoolID)
	assert.Equal(t, "teacher-1", set.CreatedBy)
	assert.Equal(t, "JSS 1", set.ClassName)
	assert.Equal(t, 2024, set.AcademicYear)
	assert.Equal(t, 2024, set.CreatedAt.Year())
	require.Len(t, set.Students, 2)
	assert.Equal(t, 86.0, set.Students[0].SubjectTotals["Math"])
	assert.Equal(t, 75.0, set.Students[0].Average)
	assert.Equal(t, 75.0, set.Students[1].Average)
	assert.NotEqual(t, set.Students[0].ID, set.Students[1].ID)
	assert.Equal(t, []string{RankingKey("school-1", "rs-1")}, store.deleted)
}

func TestScoreEntrySaveResultSetRejections(t *testing.T) {
	repo := newFakeResultSetRepo()
	svc := NewScoreEntryService(repo, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.SaveResultSet(ctx, teacherClaims("school-1", "JSS 2"), SaveResultSetRequest{
		ClassData: sampleConfig(), AcademicYear: 2024,
		Students: []StudentEntryRequest{sampleEntry("Ada", "A1", [2]float64{1, 1}, [2]float64{1, 1})},
	})
	assert.Equal(t, appErrors.ErrClassAccess.Code, appErrors.FromError(err).Code)

	_, err = svc.SaveResultSet(ctx, adminClaims("school-1"), SaveResultSetRequest{
		ClassData: sampleConfig(), AcademicYear: 2024,
		Students: []StudentEntryRequest{
			sampleEntry("Ada", "A1", [2]float64{1, 1}, [2]float64{1, 1}),
			sampleEntry("Bola", " a1 ", [2]float64{1, 1}, [2]float64{1, 1}),
		},
	})
	assert.Equal(t, appErrors.ErrDuplicateAdmission.Code, appErrors.FromError(err).Code)

	_, err = svc.SaveResultSet(ctx, adminClaims("school-1"), SaveResultSetRequest{ClassData: sampleConfig(), AcademicYear: 2024})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SaveResultSet(ctx, nil, SaveResultSetRequest{})
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	repo.createErr = errors.New("db down")
	_, err = svc.SaveResultSet(ctx, adminClaims("school-1"), SaveResultSetRequest{
		ClassData: sampleConfig(), AcademicYear: 2024,
		Students: []StudentEntryRequest{sampleEntry("Ada", "A1", [2]float64{1, 1}, [2]float64{1, 1})},
	})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.sets)
}

func TestScoreEntryListHidesForeignClasses(t *testing.T) {
	repo := newFakeResultSetRepo(
		&models.ResultSet{ID: "rs-1", SchoolID: "school-1", ClassName: "JSS 1", CreatedAt: time.Unix(100, 0)},
		&models.ResultSet{ID: "rs-2", SchoolID: "school-1", ClassName: "JSS 2", CreatedAt: time.Unix(200, 0)},
		&models.ResultSet{ID: "rs-3", SchoolID: "school-2", ClassName: "JSS 1", CreatedAt: time.Unix(300, 0)},
	)
	svc := NewScoreEntryService(repo, nil, nil, nil)

	sets, page, err := svc.List(context.Background(), teacherClaims("school-1", "JSS 1"), models.ResultSetFilter{})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "rs-1", sets[0].ID)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)

	sets, page, err = svc.List(context.Background(), adminClaims("school-1"), models.ResultSetFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, sets, 2)
	assert.Equal(t, "rs-2", sets[0].ID)
	assert.Equal(t, 2, page.Page)

	_, _, err = svc.List(context.Background(), teacherClaims("school-1", "JSS 1"), models.ResultSetFilter{ClassName: "JSS 2"})
	assert.Equal(t, appErrors.ErrClassAccess.Code, appErrors.FromError(err).Code)
}

func TestScoreEntryGetAndDelete(t *testing.T) {
	repo := newFakeResultSetRepo(&models.ResultSet{ID: "rs-1", SchoolID: "school-1", ClassName: "JSS 1"})
	store := newMemoryCache()
	svc := NewScoreEntryService(repo, NewCacheService(store, nil, time.Minute, nil, true), nil, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, adminClaims("school-2"), "rs-1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Delete(ctx, teacherClaims("school-1", "JSS 3"), "rs-1")
	assert.Equal(t, appErrors.ErrClassAccess.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(ctx, teacherClaims("school-1", "JSS 1"), "rs-1"))
	assert.Empty(t, repo.sets)
	assert.Equal(t, []string{RankingKey("school-1", "rs-1")}, store.deleted)
}
