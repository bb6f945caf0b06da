package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/grading"
	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type resultSetRepository interface {
	List(ctx context.Context, filter models.ResultSetFilter) ([]models.ResultSet, int, error)
	FindByID(ctx context.Context, schoolID, id string) (*models.ResultSet, error)
	Create(ctx context.Context, set *models.ResultSet) error
	Delete(ctx context.Context, schoolID, id string) error
}

// ParentDetailsRequest is the parent contact captured with a student. Phone or email is required.
type ParentDetailsRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required_without=Email"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// StudentEntryRequest is one student's row in the score-entry grid.
type StudentEntryRequest struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name" validate:"required"`
	AdmissionNumber string                   `json:"admission_number" validate:"required"`
	ParentDetails   ParentDetailsRequest     `json:"parent_details"`
	Scores          models.ComponentScoreSet `json:"scores"`
}

// SaveResultSetRequest persists a class configuration with all its scored students.
type SaveResultSetRequest struct {
	ClassData    models.ClassConfiguration `json:"class_data"`
	AcademicYear int                       `json:"academic_year" validate:"required,gte=1900,lte=3000"`
	Students     []StudentEntryRequest     `json:"students" validate:"required,min=1,dive"`
}

// PreviewRequest computes one student's totals without saving.
type PreviewRequest struct {
	ClassData models.ClassConfiguration `json:"class_data"`
	Student   StudentEntryRequest       `json:"student"`
}

// ScoreEntryService turns entered scores into persisted result sets.
type ScoreEntryService struct {
	repo      resultSetRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScoreEntryService constructs a ScoreEntryService.
func NewScoreEntryService(repo resultSetRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScoreEntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScoreEntryService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// BuildStudent validates an entry against an already prepared configuration, clamps every
// score to [0, 100], keeps only components of each subject's resolved scheme and derives the
// totals.
func (s *ScoreEntryService) BuildStudent(cfg models.ClassConfiguration, req StudentEntryRequest) (models.StudentRecord, error) {
	req = trimEntry(req)
	if err := s.validator.Struct(req); err != nil {
		return models.StudentRecord{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student entry")
	}

	scores := make(models.ComponentScoreSet, len(cfg.Subjects))
	for _, subject := range cfg.Subjects {
		raw := req.Scores[subject]
		kept := make(map[string]float64)
		for _, component := range grading.ResolveScheme(subject, cfg) {
			if v, ok := raw[component.Name]; ok {
				kept[component.Name] = grading.ClampScore(v)
			}
		}
		scores[subject] = kept
	}

	totals, stats := grading.OverallStatsFromScores(cfg, scores)

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	return models.StudentRecord{
		ID:              id,
		Name:            req.Name,
		AdmissionNumber: req.AdmissionNumber,
		ParentDetails: models.ParentDetails{
			FullName:    req.ParentDetails.FullName,
			PhoneNumber: req.ParentDetails.PhoneNumber,
			Email:       req.ParentDetails.Email,
		},
		ComponentScores: scores,
		SubjectTotals:   totals,
		OverallTotal:    stats.OverallTotal,
		Average:         stats.Average,
	}, nil
}

// trimEntry strips surrounding blanks from every text field and from the subject and component
// keys of the scores, so blank-only values fail validation and keys match the configuration.
func trimEntry(req StudentEntryRequest) StudentEntryRequest {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	req.AdmissionNumber = strings.TrimSpace(req.AdmissionNumber)
	req.ParentDetails.FullName = strings.TrimSpace(req.ParentDetails.FullName)
	req.ParentDetails.PhoneNumber = strings.TrimSpace(req.ParentDetails.PhoneNumber)
	req.ParentDetails.Email = strings.TrimSpace(req.ParentDetails.Email)
	if req.Scores != nil {
		scores := make(models.ComponentScoreSet, len(req.Scores))
		for subject, components := range req.Scores {
			key := strings.TrimSpace(subject)
			kept := scores[key]
			if kept == nil {
				kept = make(map[string]float64, len(components))
				scores[key] = kept
			}
			for name, v := range components {
				kept[strings.TrimSpace(name)] = v
			}
		}
		req.Scores = scores
	}
	return req
}

// Preview validates the configuration and computes one student record without saving it.
func (s *ScoreEntryService) Preview(req PreviewRequest) (*models.StudentRecord, error) {
	cfg, err := prepareConfiguration(s.validator, req.ClassData)
	if err != nil {
		return nil, err
	}
	record, err := s.BuildStudent(cfg, req.Student)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveResultSet builds every student record and persists the class as one result set.
func (s *ScoreEntryService) SaveResultSet(ctx context.Context, actor *models.JWTClaims, req SaveResultSetRequest) (*models.ResultSet, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result set payload")
	}
	cfg, err := prepareConfiguration(s.validator, req.ClassData)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessClass(cfg.ClassName) {
		return nil, appErrors.Clone(appErrors.ErrClassAccess, fmt.Sprintf("you do not have access to class %s", cfg.ClassName))
	}

	admissions := make(map[string]struct{}, len(req.Students))
	ids := make(map[string]struct{}, len(req.Students))
	students := make(models.StudentRecords, 0, len(req.Students))
	for _, entry := range req.Students {
		key := strings.ToUpper(strings.TrimSpace(entry.AdmissionNumber))
		if _, dup := admissions[key]; dup && key != "" {
			return nil, appErrors.Clone(appErrors.ErrDuplicateAdmission, fmt.Sprintf("admission number %s already exists", strings.TrimSpace(entry.AdmissionNumber)))
		}
		admissions[key] = struct{}{}

		record, err := s.BuildStudent(cfg, entry)
		if err != nil {
			return nil, err
		}
		if _, dup := ids[record.ID]; dup {
			record.ID = uuid.NewString()
		}
		ids[record.ID] = struct{}{}
		students = append(students, record)
	}

	set := &models.ResultSet{
		SchoolID:     actor.SchoolID,
		ClassName:    cfg.ClassName,
		Term:         cfg.Term,
		AcademicYear: req.AcademicYear,
		ClassData:    cfg,
		Students:     students,
		CreatedBy:    actor.UserID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, set); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save results")
	}
	s.cache.InvalidateResultSet(ctx, set.SchoolID, set.ID)

	s.logger.Info("result set saved",
		zap.String("school_id", set.SchoolID),
		zap.String("result_set_id", set.ID),
		zap.String("class", set.ClassName),
		zap.Int("students", len(set.Students)),
	)
	return set, nil
}

// List returns result sets of the actor's school. Teachers only see their assigned classes.
func (s *ScoreEntryService) List(ctx context.Context, actor *models.JWTClaims, filter models.ResultSetFilter) ([]models.ResultSet, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	filter.SchoolID = actor.SchoolID
	if filter.ClassName != "" && !actor.CanAccessClass(filter.ClassName) {
		return nil, nil, appErrors.Clone(appErrors.ErrClassAccess, fmt.Sprintf("you do not have access to class %s", filter.ClassName))
	}

	sets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}

	visible := make([]models.ResultSet, 0, len(sets))
	for _, set := range sets {
		if actor.CanAccessClass(set.ClassName) {
			visible = append(visible, set)
		} else {
			total--
		}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return visible, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a result set the actor may access.
func (s *ScoreEntryService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.ResultSet, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	set, err := s.repo.FindByID(ctx, actor.SchoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result set not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	if !actor.CanAccessClass(set.ClassName) {
		return nil, appErrors.Clone(appErrors.ErrClassAccess, fmt.Sprintf("you do not have access to class %s", set.ClassName))
	}
	return set, nil
}

// Delete removes a result set the actor may access.
func (s *ScoreEntryService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	set, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, set.SchoolID, set.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "result set not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete results")
	}
	s.cache.InvalidateResultSet(ctx, set.SchoolID, set.ID)
	s.logger.Info("result set deleted", zap.String("school_id", set.SchoolID), zap.String("result_set_id", set.ID))
	return nil
}
