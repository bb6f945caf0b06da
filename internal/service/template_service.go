package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type templateRepository interface {
	List(ctx context.Context, schoolID string) ([]models.Template, error)
	FindByID(ctx context.Context, schoolID, id string) (*models.Template, error)
	Create(ctx context.Context, tpl *models.Template) error
	Update(ctx context.Context, tpl *models.Template) error
	Delete(ctx context.Context, schoolID, id string) error
}

// TemplateRequest creates or replaces a template.
type TemplateRequest struct {
	Name        string                    `json:"name" validate:"required,max=120"`
	Description string                    `json:"description" validate:"max=500"`
	ClassData   models.ClassConfiguration `json:"class_data"`
}

// TemplateService manages saved class configurations.
type TemplateService struct {
	repo      templateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(repo templateRepository, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TemplateService{repo: repo, validator: validate, logger: logger}
}

// List returns the school's templates.
func (s *TemplateService) List(ctx context.Context, schoolID string) ([]models.Template, error) {
	templates, err := s.repo.List(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	if templates == nil {
		templates = []models.Template{}
	}
	return templates, nil
}

// Get returns one template.
func (s *TemplateService) Get(ctx context.Context, schoolID, id string) (*models.Template, error) {
	tpl, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	return tpl, nil
}

// Create validates and stores a template.
func (s *TemplateService) Create(ctx context.Context, schoolID string, req TemplateRequest) (*models.Template, error) {
	cfg, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	tpl := &models.Template{
		SchoolID:    schoolID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		ClassData:   cfg,
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	return tpl, nil
}

// Update replaces a template's name, description and configuration.
func (s *TemplateService) Update(ctx context.Context, schoolID, id string, req TemplateRequest) (*models.Template, error) {
	cfg, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	tpl, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	tpl.Name = strings.TrimSpace(req.Name)
	tpl.Description = strings.TrimSpace(req.Description)
	tpl.ClassData = cfg
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}
	return tpl, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, schoolID, id string) error {
	if err := s.repo.Delete(ctx, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template")
	}
	return nil
}

// Apply returns an independent copy of the template's configuration to start a score-entry
// session with.
func (s *TemplateService) Apply(ctx context.Context, schoolID, id string) (*models.ClassConfiguration, error) {
	tpl, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	cfg := cloneConfiguration(tpl.ClassData)
	return &cfg, nil
}

func (s *TemplateService) validate(req TemplateRequest) (models.ClassConfiguration, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ClassConfiguration{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	return prepareConfiguration(s.validator, req.ClassData)
}
