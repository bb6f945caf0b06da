package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/result-magic-api/internal/grading"
	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

// prepareConfiguration trims names, fills the default scheme when none is given and checks
// that every subject resolves to a scheme summing to 100.
func prepareConfiguration(validate *validator.Validate, cfg models.ClassConfiguration) (models.ClassConfiguration, error) {
	cfg = cloneConfiguration(cfg)
	cfg.ClassName = strings.TrimSpace(cfg.ClassName)
	cfg.ExamType = strings.TrimSpace(cfg.ExamType)
	cfg.Term = strings.TrimSpace(cfg.Term)
	for i := range cfg.Subjects {
		cfg.Subjects[i] = strings.TrimSpace(cfg.Subjects[i])
	}
	if len(cfg.SubjectGradingComponents) > 0 {
		overrides := make(map[string][]models.GradingComponent, len(cfg.SubjectGradingComponents))
		for subject, scheme := range cfg.SubjectGradingComponents {
			overrides[strings.TrimSpace(subject)] = scheme
		}
		cfg.SubjectGradingComponents = overrides
	}
	if len(cfg.GradingComponents) == 0 {
		cfg.GradingComponents = grading.DefaultScheme()
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class configuration")
	}
	for subject := range cfg.SubjectGradingComponents {
		if !containsString(cfg.Subjects, subject) {
			return cfg, appErrors.Clone(appErrors.ErrValidation, "grading override for unknown subject "+subject)
		}
	}
	if err := grading.ValidateClassConfiguration(cfg); err != nil {
		if errors.Is(err, grading.ErrSchemeWeights) || errors.Is(err, grading.ErrEmptyScheme) {
			return cfg, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, err.Error())
		}
		return cfg, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return cfg, nil
}

func cloneConfiguration(cfg models.ClassConfiguration) models.ClassConfiguration {
	out := cfg
	out.Subjects = append([]string(nil), cfg.Subjects...)
	out.GradingComponents = cloneScheme(cfg.GradingComponents)
	if cfg.SubjectGradingComponents != nil {
		out.SubjectGradingComponents = make(map[string][]models.GradingComponent, len(cfg.SubjectGradingComponents))
		for subject, scheme := range cfg.SubjectGradingComponents {
			out.SubjectGradingComponents[subject] = cloneScheme(scheme)
		}
	}
	return out
}

func cloneScheme(scheme []models.GradingComponent) []models.GradingComponent {
	if scheme == nil {
		return nil
	}
	out := make([]models.GradingComponent, len(scheme))
	for i, c := range scheme {
		out[i] = c
		if c.Enabled != nil {
			enabled := *c.Enabled
			out[i].Enabled = &enabled
		}
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
