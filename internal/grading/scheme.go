package grading

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/noah-isme/result-magic-api/internal/models"
)

// Scheme validation errors. The computations above never return these; configuration editors
// call ValidateScheme before a scheme is used.
var (
	ErrSchemeWeights      = errors.New("enabled component percentages must sum to 100")
	ErrDuplicateComponent = errors.New("duplicate grading component")
	ErrEmptyComponentName = errors.New("grading component name required")
	ErrEmptyScheme        = errors.New("grading scheme has no enabled components")
)

const weightTolerance = 1e-9

// SchemeWeight sums the percentages of enabled components.
func SchemeWeight(scheme []models.GradingComponent) float64 {
	total := 0.0
	for _, component := range scheme {
		if component.IsEnabled() {
			total += component.Percentage
		}
	}
	return total
}

// ValidateScheme checks that component names are present and unique and that the enabled
// percentages sum to exactly 100.
func ValidateScheme(scheme []models.GradingComponent) error {
	seen := make(map[string]struct{}, len(scheme))
	enabled := 0
	for _, component := range scheme {
		name := strings.TrimSpace(component.Name)
		if name == "" {
			return ErrEmptyComponentName
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, name)
		}
		seen[name] = struct{}{}
		if component.IsEnabled() {
			enabled++
		}
	}
	if enabled == 0 {
		return ErrEmptyScheme
	}
	if total := SchemeWeight(scheme); math.Abs(total-100) > weightTolerance {
		return fmt.Errorf("%w (got %g)", ErrSchemeWeights, total)
	}
	return nil
}

// ValidateClassConfiguration validates the scheme every subject resolves to.
func ValidateClassConfiguration(cfg models.ClassConfiguration) error {
	seen := make(map[string]struct{}, len(cfg.Subjects))
	for _, subject := range cfg.Subjects {
		if _, ok := seen[subject]; ok {
			return fmt.Errorf("duplicate subject %s", subject)
		}
		seen[subject] = struct{}{}
		if err := ValidateScheme(ResolveScheme(subject, cfg)); err != nil {
			return fmt.Errorf("subject %s: %w", subject, err)
		}
	}
	return nil
}

// DefaultScheme is the class scheme offered when a configuration names none: two continuous
// assessments, a project and an assessment at 10% each and a 60% examination.
func DefaultScheme() []models.GradingComponent {
	return []models.GradingComponent{
		{Name: "1st CA", Percentage: 10},
		{Name: "2nd CA", Percentage: 10},
		{Name: "Project", Percentage: 10},
		{Name: "Assessment", Percentage: 10},
		{Name: "Examination", Percentage: 60},
	}
}
