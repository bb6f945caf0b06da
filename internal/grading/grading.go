// Package grading converts raw component scores into weighted subject totals and
// per-student overall statistics.
//
// Every function here is pure: no I/O, no shared state, and no error path. Missing scores
// count as zero and empty subject lists produce zero statistics.
package grading

import (
	"math"

	"github.com/noah-isme/result-magic-api/internal/models"
)

// Stats is a student's aggregate over all subjects of a class configuration.
type Stats struct {
	OverallTotal float64 `json:"overall_total"`
	Average      float64 `json:"average"`
}

// ResolveScheme returns the subject's override scheme when one is configured, otherwise the
// class-wide default. The result may be empty.
func ResolveScheme(subject string, cfg models.ClassConfiguration) []models.GradingComponent {
	if override, ok := cfg.SubjectGradingComponents[subject]; ok && override != nil {
		return override
	}
	return cfg.GradingComponents
}

// SubjectTotal weights the raw scores of one subject by its resolved scheme.
//
// Only enabled components contribute; a component without a raw score contributes 0 and raw
// scores for names outside the scheme are ignored. Percentages are used as given, so a scheme
// that does not sum to 100 yields a total off the 100-point scale.
func SubjectTotal(subject string, rawScores map[string]float64, cfg models.ClassConfiguration) float64 {
	total := 0.0
	for _, component := range ResolveScheme(subject, cfg) {
		if !component.IsEnabled() {
			continue
		}
		total += rawScores[component.Name] * component.Percentage / 100
	}
	return Round2(total)
}

// OverallStats sums per-subject totals over the class subjects and averages them.
// Subjects without a total count as 0.
func OverallStats(subjects []string, perSubjectTotals map[string]float64) Stats {
	if len(subjects) == 0 {
		return Stats{}
	}
	sum := 0.0
	for _, subject := range subjects {
		sum += perSubjectTotals[subject]
	}
	overall := Round2(sum)
	return Stats{OverallTotal: overall, Average: Round2(overall / float64(len(subjects)))}
}

// OverallStatsFromScores computes subject totals from raw scores first and then the overall
// statistics.
func OverallStatsFromScores(cfg models.ClassConfiguration, scores models.ComponentScoreSet) (map[string]float64, Stats) {
	totals := make(map[string]float64, len(cfg.Subjects))
	for _, subject := range cfg.Subjects {
		totals[subject] = SubjectTotal(subject, scores[subject], cfg)
	}
	return totals, OverallStats(cfg.Subjects, totals)
}

// ClampScore bounds a raw component score to [0,100]. NaN becomes 0.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Round2 rounds half-up to two decimals.
func Round2(v float64) float64 {
	return roundHalfUp(v, 100)
}

// Round1 rounds half-up to one decimal, used for display aggregates.
func Round1(v float64) float64 {
	return roundHalfUp(v, 10)
}

func roundHalfUp(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v*scale+0.5) / scale
}
