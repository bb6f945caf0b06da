// Package ranking assigns competition-style positions to scored students.
//
// Ties share a position and the next distinct score resumes at its 1-based index, so
// averages [90, 90, 80] rank [1, 1, 3]. Inputs are never mutated.
package ranking

import (
	"math"
	"sort"

	"github.com/noah-isme/result-magic-api/internal/models"
)

// Key selects the score students are ranked by: the overall average or one subject's total.
type Key struct {
	Subject string
	overall bool
}

// Overall ranks by each student's overall average.
var Overall = Key{overall: true}

// BySubject ranks by the student's total in one subject.
func BySubject(subject string) Key {
	return Key{Subject: subject}
}

// IsOverall reports whether the key ranks by overall average.
func (k Key) IsOverall() bool {
	return k.overall
}

func (k Key) score(s models.StudentRecord) float64 {
	if k.IsOverall() {
		return finite(s.Average)
	}
	return finite(s.SubjectTotals[k.Subject])
}

// Rank orders students by the key, highest first, and assigns positions.
func Rank(students []models.StudentRecord, key Key) []models.RankedStudent {
	ordered := make([]models.StudentRecord, len(students))
	copy(ordered, students)
	sort.SliceStable(ordered, func(i, j int) bool {
		return key.score(ordered[i]) > key.score(ordered[j])
	})

	ranked := make([]models.RankedStudent, len(ordered))
	position := 1
	for i, student := range ordered {
		if i > 0 && key.score(student) < key.score(ordered[i-1]) {
			position = i + 1
		}
		ranked[i] = models.RankedStudent{StudentRecord: clone(student), Position: position}
	}
	return ranked
}

// RankByOverall ranks students by overall average.
func RankByOverall(students []models.StudentRecord) []models.RankedStudent {
	return Rank(students, Overall)
}

// RankBySubject ranks students by their total in subject. A student's subject position is
// independent of their overall position.
func RankBySubject(subject string, students []models.StudentRecord) []models.RankedStudent {
	return Rank(students, BySubject(subject))
}

// RankAllSubjects ranks students once per subject.
func RankAllSubjects(subjects []string, students []models.StudentRecord) map[string][]models.RankedStudent {
	rankings := make(map[string][]models.RankedStudent, len(subjects))
	for _, subject := range subjects {
		rankings[subject] = RankBySubject(subject, students)
	}
	return rankings
}

// finite coerces NaN and infinities to 0 so the sort order stays total.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clone(s models.StudentRecord) models.StudentRecord {
	out := s
	if s.SubjectTotals != nil {
		out.SubjectTotals = make(map[string]float64, len(s.SubjectTotals))
		for k, v := range s.SubjectTotals {
			out.SubjectTotals[k] = v
		}
	}
	if s.ComponentScores != nil {
		out.ComponentScores = make(models.ComponentScoreSet, len(s.ComponentScores))
		for subject, scores := range s.ComponentScores {
			copied := make(map[string]float64, len(scores))
			for k, v := range scores {
				copied[k] = v
			}
			out.ComponentScores[subject] = copied
		}
	}
	return out
}
