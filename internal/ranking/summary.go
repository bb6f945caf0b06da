package ranking

import (
	"github.com/noah-isme/result-magic-api/internal/grading"
	"github.com/noah-isme/result-magic-api/internal/models"
)

const (
	// DefaultPassMark is the average at or above which a student passes.
	DefaultPassMark = 60.0
	// DefaultPromotionThreshold is the cumulative average required for promotion.
	DefaultPromotionThreshold = 50.0
)

// ClassSummary aggregates a class for the ranking and print views.
// Averages and rates are rounded to one decimal.
type ClassSummary struct {
	StudentCount   int     `json:"student_count"`
	ClassAverage   float64 `json:"class_average"`
	HighestTotal   float64 `json:"highest_total"`
	LowestTotal    float64 `json:"lowest_total"`
	HighestAverage float64 `json:"highest_average"`
	LowestAverage  float64 `json:"lowest_average"`
	PassCount      int     `json:"pass_count"`
	FailCount      int     `json:"fail_count"`
	PassRate       float64 `json:"pass_rate"`
}

// SubjectSummary aggregates one subject across a class.
type SubjectSummary struct {
	Subject   string  `json:"subject"`
	Average   float64 `json:"average"`
	Highest   float64 `json:"highest"`
	Lowest    float64 `json:"lowest"`
	PassCount int     `json:"pass_count"`
}

// SummarizeClass reduces students by overall average. An empty class is all zeros.
func SummarizeClass(students []models.StudentRecord, passMark float64) ClassSummary {
	summary := ClassSummary{StudentCount: len(students)}
	if len(students) == 0 {
		return summary
	}
	sum := 0.0
	for i, s := range students {
		avg, total := finite(s.Average), finite(s.OverallTotal)
		sum += avg
		if i == 0 || total > summary.HighestTotal {
			summary.HighestTotal = total
		}
		if i == 0 || total < summary.LowestTotal {
			summary.LowestTotal = total
		}
		if i == 0 || avg > summary.HighestAverage {
			summary.HighestAverage = avg
		}
		if i == 0 || avg < summary.LowestAverage {
			summary.LowestAverage = avg
		}
		if avg >= passMark {
			summary.PassCount++
		}
	}
	summary.FailCount = len(students) - summary.PassCount
	summary.ClassAverage = grading.Round1(sum / float64(len(students)))
	summary.PassRate = grading.Round1(float64(summary.PassCount) * 100 / float64(len(students)))
	return summary
}

// SummarizeSubject reduces students by their total in subject; missing totals count as 0.
func SummarizeSubject(subject string, students []models.StudentRecord, passMark float64) SubjectSummary {
	summary := SubjectSummary{Subject: subject}
	if len(students) == 0 {
		return summary
	}
	sum := 0.0
	for i, s := range students {
		score := finite(s.SubjectTotals[subject])
		sum += score
		if i == 0 || score > summary.Highest {
			summary.Highest = score
		}
		if i == 0 || score < summary.Lowest {
			summary.Lowest = score
		}
		if score >= passMark {
			summary.PassCount++
		}
	}
	summary.Average = grading.Round1(sum / float64(len(students)))
	return summary
}

// CumulativeAverage is the arithmetic mean of per-term averages, rounded to two decimals.
func CumulativeAverage(averages []float64) float64 {
	if len(averages) == 0 {
		return 0
	}
	sum := 0.0
	for _, avg := range averages {
		sum += finite(avg)
	}
	return grading.Round2(sum / float64(len(averages)))
}

// Promoted reports whether a cumulative average meets the promotion threshold.
func Promoted(cumulative, threshold float64) bool {
	return cumulative >= threshold
}
