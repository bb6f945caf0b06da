package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/result-magic-api/internal/models"
)

func TestSummarizeClass(t *testing.T) {
	students := []models.StudentRecord{
		{ID: "a", Average: 82.5, OverallTotal: 247.5},
		{ID: "b", Average: 59.99, OverallTotal: 179.97},
		{ID: "c", Average: 60, OverallTotal: 180},
	}

	summary := SummarizeClass(students, DefaultPassMark)

	assert.Equal(t, 3, summary.StudentCount)
	assert.Equal(t, 67.5, summary.ClassAverage)
	assert.Equal(t, 247.5, summary.HighestTotal)
	assert.Equal(t, 179.97, summary.LowestTotal)
	assert.Equal(t, 82.5, summary.HighestAverage)
	assert.Equal(t, 59.99, summary.LowestAverage)
	assert.Equal(t, 2, summary.PassCount)
	assert.Equal(t, 1, summary.FailCount)
	assert.Equal(t, 66.7, summary.PassRate)
}

func TestSummarizeClassEmpty(t *testing.T) {
	assert.Equal(t, ClassSummary{}, SummarizeClass(nil, DefaultPassMark))
}

func TestSummarizeSubject(t *testing.T) {
	students := []models.StudentRecord{
		{ID: "a", SubjectTotals: map[string]float64{"Math": 75}},
		{ID: "b", SubjectTotals: map[string]float64{"Math": 42}},
		{ID: "c"},
	}

	summary := SummarizeSubject("Math", students, DefaultPassMark)

	assert.Equal(t, SubjectSummary{Subject: "Math", Average: 39, Highest: 75, Lowest: 0, PassCount: 1}, summary)
	assert.Equal(t, SubjectSummary{Subject: "Math"}, SummarizeSubject("Math", nil, DefaultPassMark))
}

func TestCumulativeAverageAndPromotion(t *testing.T) {
	assert.Equal(t, 0.0, CumulativeAverage(nil))
	assert.Equal(t, 61.67, CumulativeAverage([]float64{55, 60, 70}))

	assert.True(t, Promoted(50, DefaultPromotionThreshold))
	assert.False(t, Promoted(49.99, DefaultPromotionThreshold))
}
