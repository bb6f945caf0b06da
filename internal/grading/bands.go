package grading

type band struct {
	min   float64
	grade string
	level string
}

var bands = []band{
	{90, "A+", "Excellent"},
	{80, "A", "Very Good"},
	{70, "B", "Good"},
	{60, "C", "Satisfactory"},
	{50, "D", "Fair"},
}

const (
	failGrade = "F"
	failLevel = "Needs Improvement"
)

// GradeOf maps a score to its letter grade. Scores below 50, negative scores and NaN are F.
func GradeOf(score float64) string {
	for _, b := range bands {
		if score >= b.min {
			return b.grade
		}
	}
	return failGrade
}

// PerformanceLevel maps an average to the remark printed on a result sheet.
func PerformanceLevel(average float64) string {
	for _, b := range bands {
		if average >= b.min {
			return b.level
		}
	}
	return failLevel
}
