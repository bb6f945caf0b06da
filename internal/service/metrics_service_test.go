package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads one sample from the registry, matching every given label.
func counterValue(t *testing.T, metrics *MetricsService, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want == pair.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			if metric.GetHistogram() != nil {
				return float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return 0
}

func TestMetricsServiceRecordsDomainCounters(t *testing.T) {
	metrics := NewMetricsService()

	metrics.RecordDispatch("whatsapp", 3, 1)
	metrics.RecordExport("class_summary", "pdf")
	metrics.RecordExport("class_summary", "pdf")
	metrics.ObserveRanking(30, time.Millisecond)
	metrics.ObserveHTTPRequest("GET", "/api/v1/results/:id/rankings", 200, 5*time.Millisecond)

	assert.Equal(t, 3.0, counterValue(t, metrics, "dispatch_links_total", map[string]string{"method": "whatsapp", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, metrics, "dispatch_links_total", map[string]string{"method": "whatsapp", "outcome": "failed"}))
	assert.Equal(t, 2.0, counterValue(t, metrics, "exports_total", map[string]string{"kind": "class_summary", "format": "pdf"}))
	assert.Equal(t, 30.0, counterValue(t, metrics, "ranked_students_total", nil))
	assert.Equal(t, 1.0, counterValue(t, metrics, "ranking_computation_seconds", nil))
	assert.Equal(t, 1.0, counterValue(t, metrics, "http_requests_total", map[string]string{"status": "200"}))
}

func TestMetricsServiceHandler(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordExport("student_sheet", "csv")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `exports_total{format="csv",kind="student_sheet"} 1`)

	var disabled *MetricsService
	rec = httptest.NewRecorder()
	disabled.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	disabled.RecordDispatch("email", 1, 0)
	assert.Nil(t, disabled.Registry())
}
