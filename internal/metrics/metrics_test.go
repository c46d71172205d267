package metrics

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Error("New() returned nil")
	}
}

func TestDefault(t *testing.T) {
	m1 := Default()
	m2 := Default()

	if m1 != m2 {
		t.Error("Default() should return same instance")
	}
}

func TestRecordRequest_Success(t *testing.T) {
	m := New()
	m.RecordRequest(true)

	if m.requestsTotal.Load() != 1 {
		t.Error("Total requests not incremented")
	}
	if m.requestsSuccess.Load() != 1 {
		t.Error("Success requests not incremented")
	}
}

func TestRecordRequest_Failure(t *testing.T) {
	m := New()
	m.RecordRequest(false)

	if m.requestsTotal.Load() != 1 {
		t.Error("Total requests not incremented")
	}
	if m.requestsFailed.Load() != 1 {
		t.Error("Failed requests not incremented")
	}
}

func TestRecordToggle(t *testing.T) {
	m := New()
	m.RecordToggle(true)
	m.RecordToggle(true)
	m.RecordToggle(false)

	if m.togglesTotal.Load() != 3 {
		t.Error("Total toggles not incremented")
	}
	if m.dosesMarked.Load() != 2 {
		t.Error("Marked doses not incremented")
	}
	if m.dosesUnmarked.Load() != 1 {
		t.Error("Unmarked doses not incremented")
	}
}

func TestRecordRoute(t *testing.T) {
	m := New()
	m.RecordRoute("/api/schedule")
	m.RecordRoute("/api/schedule")
	m.RecordRoute("/api/stats")

	s := m.Snapshot()
	if s.RouteRequests["/api/schedule"] != 2 {
		t.Error("Route counter wrong")
	}
	if s.RouteRequests["/api/stats"] != 1 {
		t.Error("Route counter wrong")
	}
}

func TestSnapshot_SuccessRate(t *testing.T) {
	m := New()
	m.RecordRequest(true)
	m.RecordRequest(true)
	m.RecordRequest(false)

	s := m.Snapshot()
	want := 2.0 / 3.0
	if s.SuccessRate < want-0.001 || s.SuccessRate > want+0.001 {
		t.Errorf("Success rate = %f, want %f", s.SuccessRate, want)
	}
}

func TestSnapshot_EmptySuccessRate(t *testing.T) {
	m := New()
	s := m.Snapshot()
	if s.SuccessRate != 0 {
		t.Error("Success rate should be 0 with no requests")
	}
}

func TestPrometheus(t *testing.T) {
	m := New()
	m.RecordRequest(true)
	m.RecordToggle(true)
	m.RecordValidationFailure()
	m.RecordReminderSent()

	out := m.Prometheus()

	for _, metric := range []string{
		"caretrack_uptime_seconds",
		"caretrack_requests_total 1",
		"caretrack_toggles_total 1",
		"caretrack_doses_marked 1",
		"caretrack_validation_failures_total 1",
		"caretrack_reminders_sent_total 1",
	} {
		if !strings.Contains(out, metric) {
			t.Errorf("Prometheus output missing %q", metric)
		}
	}
}

func TestPrometheus_RouteLabels(t *testing.T) {
	m := New()
	m.RecordRoute("/api/health")

	out := m.Prometheus()
	if !strings.Contains(out, `caretrack_route_requests_total{route="/api/health"} 1`) {
		t.Error("Prometheus output missing route label")
	}
}
