package metrics

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Metrics struct {
	startTime time.Time

	requestsTotal   atomic.Int64
	requestsSuccess atomic.Int64
	requestsFailed  atomic.Int64

	togglesTotal  atomic.Int64
	dosesMarked   atomic.Int64
	dosesUnmarked atomic.Int64

	validationFailures atomic.Int64

	remindersSent atomic.Int64

	routeRequests map[string]*atomic.Int64
	routeLock     sync.Mutex
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

func New() *Metrics {
	return &Metrics{
		startTime:     time.Now(),
		routeRequests: make(map[string]*atomic.Int64),
	}
}

func (m *Metrics) RecordRequest(success bool) {
	m.requestsTotal.Add(1)
	if success {
		m.requestsSuccess.Add(1)
	} else {
		m.requestsFailed.Add(1)
	}
}

func (m *Metrics) RecordToggle(taken bool) {
	m.togglesTotal.Add(1)
	if taken {
		m.dosesMarked.Add(1)
	} else {
		m.dosesUnmarked.Add(1)
	}
}

func (m *Metrics) RecordValidationFailure() {
	m.validationFailures.Add(1)
}

func (m *Metrics) RecordReminderSent() {
	m.remindersSent.Add(1)
}

func (m *Metrics) RecordRoute(route string) {
	m.routeLock.Lock()
	defer m.routeLock.Unlock()

	if m.routeRequests[route] == nil {
		m.routeRequests[route] = &atomic.Int64{}
	}
	m.routeRequests[route].Add(1)
}

type Snapshot struct {
	Uptime             time.Duration    `json:"uptime"`
	RequestsTotal      int64            `json:"requests_total"`
	RequestsSuccess    int64            `json:"requests_success"`
	RequestsFailed     int64            `json:"requests_failed"`
	TogglesTotal       int64            `json:"toggles_total"`
	DosesMarked        int64            `json:"doses_marked"`
	DosesUnmarked      int64            `json:"doses_unmarked"`
	ValidationFailures int64            `json:"validation_failures"`
	RemindersSent      int64            `json:"reminders_sent"`
	RouteRequests      map[string]int64 `json:"route_requests"`
	SuccessRate        float64          `json:"success_rate"`
}

func (m *Metrics) Snapshot() *Snapshot {
	s := &Snapshot{
		Uptime:             time.Since(m.startTime),
		RequestsTotal:      m.requestsTotal.Load(),
		RequestsSuccess:    m.requestsSuccess.Load(),
		RequestsFailed:     m.requestsFailed.Load(),
		TogglesTotal:       m.togglesTotal.Load(),
		DosesMarked:        m.dosesMarked.Load(),
		DosesUnmarked:      m.dosesUnmarked.Load(),
		ValidationFailures: m.validationFailures.Load(),
		RemindersSent:      m.remindersSent.Load(),
		RouteRequests:      make(map[string]int64),
	}

	if s.RequestsTotal > 0 {
		s.SuccessRate = float64(s.RequestsSuccess) / float64(s.RequestsTotal)
	}

	m.routeLock.Lock()
	for route, count := range m.routeRequests {
		s.RouteRequests[route] = count.Load()
	}
	m.routeLock.Unlock()

	return s
}

func (m *Metrics) Prometheus() string {
	var sb strings.Builder

	sb.WriteString("# HELP caretrack_uptime_seconds Time since server start\n")
	sb.WriteString("# TYPE caretrack_uptime_seconds gauge\n")
	sb.WriteString("caretrack_uptime_seconds " + strconv.FormatInt(int64(time.Since(m.startTime).Seconds()), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_requests_total Total number of requests\n")
	sb.WriteString("# TYPE caretrack_requests_total counter\n")
	sb.WriteString("caretrack_requests_total " + strconv.FormatInt(m.requestsTotal.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_requests_success Successful requests\n")
	sb.WriteString("# TYPE caretrack_requests_success counter\n")
	sb.WriteString("caretrack_requests_success " + strconv.FormatInt(m.requestsSuccess.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_requests_failed Failed requests\n")
	sb.WriteString("# TYPE caretrack_requests_failed counter\n")
	sb.WriteString("caretrack_requests_failed " + strconv.FormatInt(m.requestsFailed.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_toggles_total Total intake toggles\n")
	sb.WriteString("# TYPE caretrack_toggles_total counter\n")
	sb.WriteString("caretrack_toggles_total " + strconv.FormatInt(m.togglesTotal.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_doses_marked Doses marked taken\n")
	sb.WriteString("# TYPE caretrack_doses_marked counter\n")
	sb.WriteString("caretrack_doses_marked " + strconv.FormatInt(m.dosesMarked.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_doses_unmarked Doses flipped back to pending\n")
	sb.WriteString("# TYPE caretrack_doses_unmarked counter\n")
	sb.WriteString("caretrack_doses_unmarked " + strconv.FormatInt(m.dosesUnmarked.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_validation_failures_total Requests rejected by validation\n")
	sb.WriteString("# TYPE caretrack_validation_failures_total counter\n")
	sb.WriteString("caretrack_validation_failures_total " + strconv.FormatInt(m.validationFailures.Load(), 10) + "\n\n")

	sb.WriteString("# HELP caretrack_reminders_sent_total Appointment reminders dispatched\n")
	sb.WriteString("# TYPE caretrack_reminders_sent_total counter\n")
	sb.WriteString("caretrack_reminders_sent_total " + strconv.FormatInt(m.remindersSent.Load(), 10) + "\n\n")

	m.routeLock.Lock()
	if len(m.routeRequests) > 0 {
		sb.WriteString("# HELP caretrack_route_requests_total Requests per route\n")
		sb.WriteString("# TYPE caretrack_route_requests_total counter\n")
		for route, count := range m.routeRequests {
			sb.WriteString("caretrack_route_requests_total{route=\"" + route + "\"} " + strconv.FormatInt(count.Load(), 10) + "\n")
		}
		sb.WriteString("\n")
	}
	m.routeLock.Unlock()

	return sb.String()
}

func Prometheus() string {
	return Default().Prometheus()
}
