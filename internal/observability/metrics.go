package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	MessagesTotal        *prometheus.CounterVec
	RepliesTotal         *prometheus.CounterVec
	ReplyLatency         *prometheus.HistogramVec
	ReplyFailures        *prometheus.CounterVec
	PersistenceFallbacks *prometheus.CounterVec
	CrisisDetections     prometheus.Counter
	MoodCheckIns         *prometheus.CounterVec
	ActiveCompanions     prometheus.Gauge
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "innerguide_chat_messages_total",
			Help: "Chat messages appended to a session, by role",
		}, []string{"role"}),

		RepliesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "innerguide_replies_total",
			Help: "Assistant replies by the source that produced them",
		}, []string{"source"}),

		ReplyLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "innerguide_reply_duration_seconds",
			Help:    "Time to acquire an assistant reply",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),

		ReplyFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "innerguide_reply_failures_total",
			Help: "Responder attempts that failed and passed on to the next one",
		}, []string{"source"}),

		PersistenceFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "innerguide_persistence_fallbacks_total",
			Help: "Remote store failures recovered through the local store",
		}, []string{"op"}),

		CrisisDetections: f.NewCounter(prometheus.CounterOpts{
			Name: "innerguide_crisis_detections_total",
			Help: "User messages that matched a crisis phrase",
		}),

		MoodCheckIns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "innerguide_mood_checkins_total",
			Help: "Mood submissions by selected strategy",
		}, []string{"strategy"}),

		ActiveCompanions: f.NewGauge(prometheus.GaugeOpts{
			Name: "innerguide_active_companions",
			Help: "Per-user companions currently held in memory",
		}),
	}
}

func (m *Metrics) ObserveMessage(role string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(role).Inc()
}

func (m *Metrics) ObserveReply(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(source).Inc()
	m.ReplyLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveReplyFailure(source string) {
	if m == nil {
		return
	}
	m.ReplyFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveFallback(op string) {
	if m == nil {
		return
	}
	m.PersistenceFallbacks.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveCrisis() {
	if m == nil {
		return
	}
	m.CrisisDetections.Inc()
}

func (m *Metrics) ObserveMood(strategy string) {
	if m == nil {
		return
	}
	m.MoodCheckIns.WithLabelValues(strategy).Inc()
}

func (m *Metrics) SetActiveCompanions(n int) {
	if m == nil {
		return
	}
	m.ActiveCompanions.Set(float64(n))
}
