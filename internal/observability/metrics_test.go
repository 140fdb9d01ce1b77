package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/innerguide/internal/observability"
)

func TestMetricsCounters(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())

	m.ObserveMessage("user")
	m.ObserveMessage("user")
	m.ObserveReply("canned", 1500*time.Millisecond)
	m.ObserveFallback("append")
	m.ObserveReplyFailure("completion")
	m.ObserveCrisis()
	m.ObserveMood("anxiety")
	m.SetActiveCompanions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("canned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFallbacks.WithLabelValues("append")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReplyFailures.WithLabelValues("completion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CrisisDetections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MoodCheckIns.WithLabelValues("anxiety")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveCompanions))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.ObserveMessage("user")
		m.ObserveReply("completion", time.Second)
		m.ObserveFallback("load")
		m.ObserveReplyFailure("completion")
		m.ObserveCrisis()
		m.ObserveMood("neutral")
		m.SetActiveCompanions(1)
	})
}

func TestLoggerFromContextCarriesIDs(t *testing.T) {
	observability.Discard()
	ctx := observability.WithRequestID(context.Background(), "req-1")
	ctx = observability.WithUserID(ctx, "u-1")
	assert.NotNil(t, observability.LoggerFromContext(ctx))
	assert.NotNil(t, observability.LoggerFromContext(context.Background()))
}
