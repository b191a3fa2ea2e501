package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	for i := 1; i <= 100; i++ {
		r.Observe("/grayscale", 200, time.Duration(i)*time.Millisecond)
	}
	r.Observe("/api/live", 500, 2*time.Second)

	stats := r.Snapshot()
	require.Len(t, stats, 2)

	assert.Equal(t, "/api/live", stats[0].Route)
	assert.Equal(t, int64(1), stats[0].Count)

	gray := stats[1]
	assert.Equal(t, "/grayscale", gray.Route)
	assert.Equal(t, int64(100), gray.Count)
	assert.InDelta(t, float64(50*time.Millisecond), float64(gray.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(gray.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(gray.Max), float64(time.Millisecond))
	assert.InDelta(t, float64(time.Millisecond), float64(gray.Min), float64(10*time.Microsecond))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("/api/live", "500")))
	assert.Equal(t, 100.0, testutil.ToFloat64(r.requests.WithLabelValues("/grayscale", "200")))
}

func TestRecorderClampsOutOfRange(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.Observe("/", 200, 0)
	r.Observe("/", 200, time.Hour)

	stats := r.Snapshot()
	require.Len(t, stats, 1)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.LessOrEqual(t, stats[0].Max, time.Minute+time.Second)
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Observe("/ultrasonic", 200, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), r.Snapshot()[0].Count)
}

func TestChartPage(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.ChartPage("grayChart", "rendered")
	r.ChartPage("grayChart", "rendered")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.charts.WithLabelValues("grayChart", "rendered")))
}
