package prometheus

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/portos/go-osal/core"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("osal", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordTaskCreated("blink")
	exporter.RecordTaskDeleted("blink", 1500*time.Millisecond)
	exporter.RecordSuspendWait("blink", 40*time.Millisecond)
	exporter.RecordDegradedScheduling("blink")
	exporter.RecordStalledTask("blink")

	if got := testutil.ToFloat64(exporter.tasksCreatedTotal.WithLabelValues("blink")); got != 1 {
		t.Fatalf("created total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.tasksDeletedTotal.WithLabelValues("blink")); got != 1 {
		t.Fatalf("deleted total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.degradedSchedTotal.WithLabelValues("blink")); got != 1 {
		t.Fatalf("degraded total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.stalledTotal.WithLabelValues("blink")); got != 1 {
		t.Fatalf("stalled total = %v, want 1", got)
	}

	waitCount, err := histogramSampleCount(exporter.suspendWaitSecs.WithLabelValues("blink"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if waitCount != 1 {
		t.Fatalf("suspend wait sample count = %d, want 1", waitCount)
	}
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("osal", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("osal", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordTaskCreated("blink")
	second.RecordTaskCreated("blink")

	if got := testutil.ToFloat64(first.tasksCreatedTotal.WithLabelValues("blink")); got != 2 {
		t.Fatalf("shared created counter = %v, want 2", got)
	}
}

func TestSnapshotPoller_Poll(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, time.Hour)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.Track("main", staticStats{core.KernelStats{
		Capacity: 8, Bound: 3, Running: 2, Waiting: 1,
	}})
	poller.Poll()

	if got := testutil.ToFloat64(poller.bound.WithLabelValues("main")); got != 3 {
		t.Fatalf("bound gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(poller.waiting.WithLabelValues("main")); got != 1 {
		t.Fatalf("waiting gauge = %v, want 1", got)
	}

	poller.Untrack("main")
	poller.Poll()
	if got := testutil.CollectAndCount(poller.bound); got != 0 {
		t.Fatalf("bound series after Untrack = %d, want 0", got)
	}
}

type staticStats struct{ s core.KernelStats }

func (p staticStats) Stats() core.KernelStats { return p.s }

func histogramSampleCount(observer prom.Observer) (uint64, error) {
	collector, ok := observer.(prom.Collector)
	if !ok {
		return 0, nil
	}

	metricCh := make(chan prom.Metric, 1)
	collector.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}
