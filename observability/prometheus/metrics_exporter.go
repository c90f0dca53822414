package prometheus

import (
	"errors"
	"time"

	"github.com/portos/go-osal/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	SuspendWaitBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	tasksCreatedTotal  *prom.CounterVec
	tasksDeletedTotal  *prom.CounterVec
	taskLifetimeSecs   *prom.HistogramVec
	suspendWaitSecs    *prom.HistogramVec
	degradedSchedTotal *prom.CounterVec
	stalledTotal       *prom.CounterVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for
// core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "osal"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	waitBuckets := opts.SuspendWaitBuckets
	if len(waitBuckets) == 0 {
		waitBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	createdVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Number of tasks created.",
	}, []string{"task"})
	deletedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Number of tasks deleted (stopped, joined and released).",
	}, []string{"task"})
	lifetimeVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_lifetime_seconds",
		Help:      "Task lifetime from creation to deletion.",
		Buckets:   prom.ExponentialBuckets(0.01, 4, 10),
	}, []string{"task"})
	suspendVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "suspend_wait_seconds",
		Help:      "Time tasks spent parked at a checkpoint awaiting resume.",
		Buckets:   waitBuckets,
	}, []string{"task"})
	degradedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_scheduling_total",
		Help:      "Elevated scheduling requests that fell back to time-shared.",
	}, []string{"task"})
	stalledVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stalled_tasks_total",
		Help:      "Watchdog reports of running tasks past the checkpoint bound.",
	}, []string{"task"})

	e := &MetricsExporter{
		tasksCreatedTotal:  createdVec,
		tasksDeletedTotal:  deletedVec,
		taskLifetimeSecs:   lifetimeVec,
		suspendWaitSecs:    suspendVec,
		degradedSchedTotal: degradedVec,
		stalledTotal:       stalledVec,
	}

	collectors := []prom.Collector{
		createdVec, deletedVec, lifetimeVec, suspendVec, degradedVec, stalledVec,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prom.AlreadyRegisteredError
			if errors.As(err, &are) {
				// Reuse the collector registered by a previous exporter.
				switch i {
				case 0:
					e.tasksCreatedTotal = are.ExistingCollector.(*prom.CounterVec)
				case 1:
					e.tasksDeletedTotal = are.ExistingCollector.(*prom.CounterVec)
				case 2:
					e.taskLifetimeSecs = are.ExistingCollector.(*prom.HistogramVec)
				case 3:
					e.suspendWaitSecs = are.ExistingCollector.(*prom.HistogramVec)
				case 4:
					e.degradedSchedTotal = are.ExistingCollector.(*prom.CounterVec)
				case 5:
					e.stalledTotal = are.ExistingCollector.(*prom.CounterVec)
				}
				continue
			}
			return nil, err
		}
	}
	return e, nil
}

// RecordTaskCreated increments the creation counter.
func (e *MetricsExporter) RecordTaskCreated(name string) {
	e.tasksCreatedTotal.WithLabelValues(name).Inc()
}

// RecordTaskDeleted increments the deletion counter and observes lifetime.
func (e *MetricsExporter) RecordTaskDeleted(name string, lifetime time.Duration) {
	e.tasksDeletedTotal.WithLabelValues(name).Inc()
	e.taskLifetimeSecs.WithLabelValues(name).Observe(lifetime.Seconds())
}

// RecordSuspendWait observes time parked awaiting resume.
func (e *MetricsExporter) RecordSuspendWait(name string, d time.Duration) {
	e.suspendWaitSecs.WithLabelValues(name).Observe(d.Seconds())
}

// RecordDegradedScheduling counts elevated-class fallbacks.
func (e *MetricsExporter) RecordDegradedScheduling(name string) {
	e.degradedSchedTotal.WithLabelValues(name).Inc()
}

// RecordStalledTask counts watchdog stall reports.
func (e *MetricsExporter) RecordStalledTask(name string) {
	e.stalledTotal.WithLabelValues(name).Inc()
}
