package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/portos/go-osal/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// StatsProvider provides current kernel stats snapshots.
type StatsProvider interface {
	Stats() core.KernelStats
}

// SnapshotPoller periodically exports kernel Stats() snapshots into
// Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	kernelsMu sync.RWMutex
	kernels   map[string]StatsProvider

	capacity *prom.GaugeVec
	bound    *prom.GaugeVec
	running  *prom.GaugeVec
	waiting  *prom.GaugeVec
	degraded *prom.GaugeVec

	stateMu sync.Mutex
	active  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	p := &SnapshotPoller{
		interval: interval,
		kernels:  make(map[string]StatsProvider),
		capacity: newKernelGauge("slot_capacity", "Fixed number of task slots."),
		bound:    newKernelGauge("tasks_bound", "Currently bound task slots."),
		running:  newKernelGauge("tasks_running", "Tasks in the running state."),
		waiting:  newKernelGauge("tasks_waiting", "Tasks parked by a cooperative suspend."),
		degraded: newKernelGauge("tasks_degraded", "Tasks running under a degraded scheduling class."),
	}

	for _, c := range []prom.Collector{p.capacity, p.bound, p.running, p.waiting, p.degraded} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newKernelGauge(name, help string) *prom.GaugeVec {
	return prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "osal",
		Name:      name,
		Help:      help,
	}, []string{"kernel"})
}

// Track registers a kernel under the given label.
func (p *SnapshotPoller) Track(label string, provider StatsProvider) {
	p.kernelsMu.Lock()
	p.kernels[label] = provider
	p.kernelsMu.Unlock()
}

// Untrack removes a kernel and deletes its gauge series.
func (p *SnapshotPoller) Untrack(label string) {
	p.kernelsMu.Lock()
	delete(p.kernels, label)
	p.kernelsMu.Unlock()

	labels := prom.Labels{"kernel": label}
	p.capacity.Delete(labels)
	p.bound.Delete(labels)
	p.running.Delete(labels)
	p.waiting.Delete(labels)
	p.degraded.Delete(labels)
}

// Start begins periodic polling. Calling Start on a running poller is a
// no-op.
func (p *SnapshotPoller) Start() {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if p.active {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.active = true

	go p.loop(ctx)
}

// Stop halts polling and waits for the poll loop to exit.
func (p *SnapshotPoller) Stop() {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if !p.active {
		return
	}
	p.cancel()
	<-p.done
	p.active = false
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll takes one snapshot of every tracked kernel immediately.
func (p *SnapshotPoller) Poll() {
	p.kernelsMu.RLock()
	defer p.kernelsMu.RUnlock()

	for label, provider := range p.kernels {
		s := provider.Stats()
		p.capacity.WithLabelValues(label).Set(float64(s.Capacity))
		p.bound.WithLabelValues(label).Set(float64(s.Bound))
		p.running.WithLabelValues(label).Set(float64(s.Running))
		p.waiting.WithLabelValues(label).Set(float64(s.Waiting))
		p.degraded.WithLabelValues(label).Set(float64(s.Degraded))
	}
}
