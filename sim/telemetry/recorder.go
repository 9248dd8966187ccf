// Package telemetry exports scheduler activity as Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/inference-sim/runway-sim/sim"
)

const namespace = "runway"

var _ sim.Observer = (*Recorder)(nil)

// Recorder implements sim.Observer and keeps its metrics in a private
// registry so several simulations can run in one process.
type Recorder struct {
	registry *prometheus.Registry

	admitted   prometheus.Counter
	scheduled  *prometheus.CounterVec
	cleared    prometheus.Counter
	waiting    prometheus.Gauge
	busy       prometheus.Gauge
	remaining  prometheus.Gauge
	cycle      prometheus.Gauge
	waitCycles *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.admitted = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flights_admitted_total",
		Help:      "Total number of flights admitted into the waiting pool",
	})
	r.scheduled = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flights_scheduled_total",
		Help:      "Total number of flights dispatched onto the runway",
	}, []string{"class"})
	r.cleared = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flights_cleared_total",
		Help:      "Total number of flights that cleared the runway",
	})
	r.waiting = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "waiting_flights",
		Help:      "Number of flights in the waiting pool at the end of the last cycle",
	})
	r.busy = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "busy",
		Help:      "1 if the runway was occupied at the end of the last cycle",
	})
	r.remaining = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "remaining_service_cycles",
		Help:      "Service cycles left for the current occupant",
	})
	r.cycle = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cycle",
		Help:      "Last completed simulation cycle",
	})
	r.waitCycles = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "wait_cycles",
		Help:      "Waiting time in cycles at dispatch",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"class"})

	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func (r *Recorder) OnAdmit(_ *sim.Request, _ int) {
	r.admitted.Inc()
}

func (r *Recorder) OnSchedule(ev sim.ScheduledEvent) {
	class := ev.Class.String()
	r.scheduled.WithLabelValues(class).Inc()
	r.waitCycles.WithLabelValues(class).Observe(float64(ev.WaitingTime))
}

func (r *Recorder) OnClear(_ sim.ClearedEvent) {
	r.cleared.Inc()
}

func (r *Recorder) OnCycleEnd(report sim.CycleReport) {
	snap := report.Snapshot
	r.cycle.Set(float64(report.Cycle))
	r.waiting.Set(float64(len(snap.Waiting)))
	r.remaining.Set(float64(snap.Remaining))
	if snap.Status == sim.RunwayBusy {
		r.busy.Set(1)
	} else {
		r.busy.Set(0)
	}
}
