// Tracks simulation-wide and per-class runway statistics such as:
// wait cycles at dispatch, completions and runway utilization.

package sim

import (
	"fmt"
	"io"
)

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating the fairness/urgency
// trade-off of a priority configuration.
type Metrics struct {
	AdmittedRequests  int // Number of flights admitted into the pool
	ScheduledRequests int // Number of flights dispatched onto the runway
	CompletedRequests int // Number of flights that cleared the runway
	TotalWaitCycles   int // Sum of waiting time at dispatch
	MaxWaitCycles     int // Longest waiting time at dispatch
	BusyCycles        int // Cycles ending with the runway occupied
	IdleCycles        int // Cycles ending with the runway free
	SimEndedCycle     int // Last cycle executed

	ClassScheduled  map[FlightClass]int // class -> dispatch count
	ClassCompleted  map[FlightClass]int // class -> clearance count
	ClassWaitCycles map[FlightClass]int // class -> summed waiting time at dispatch
	RequestWaits    map[string]int      // flight ID -> waiting time at dispatch
}

// NewMetrics returns a Metrics with initialized maps.
func NewMetrics() *Metrics {
	return &Metrics{
		ClassScheduled:  make(map[FlightClass]int),
		ClassCompleted:  make(map[FlightClass]int),
		ClassWaitCycles: make(map[FlightClass]int),
		RequestWaits:    make(map[string]int),
	}
}

func (m *Metrics) recordDispatch(req *Request) {
	m.ScheduledRequests++
	m.TotalWaitCycles += req.WaitingTime
	m.MaxWaitCycles = max(m.MaxWaitCycles, req.WaitingTime)
	m.ClassScheduled[req.Class]++
	m.ClassWaitCycles[req.Class] += req.WaitingTime
	m.RequestWaits[req.ID] = req.WaitingTime
}

func (m *Metrics) recordClearance(req *Request) {
	m.CompletedRequests++
	m.ClassCompleted[req.Class]++
}

// MeanWait returns the average waiting time at dispatch; 0 before any dispatch.
func (m *Metrics) MeanWait() float64 {
	if m.ScheduledRequests == 0 {
		return 0
	}
	return float64(m.TotalWaitCycles) / float64(m.ScheduledRequests)
}

// ClassMeanWait returns the average waiting time at dispatch for one class.
func (m *Metrics) ClassMeanWait(c FlightClass) float64 {
	n := m.ClassScheduled[c]
	if n == 0 {
		return 0
	}
	return float64(m.ClassWaitCycles[c]) / float64(n)
}

// Utilization returns the fraction of executed cycles with the runway occupied.
func (m *Metrics) Utilization() float64 {
	total := m.BusyCycles + m.IdleCycles
	if total == 0 {
		return 0
	}
	return float64(m.BusyCycles) / float64(total)
}

// Print writes aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Cycles Executed      : %d\n", m.SimEndedCycle)
	fmt.Fprintf(w, "Admitted Flights     : %d\n", m.AdmittedRequests)
	fmt.Fprintf(w, "Completed Flights    : %d\n", m.CompletedRequests)
	if m.ScheduledRequests > 0 {
		fmt.Fprintf(w, "Average Wait         : %.2f cycles\n", m.MeanWait())
		fmt.Fprintf(w, "Max Wait             : %d cycles\n", m.MaxWaitCycles)
		fmt.Fprintf(w, "Runway Utilization   : %.2f%%\n", 100*m.Utilization())
		for _, c := range AllClasses() {
			if m.ClassScheduled[c] == 0 {
				continue
			}
			fmt.Fprintf(w, "  %-15s: %d scheduled, %d cleared, avg wait %.2f cycles\n",
				c.DisplayName(), m.ClassScheduled[c], m.ClassCompleted[c], m.ClassMeanWait(c))
		}
	}
}
