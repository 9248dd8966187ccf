package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/runway-sim/sim/trace"
)

// Config holds the collaborators of a Scheduler. Zero values are usable:
// a nil Priority selects DefaultPriority, a nil Arrivals disables in-cycle
// admission, and an empty trace level disables tracing.
type Config struct {
	Priority  PriorityPolicy
	Arrivals  ArrivalSource
	Observers []Observer
	Trace     trace.TraceConfig
}

// Scheduler owns the waiting pool and the runway and advances them one
// logical cycle at a time. It is single-threaded: callers MUST NOT invoke its
// methods concurrently.
type Scheduler struct {
	cycle     int
	pool      *WaitingPool
	runway    *Runway
	arrivals  ArrivalSource
	observers []Observer

	Metrics *Metrics
	Trace   *trace.SimulationTrace // nil when tracing is disabled
}

// NewScheduler creates an idle Scheduler at cycle 0.
func NewScheduler(cfg Config) *Scheduler {
	policy := cfg.Priority
	if policy == nil {
		policy = DefaultPriority()
	}
	s := &Scheduler{
		pool:      NewWaitingPool(policy),
		runway:    &Runway{},
		arrivals:  cfg.Arrivals,
		observers: cfg.Observers,
		Metrics:   NewMetrics(),
	}
	if cfg.Trace.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.Trace)
	}
	return s
}

// Submit admits a flight at the current cycle boundary. The flight is eligible
// for dispatch in the next cycle and receives its first aging tick there.
// Returns an error wrapping ErrInvalidRequest for malformed input.
func (s *Scheduler) Submit(id string, class FlightClass, arrivalCycle, serviceDuration int) error {
	return s.admit(Submission{
		ID:              id,
		Class:           class,
		ArrivalCycle:    arrivalCycle,
		ServiceDuration: serviceDuration,
	})
}

func (s *Scheduler) admit(sub Submission) error {
	req := NewRequest(sub.ID, sub.Class, sub.ArrivalCycle, sub.ServiceDuration)
	if err := req.Validate(); err != nil {
		if s.Trace != nil {
			s.Trace.RecordAdmission(trace.AdmissionRecord{
				RequestID: sub.ID, Class: sub.Class.String(), Cycle: s.cycle, Reason: err.Error(),
			})
		}
		return err
	}
	req.AdmittedCycle = s.cycle
	s.pool.Insert(req)
	s.Metrics.AdmittedRequests++

	logrus.Infof("[cycle %03d] Flight %s (%s) has entered the system and is waiting", s.cycle, req.ID, req.Class.DisplayName())
	if s.Trace != nil {
		s.Trace.RecordAdmission(trace.AdmissionRecord{
			RequestID: req.ID, Class: req.Class.String(), Cycle: s.cycle, Admitted: true,
		})
	}
	for _, o := range s.observers {
		o.OnAdmit(req, s.cycle)
	}
	return nil
}

// Advance runs one cycle: runway tick, aging, in-cycle admission, dispatch,
// snapshot. Advancing an idle, empty system is a valid no-op cycle.
// Panics if the pool or runway report an invariant violation.
func (s *Scheduler) Advance() CycleReport {
	s.cycle++
	report := CycleReport{Cycle: s.cycle}

	if done := s.runway.Tick(); done != nil {
		ev := s.clear(done)
		report.Cleared = &ev
	}

	s.pool.AgeAll()
	logrus.Debugf("[cycle %03d] aged %d waiting flights: %v", s.cycle, s.pool.Len(), s.pool)

	if s.arrivals != nil {
		for _, sub := range s.arrivals.Arrivals(s.cycle) {
			if err := s.admit(sub); err != nil {
				logrus.Warnf("[cycle %03d] rejected arrival %q: %v", s.cycle, sub.ID, err)
				report.Rejected = append(report.Rejected, Rejection{ID: sub.ID, Reason: err.Error()})
				continue
			}
			report.Admitted = append(report.Admitted, sub.ID)
		}
	}

	if s.runway.IsFree() && !s.pool.IsEmpty() {
		ev := s.dispatch()
		report.Scheduled = &ev
	}

	if s.runway.IsFree() {
		s.Metrics.IdleCycles++
	} else {
		s.Metrics.BusyCycles++
	}
	s.Metrics.SimEndedCycle = s.cycle

	report.Snapshot = s.Snapshot()
	for _, o := range s.observers {
		o.OnCycleEnd(report)
	}
	return report
}

func (s *Scheduler) clear(done *Request) ClearedEvent {
	done.ClearedCycle = s.cycle
	ev := ClearedEvent{
		ID:              done.ID,
		Class:           done.Class,
		Cycle:           s.cycle,
		ServiceDuration: done.ServiceDuration,
	}
	s.Metrics.recordClearance(done)
	logrus.Infof("[cycle %03d] Flight %s has cleared the runway", s.cycle, done.ID)
	if s.Trace != nil {
		s.Trace.RecordClearance(trace.ClearanceRecord{
			RequestID:  done.ID,
			Cycle:      s.cycle,
			Turnaround: s.cycle - done.AdmittedCycle,
		})
	}
	for _, o := range s.observers {
		o.OnClear(ev)
	}
	return ev
}

func (s *Scheduler) dispatch() ScheduledEvent {
	contenders := s.pool.Len()
	req, err := s.pool.ExtractMax()
	if err != nil {
		panic(fmt.Sprintf("dispatch at cycle %d: %v", s.cycle, err))
	}
	if err := s.runway.Occupy(req); err != nil {
		panic(fmt.Sprintf("dispatch at cycle %d: %v", s.cycle, err))
	}
	req.ScheduledCycle = s.cycle

	ev := ScheduledEvent{
		ID:          req.ID,
		Class:       req.Class,
		Cycle:       s.cycle,
		WaitingTime: req.WaitingTime,
		Priority:    req.Priority,
	}
	s.Metrics.recordDispatch(req)
	logrus.Infof("[cycle %03d] Scheduling flight %s onto the runway (priority %d, waited %d cycles)",
		s.cycle, req.ID, req.Priority, req.WaitingTime)

	if s.Trace != nil {
		record := trace.DispatchRecord{
			RequestID:   req.ID,
			Class:       req.Class.String(),
			Cycle:       s.cycle,
			WaitingTime: req.WaitingTime,
			Priority:    req.Priority,
			Contenders:  contenders,
		}
		if next := s.pool.PeekMax(); next != nil {
			record.RunnerUpID = next.ID
			record.RunnerUpPriority = next.Priority
			record.Margin = req.Priority - next.Priority
		}
		s.Trace.RecordDispatch(record)
	}
	for _, o := range s.observers {
		o.OnSchedule(ev)
	}
	return ev
}

// Snapshot returns a read-only copy of the current runway and pool state.
func (s *Scheduler) Snapshot() Snapshot {
	snap := Snapshot{
		Cycle:   s.cycle,
		Status:  RunwayFree,
		Waiting: make([]FlightView, 0, s.pool.Len()),
	}
	if occ := s.runway.Occupant(); occ != nil {
		v := viewOf(occ)
		snap.Status = RunwayBusy
		snap.Occupant = &v
		snap.Remaining = s.runway.Remaining()
	}
	for _, req := range s.pool.Ordered() {
		snap.Waiting = append(snap.Waiting, viewOf(req))
	}
	return snap
}

// HasPendingWork reports whether the runway is occupied or any flight is waiting.
func (s *Scheduler) HasPendingWork() bool {
	return !s.runway.IsFree() || !s.pool.IsEmpty()
}

// Cycle returns the number of cycles completed so far.
func (s *Scheduler) Cycle() int {
	return s.cycle
}
