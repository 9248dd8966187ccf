package sim

// ClearedEvent reports a flight vacating the runway after its service completed.
type ClearedEvent struct {
	ID              string
	Class           FlightClass
	Cycle           int // cycle in which the runway was freed
	ServiceDuration int
}

// ScheduledEvent reports a flight dispatched onto the runway.
type ScheduledEvent struct {
	ID          string
	Class       FlightClass
	Cycle       int
	WaitingTime int // waiting cycles accrued before dispatch
	Priority    int // priority at dispatch
}

// Rejection records an in-cycle arrival that failed admission validation.
type Rejection struct {
	ID     string
	Reason string
}

// RunwayStatus is the display status of the runway.
type RunwayStatus string

const (
	RunwayFree RunwayStatus = "free"
	RunwayBusy RunwayStatus = "busy"
)

// FlightView is a read-only copy of a request's scheduling state.
type FlightView struct {
	ID          string
	Class       FlightClass
	WaitingTime int
	Priority    int
}

// Snapshot is a read-only copy of scheduler state after a cycle.
// Waiting is sorted in dispatch order (priority descending).
type Snapshot struct {
	Cycle     int
	Status    RunwayStatus
	Occupant  *FlightView // nil when the runway is free
	Remaining int         // service cycles left for the occupant
	Waiting   []FlightView
}

// CycleReport is returned by Scheduler.Advance for the driver to render.
type CycleReport struct {
	Cycle     int
	Cleared   *ClearedEvent   // nil when nothing cleared this cycle
	Admitted  []string        // IDs of in-cycle arrivals, in admission order
	Rejected  []Rejection     // in-cycle arrivals that failed validation
	Scheduled *ScheduledEvent // nil when nothing was dispatched this cycle
	Snapshot  Snapshot
}

// Submission describes a flight presented for admission.
type Submission struct {
	ID              string
	Class           FlightClass
	ArrivalCycle    int
	ServiceDuration int
}

// ArrivalSource supplies the flights that arrive during a cycle. The Scheduler
// calls Arrivals once per cycle, after aging and before dispatch.
type ArrivalSource interface {
	Arrivals(cycle int) []Submission
}

// Observer receives scheduler callbacks. Implementations MUST NOT mutate the
// request passed to OnAdmit.
type Observer interface {
	OnAdmit(req *Request, cycle int)
	OnSchedule(ev ScheduledEvent)
	OnClear(ev ClearedEvent)
	OnCycleEnd(report CycleReport)
}

func viewOf(req *Request) FlightView {
	return FlightView{
		ID:          req.ID,
		Class:       req.Class,
		WaitingTime: req.WaitingTime,
		Priority:    req.Priority,
	}
}
