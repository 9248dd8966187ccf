// Defines the Request struct that models an individual flight in the simulation.
// Tracks identity, runway demand, aging state and lifecycle cycle stamps.

package sim

import (
	"fmt"
)

// RequestState represents the lifecycle state of a request.
type RequestState string

const (
	StateWaiting   RequestState = "waiting"
	StateOccupying RequestState = "occupying"
	StateCleared   RequestState = "cleared"
)

// Request models a single flight's lifecycle in the simulation.
// ID, Class, ArrivalCycle and ServiceDuration are fixed at creation; the
// remaining fields are owned by the WaitingPool, Runway and Scheduler.
type Request struct {
	ID              string      // Unique identifier assigned by the admitting driver
	Class           FlightClass // Category determining base priority
	ArrivalCycle    int         // Logical cycle the driver reports as the arrival
	ServiceDuration int         // Cycles the flight holds the runway once scheduled

	WaitingTime int          // Cycles spent admitted but unserved
	Priority    int          // Recomputed every cycle from Class and WaitingTime
	State       RequestState // waiting, occupying, cleared

	AdmittedCycle  int // Cycle boundary at which the request entered the pool
	ScheduledCycle int // Cycle the request was dispatched onto the runway
	ClearedCycle   int // Cycle the request vacated the runway

	seq uint64 // insertion order in the pool, final tie-break
}

// NewRequest creates a waiting Request with the given identity and demand.
// Scheduling state is zero until the request is inserted into a WaitingPool.
func NewRequest(id string, class FlightClass, arrivalCycle, serviceDuration int) *Request {
	return &Request{
		ID:              id,
		Class:           class,
		ArrivalCycle:    arrivalCycle,
		ServiceDuration: serviceDuration,
		State:           StateWaiting,
	}
}

// Validate checks the admission-time fields. It never clamps or defaults.
func (req *Request) Validate() error {
	if req.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidRequest)
	}
	if !req.Class.IsValid() {
		return fmt.Errorf("%w: flight %s: unknown class %d", ErrInvalidRequest, req.ID, int(req.Class))
	}
	if req.ServiceDuration <= 0 {
		return fmt.Errorf("%w: flight %s: service duration must be positive, got %d", ErrInvalidRequest, req.ID, req.ServiceDuration)
	}
	if req.ArrivalCycle < 0 {
		return fmt.Errorf("%w: flight %s: arrival cycle must be non-negative, got %d", ErrInvalidRequest, req.ID, req.ArrivalCycle)
	}
	return nil
}

// This method returns a human-readable string representation of a Request.
func (req Request) String() string {
	return fmt.Sprintf("Flight: (ID: %s, Class: %s, State: %s, Wait: %d, Priority: %d)",
		req.ID, req.Class, req.State, req.WaitingTime, req.Priority)
}
