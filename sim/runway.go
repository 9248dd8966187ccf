package sim

import "fmt"

// Runway is the single exclusive resource. It is either free or occupied by
// exactly one request with a positive number of service cycles remaining.
// Occupants are never preempted.
type Runway struct {
	occupant  *Request
	remaining int
}

// Occupy places req on a free runway for req.ServiceDuration cycles.
// Returns ErrAlreadyOccupied if another request holds the runway.
func (r *Runway) Occupy(req *Request) error {
	if r.occupant != nil {
		return fmt.Errorf("occupy %s: held by %s with %d cycles left: %w",
			req.ID, r.occupant.ID, r.remaining, ErrAlreadyOccupied)
	}
	if req.ServiceDuration <= 0 {
		return fmt.Errorf("%w: occupy %s: service duration must be positive, got %d",
			ErrInvalidRequest, req.ID, req.ServiceDuration)
	}
	r.occupant = req
	r.remaining = req.ServiceDuration
	req.State = StateOccupying
	return nil
}

// Tick advances the occupant by one cycle of service. When service completes
// the runway becomes free and the finished request is returned. Returns nil
// if the runway was free or the occupant still has cycles left.
func (r *Runway) Tick() *Request {
	if r.occupant == nil {
		return nil
	}
	r.remaining--
	if r.remaining > 0 {
		return nil
	}
	done := r.occupant
	r.occupant = nil
	r.remaining = 0
	done.State = StateCleared
	return done
}

// IsFree reports whether no request holds the runway.
func (r *Runway) IsFree() bool {
	return r.occupant == nil
}

// Occupant returns the request on the runway, or nil when free.
func (r *Runway) Occupant() *Request {
	return r.occupant
}

// Remaining returns the service cycles left for the occupant; 0 when free.
func (r *Runway) Remaining() int {
	return r.remaining
}
