// Implements the WaitingPool, which holds all flights admitted but not yet
// dispatched onto the runway.

package sim

import (
	"fmt"
	"sort"
	"strings"
)

// WaitingPool is an unordered set of waiting requests. Ordering is computed on
// demand: the total order is priority (descending), then arrival cycle
// (ascending), then insertion order (ascending).
type WaitingPool struct {
	policy  PriorityPolicy
	items   []*Request
	nextSeq uint64
}

// NewWaitingPool creates an empty pool scored by policy.
// Panics if policy is nil.
func NewWaitingPool(policy PriorityPolicy) *WaitingPool {
	if policy == nil {
		panic("NewWaitingPool: policy must not be nil")
	}
	return &WaitingPool{policy: policy}
}

// Insert adds a request with zero waiting time and its arrival priority.
func (wp *WaitingPool) Insert(req *Request) {
	req.WaitingTime = 0
	req.Priority = wp.policy.Compute(req.Class, 0)
	req.State = StateWaiting
	req.seq = wp.nextSeq
	wp.nextSeq++
	wp.items = append(wp.items, req)
}

// AgeAll increments the waiting time of every member by one and recomputes
// its priority.
func (wp *WaitingPool) AgeAll() {
	for _, req := range wp.items {
		req.WaitingTime++
		req.Priority = wp.policy.Compute(req.Class, req.WaitingTime)
	}
}

// ExtractMax removes and returns the highest-ranked request.
// Returns ErrEmptyPool when the pool holds no requests.
func (wp *WaitingPool) ExtractMax() (*Request, error) {
	if len(wp.items) == 0 {
		return nil, ErrEmptyPool
	}
	best := 0
	for i := 1; i < len(wp.items); i++ {
		if ranksBefore(wp.items[i], wp.items[best]) {
			best = i
		}
	}
	req := wp.items[best]
	wp.items = append(wp.items[:best], wp.items[best+1:]...)
	return req, nil
}

// PeekMax returns the highest-ranked request without removing it.
// Returns nil if the pool is empty.
func (wp *WaitingPool) PeekMax() *Request {
	var best *Request
	for _, req := range wp.items {
		if best == nil || ranksBefore(req, best) {
			best = req
		}
	}
	return best
}

// IsEmpty reports whether no request is waiting.
func (wp *WaitingPool) IsEmpty() bool {
	return len(wp.items) == 0
}

// Len returns the number of waiting requests.
func (wp *WaitingPool) Len() int {
	return len(wp.items)
}

// Ordered returns a copy of the members sorted in dispatch order.
// The slice is owned by the caller; the requests are shared.
func (wp *WaitingPool) Ordered() []*Request {
	out := make([]*Request, len(wp.items))
	copy(out, wp.items)
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i], out[j])
	})
	return out
}

func (wp *WaitingPool) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, req := range wp.Ordered() {
		sb.WriteString(fmt.Sprintf("%s:%d", req.ID, req.Priority))
		if i < len(wp.items)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// ranksBefore reports whether a is dispatched before b.
func ranksBefore(a, b *Request) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.ArrivalCycle != b.ArrivalCycle {
		return a.ArrivalCycle < b.ArrivalCycle
	}
	return a.seq < b.seq
}
