package sim

import (
	"fmt"
)

// PriorityPolicy computes a priority score for a waiting flight.
// Higher scores indicate higher priority (dispatched first).
// Implementations MUST be pure: the same inputs always give the same score.
type PriorityPolicy interface {
	Compute(class FlightClass, waitingTime int) int
}

// ClassAgingPriority assigns a per-class base score and adds a linear aging term.
// Formula: Base[class] + AgingRate * waitingTime
//
// The base table spacing against AgingRate is the fairness/urgency trade-off:
// with the defaults (spacing 100, rate 10) a flight overtakes a freshly arrived
// flight of the next class up after waiting 11 cycles, and even a Cargo flight
// outranks a fresh Emergency after 51 cycles.
type ClassAgingPriority struct {
	Base      map[FlightClass]int
	AgingRate int
}

func (p *ClassAgingPriority) Compute(class FlightClass, waitingTime int) int {
	return p.Base[class] + waitingTime*p.AgingRate
}

// CyclesToOvertake returns the smallest waiting time at which a flight of
// class lower strictly outranks a freshly arrived flight of class higher.
// Returns 0 when lower already outranks higher at arrival.
func (p *ClassAgingPriority) CyclesToOvertake(lower, higher FlightClass) int {
	gap := p.Base[higher] - p.Base[lower]
	if gap < 0 {
		return 0
	}
	return gap/p.AgingRate + 1
}

// DefaultAgingRate is the per-cycle priority increase of a waiting flight.
const DefaultAgingRate = 10

// DefaultBasePriorities returns the stock base table: 600 for Emergency down to
// 100 for Cargo in steps of 100.
func DefaultBasePriorities() map[FlightClass]int {
	return map[FlightClass]int{
		ClassEmergency:     600,
		ClassLowFuel:       500,
		ClassVIP:           400,
		ClassInternational: 300,
		ClassDomestic:      200,
		ClassCargo:         100,
	}
}

// DefaultPriority returns the stock ClassAgingPriority.
func DefaultPriority() *ClassAgingPriority {
	return &ClassAgingPriority{Base: DefaultBasePriorities(), AgingRate: DefaultAgingRate}
}

// PriorityConfig holds tunable priority parameters, loadable from a scenario file.
// Nil AgingRate and missing base_priority keys mean "not set" and keep the defaults.
type PriorityConfig struct {
	AgingRate    *int           `yaml:"aging_rate,omitempty"`
	BasePriority map[string]int `yaml:"base_priority,omitempty"`
}

// NewPriorityPolicy overlays cfg on the defaults and validates the result:
// AgingRate must be positive, and base priorities must be strictly decreasing
// from Emergency to Cargo so class order is preserved at arrival.
func NewPriorityPolicy(cfg PriorityConfig) (*ClassAgingPriority, error) {
	p := DefaultPriority()
	if cfg.AgingRate != nil {
		p.AgingRate = *cfg.AgingRate
	}
	for name, score := range cfg.BasePriority {
		class, err := ParseFlightClass(name)
		if err != nil {
			return nil, fmt.Errorf("base_priority: %w", err)
		}
		p.Base[class] = score
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the aging rate and the ordering of the base table.
func (p *ClassAgingPriority) Validate() error {
	if p.AgingRate <= 0 {
		return fmt.Errorf("aging_rate must be positive, got %d", p.AgingRate)
	}
	classes := AllClasses()
	for _, c := range classes {
		if _, ok := p.Base[c]; !ok {
			return fmt.Errorf("base_priority missing class %q", c)
		}
	}
	for i := 1; i < len(classes); i++ {
		above, below := classes[i-1], classes[i]
		if p.Base[above] <= p.Base[below] {
			return fmt.Errorf("base_priority must be strictly decreasing: %s (%d) <= %s (%d)",
				above, p.Base[above], below, p.Base[below])
		}
	}
	return nil
}
