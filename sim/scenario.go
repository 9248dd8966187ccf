package sim

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted arrival schedule plus optional priority tuning,
// loadable from a YAML file.
type Scenario struct {
	Name     string          `yaml:"name,omitempty"`
	Priority *PriorityConfig `yaml:"priority,omitempty"`
	Flights  []FlightSpec    `yaml:"flights"`
}

// FlightSpec schedules one flight.
//
// With InCycle false the driver submits the flight at the boundary after
// AtCycle cycles have completed (AtCycle 0 means before the first cycle).
// With InCycle true the flight arrives during cycle AtCycle, after that
// cycle's aging step, and AtCycle must be at least 1.
type FlightSpec struct {
	ID              string      `yaml:"id"`
	Class           FlightClass `yaml:"class"`
	ArrivalCycle    int         `yaml:"arrival_cycle"`
	ServiceDuration int         `yaml:"service_duration"`
	AtCycle         int         `yaml:"at_cycle"`
	InCycle         bool        `yaml:"in_cycle,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks every flight and the priority configuration.
func (sc *Scenario) Validate() error {
	if _, err := sc.PriorityPolicy(); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	seen := make(map[string]bool, len(sc.Flights))
	for i, f := range sc.Flights {
		prefix := fmt.Sprintf("flights[%d]", i)
		req := NewRequest(f.ID, f.Class, f.ArrivalCycle, f.ServiceDuration)
		if err := req.Validate(); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
		if seen[f.ID] {
			return fmt.Errorf("%s: duplicate flight id %q", prefix, f.ID)
		}
		seen[f.ID] = true
		if f.AtCycle < 0 {
			return fmt.Errorf("%s: at_cycle must be non-negative, got %d", prefix, f.AtCycle)
		}
		if f.InCycle && f.AtCycle < 1 {
			return fmt.Errorf("%s: in_cycle arrivals need at_cycle >= 1, got %d", prefix, f.AtCycle)
		}
	}
	return nil
}

// PriorityPolicy resolves the scenario's priority tuning over the defaults.
func (sc *Scenario) PriorityPolicy() (*ClassAgingPriority, error) {
	if sc.Priority == nil {
		return DefaultPriority(), nil
	}
	return NewPriorityPolicy(*sc.Priority)
}

// BoundaryArrivals returns the flights to submit once cycle flights have completed.
func (sc *Scenario) BoundaryArrivals(cycle int) []Submission {
	return sc.collect(cycle, false)
}

// Arrivals returns the flights arriving during cycle. It makes a Scenario an
// ArrivalSource.
func (sc *Scenario) Arrivals(cycle int) []Submission {
	return sc.collect(cycle, true)
}

// LastArrivalCycle returns the latest AtCycle of any flight, or 0 if none.
func (sc *Scenario) LastArrivalCycle() int {
	last := 0
	for _, f := range sc.Flights {
		last = max(last, f.AtCycle)
	}
	return last
}

func (sc *Scenario) collect(cycle int, inCycle bool) []Submission {
	var out []Submission
	for _, f := range sc.Flights {
		if f.AtCycle != cycle || f.InCycle != inCycle {
			continue
		}
		out = append(out, Submission{
			ID:              f.ID,
			Class:           f.Class,
			ArrivalCycle:    f.ArrivalCycle,
			ServiceDuration: f.ServiceDuration,
		})
	}
	return out
}

// ComposeScenarios merges the flight lists of several scenarios, in order.
// The merged name joins the input names with "+". The first non-nil priority
// block is kept; a later, different block is an error. The result is validated.
func ComposeScenarios(scenarios []*Scenario) (*Scenario, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario required")
	}
	merged := &Scenario{}
	var names []string
	for i, sc := range scenarios {
		if sc.Name != "" {
			names = append(names, sc.Name)
		}
		if sc.Priority != nil {
			if merged.Priority == nil {
				merged.Priority = sc.Priority
			} else if !samePriorityConfig(*merged.Priority, *sc.Priority) {
				return nil, fmt.Errorf("scenario %d: priority block conflicts with an earlier scenario", i)
			}
		}
		merged.Flights = append(merged.Flights, sc.Flights...)
	}
	merged.Name = strings.Join(names, "+")
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func samePriorityConfig(a, b PriorityConfig) bool {
	if (a.AgingRate == nil) != (b.AgingRate == nil) {
		return false
	}
	if a.AgingRate != nil && *a.AgingRate != *b.AgingRate {
		return false
	}
	return maps.Equal(a.BasePriority, b.BasePriority)
}
