package cmd

import (
	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/runway-sim/sim"
)

// defaultScenarioYAML is the demo fleet used when --scenario is not given.
// Four flights are waiting before the first cycle; an International flight
// joins after cycle 2 and an Emergency after cycle 4.
const defaultScenarioYAML = `
name: demo-airport
flights:
  - {id: DL456, class: domestic,      arrival_cycle: 0, service_duration: 4, at_cycle: 0}
  - {id: BA288, class: international, arrival_cycle: 0, service_duration: 6, at_cycle: 0}
  - {id: FX123, class: cargo,         arrival_cycle: 1, service_duration: 5, at_cycle: 0}
  - {id: AA789, class: domestic,      arrival_cycle: 1, service_duration: 4, at_cycle: 0}
  - {id: UA901, class: international, arrival_cycle: 2, service_duration: 6, at_cycle: 2}
  - {id: EMD01, class: emergency,     arrival_cycle: 4, service_duration: 3, at_cycle: 4}
`

// DefaultScenario parses the built-in demo fleet. Panics if the embedded YAML
// is invalid, which would be a build-time defect.
func DefaultScenario() *sim.Scenario {
	sc, err := sim.ParseScenario([]byte(defaultScenarioYAML))
	if err != nil {
		logrus.Panicf("default scenario: %v", err)
	}
	return sc
}
