package sim

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlightClass is the fixed category of a flight. It determines the base
// priority the flight starts with before aging.
type FlightClass int

// Classes are declared from most to least urgent.
const (
	ClassEmergency FlightClass = iota
	ClassLowFuel
	ClassVIP
	ClassInternational
	ClassDomestic
	ClassCargo

	numClasses = iota
)

var (
	classNames = [numClasses]string{
		ClassEmergency:     "emergency",
		ClassLowFuel:       "low-fuel",
		ClassVIP:           "vip",
		ClassInternational: "international",
		ClassDomestic:      "domestic",
		ClassCargo:         "cargo",
	}

	classDisplayNames = [numClasses]string{
		ClassEmergency:     "Emergency",
		ClassLowFuel:       "Low Fuel",
		ClassVIP:           "VIP",
		ClassInternational: "International",
		ClassDomestic:      "Domestic",
		ClassCargo:         "Cargo",
	}
)

// AllClasses returns every class in urgency order (most urgent first).
func AllClasses() []FlightClass {
	all := make([]FlightClass, numClasses)
	for i := range all {
		all[i] = FlightClass(i)
	}
	return all
}

// IsValid reports whether c is one of the six known classes.
func (c FlightClass) IsValid() bool {
	return c >= 0 && c < numClasses
}

// String returns the canonical lowercase name used in scenario files.
func (c FlightClass) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("FlightClass(%d)", int(c))
	}
	return classNames[c]
}

// DisplayName returns the human-readable name used in the status table.
func (c FlightClass) DisplayName() string {
	if !c.IsValid() {
		return "Unknown"
	}
	return classDisplayNames[c]
}

// ParseFlightClass resolves a class name. Matching ignores case and treats
// spaces and underscores as hyphens, so "Low Fuel", "low_fuel" and
// "low-fuel" are equivalent.
func ParseFlightClass(s string) (FlightClass, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for i, name := range classNames {
		if name == norm {
			return FlightClass(i), nil
		}
	}
	return 0, fmt.Errorf("unknown flight class %q; valid: %s", s, strings.Join(classNames[:], ", "))
}

// MarshalYAML renders the class by its canonical name.
func (c FlightClass) MarshalYAML() (any, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid flight class %d", int(c))
	}
	return c.String(), nil
}

// UnmarshalYAML parses a class name from a scalar node.
func (c *FlightClass) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: flight class must be a string: %w", value.Line, err)
	}
	parsed, err := ParseFlightClass(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}
