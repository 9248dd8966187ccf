// Package testutil provides shared test infrastructure for the runway
// scheduler. It holds the golden dataset types and assertion helpers used
// by the sim test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scripted run and the outcome it must reproduce.
type GoldenTestCase struct {
	Name      string         `json:"name"`
	AgingRate int            `json:"aging_rate"`
	Flights   []GoldenFlight `json:"flights"`
	Expected  GoldenOutcome  `json:"expected"`
}

// GoldenFlight mirrors a scenario flight entry. Class is the canonical
// class name so this package stays independent of sim.
type GoldenFlight struct {
	ID              string `json:"id"`
	Class           string `json:"class"`
	ArrivalCycle    int    `json:"arrival_cycle"`
	ServiceDuration int    `json:"service_duration"`
	AtCycle         int    `json:"at_cycle"`
	InCycle         bool   `json:"in_cycle"`
}

// GoldenOutcome represents the expected results of a golden test case.
type GoldenOutcome struct {
	// Exact match values
	DispatchOrder []string `json:"dispatch_order"`
	Waits         []int    `json:"waits"`
	Cycles        int      `json:"cycles"`
	BusyCycles    int      `json:"busy_cycles"`
	TotalWait     int      `json:"total_wait"`
	MaxWait       int      `json:"max_wait"`

	// Derived floating-point values
	MeanWait float64 `json:"mean_wait"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
