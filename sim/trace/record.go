// Package trace provides decision-trace recording for runway dispatch analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// AdmissionRecord captures a single admission into the waiting pool.
type AdmissionRecord struct {
	RequestID string
	Class     string
	Cycle     int
	Admitted  bool
	Reason    string
}

// DispatchRecord captures a single dispatch decision with the closest
// contender that lost it.
type DispatchRecord struct {
	RequestID        string
	Class            string
	Cycle            int
	WaitingTime      int
	Priority         int
	Contenders       int    // waiting flights considered, including the winner
	RunnerUpID       string // empty when the winner was uncontested
	RunnerUpPriority int
	Margin           int // Priority - RunnerUpPriority; 0 if uncontested or tied
}

// ClearanceRecord captures a flight vacating the runway.
type ClearanceRecord struct {
	RequestID  string
	Cycle      int
	Turnaround int // cycles from admission to clearance
}
