// Package sim provides the discrete-time runway scheduling core.
//
// # Reading Guide
//
// Start with these files to understand the scheduling kernel:
//   - request.go: Request lifecycle (waiting → occupying → cleared)
//   - queue.go: WaitingPool, aging and max-priority extraction
//   - runway.go: the single exclusive resource
//   - scheduler.go: the per-cycle state machine
//
// # Cycle Order
//
// Every call to Scheduler.Advance runs, in this exact order:
//  1. runway tick (may clear the current occupant)
//  2. aging of every waiting request
//  3. in-cycle admissions from the ArrivalSource
//  4. dispatch of the highest-priority request if the runway is free
//  5. snapshot for the driver
//
// Requests start aging on the cycle after they are admitted. A request
// submitted between cycles N and N+1 therefore receives its first aging tick
// in cycle N+1, and an in-cycle arrival is inserted after that cycle's aging
// step.
//
// # Key Interfaces
//   - PriorityPolicy: maps (class, waiting time) to a priority score
//   - ArrivalSource: supplies arrivals admitted during a cycle
//   - Observer: receives admission, dispatch, clearance and cycle-end callbacks
//
// Sub-packages:
//   - sim/trace/: dispatch and clearance decision records
//   - sim/telemetry/: Prometheus recorder implementing Observer
package sim
