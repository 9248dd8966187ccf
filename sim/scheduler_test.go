package sim

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/runway-sim/sim/trace"
)

// scriptedArrivals is an ArrivalSource keyed by cycle.
type scriptedArrivals map[int][]Submission

func (s scriptedArrivals) Arrivals(cycle int) []Submission { return s[cycle] }

// recordingObserver logs callbacks as strings in call order.
type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) OnAdmit(req *Request, cycle int) {
	o.calls = append(o.calls, "admit:"+req.ID)
}
func (o *recordingObserver) OnSchedule(ev ScheduledEvent) { o.calls = append(o.calls, "schedule:"+ev.ID) }
func (o *recordingObserver) OnClear(ev ClearedEvent)      { o.calls = append(o.calls, "clear:"+ev.ID) }
func (o *recordingObserver) OnCycleEnd(r CycleReport)     { o.calls = append(o.calls, "end") }

func mustSubmit(t *testing.T, s *Scheduler, id string, class FlightClass, arrival, duration int) {
	t.Helper()
	require.NoError(t, s.Submit(id, class, arrival, duration))
}

// runToCompletion advances until no work is pending, with a safety bound.
func runToCompletion(t *testing.T, s *Scheduler, limit int) []CycleReport {
	t.Helper()
	var reports []CycleReport
	for s.HasPendingWork() {
		require.Less(t, s.Cycle(), limit, "simulation did not terminate")
		reports = append(reports, s.Advance())
	}
	return reports
}

func TestScheduler_FirstAdvance_DispatchesHigherClass(t *testing.T) {
	// GIVEN A (Domestic, 4) and B (International, 6) admitted before any cycle
	s := NewScheduler(Config{})
	mustSubmit(t, s, "A", ClassDomestic, 0, 4)
	mustSubmit(t, s, "B", ClassInternational, 0, 6)

	// WHEN the first cycle runs
	report := s.Advance()

	// THEN B is scheduled and A waits with one aging tick
	require.NotNil(t, report.Scheduled)
	assert.Equal(t, "B", report.Scheduled.ID)
	assert.Equal(t, ClassInternational, report.Scheduled.Class)
	assert.Equal(t, 1, report.Scheduled.WaitingTime)
	assert.Equal(t, 1, report.Cycle)
	assert.Nil(t, report.Cleared)

	snap := report.Snapshot
	assert.Equal(t, RunwayBusy, snap.Status)
	require.NotNil(t, snap.Occupant)
	assert.Equal(t, "B", snap.Occupant.ID)
	assert.Equal(t, 6, snap.Remaining)
	assert.Equal(t, []FlightView{{ID: "A", Class: ClassDomestic, WaitingTime: 1, Priority: 210}}, snap.Waiting)
}

func TestScheduler_AgedCargoOutranksFreshVIP(t *testing.T) {
	// GIVEN an Emergency holding the runway for cycles 1..30 and a Cargo flight waiting
	// AND a VIP arriving during cycle 31
	s := NewScheduler(Config{Arrivals: scriptedArrivals{
		31: {{ID: "VIP1", Class: ClassVIP, ArrivalCycle: 31, ServiceDuration: 2}},
	}})
	mustSubmit(t, s, "EMG", ClassEmergency, 0, 30)
	mustSubmit(t, s, "CGO", ClassCargo, 0, 3)

	var report CycleReport
	for i := 0; i < 31; i++ {
		report = s.Advance()
	}

	// THEN cycle 31 clears the Emergency and dispatches Cargo at 410 over VIP at 400
	require.Equal(t, 31, report.Cycle)
	require.NotNil(t, report.Cleared)
	assert.Equal(t, "EMG", report.Cleared.ID)
	assert.Equal(t, []string{"VIP1"}, report.Admitted)
	require.NotNil(t, report.Scheduled)
	assert.Equal(t, "CGO", report.Scheduled.ID)
	assert.Equal(t, 31, report.Scheduled.WaitingTime)
	assert.Equal(t, 410, report.Scheduled.Priority)
	assert.Equal(t, []FlightView{{ID: "VIP1", Class: ClassVIP, WaitingTime: 0, Priority: 400}}, report.Snapshot.Waiting)
}

func TestScheduler_EqualPriority_EarlierArrivalWins(t *testing.T) {
	// GIVEN a VIP submitted after cycle 30 so it ages once before cycle 31's dispatch
	s := NewScheduler(Config{})
	mustSubmit(t, s, "EMG", ClassEmergency, 0, 30)
	mustSubmit(t, s, "CGO", ClassCargo, 0, 3)
	for i := 0; i < 30; i++ {
		s.Advance()
	}
	mustSubmit(t, s, "VIP1", ClassVIP, 30, 2)

	// WHEN cycle 31 runs, both score 410
	report := s.Advance()

	// THEN the older arrival wins the tie
	require.NotNil(t, report.Scheduled)
	assert.Equal(t, "CGO", report.Scheduled.ID)
	assert.Equal(t, 410, report.Scheduled.Priority)
	assert.Equal(t, 410, report.Snapshot.Waiting[0].Priority)
}

func TestScheduler_Advance_EmptySystem_IsNoOpCycle(t *testing.T) {
	s := NewScheduler(Config{})
	assert.False(t, s.HasPendingWork())

	report := s.Advance()

	assert.Equal(t, 1, report.Cycle)
	assert.Equal(t, 1, s.Cycle())
	assert.Nil(t, report.Cleared)
	assert.Nil(t, report.Scheduled)
	assert.Empty(t, report.Admitted)
	assert.Equal(t, RunwayFree, report.Snapshot.Status)
	assert.Nil(t, report.Snapshot.Occupant)
	assert.Empty(t, report.Snapshot.Waiting)
	assert.False(t, s.HasPendingWork())
}

func TestScheduler_Submit_InvalidInput_Rejected(t *testing.T) {
	s := NewScheduler(Config{Trace: trace.TraceConfig{Level: trace.TraceLevelDecisions}})

	for _, err := range []error{
		s.Submit("", ClassCargo, 0, 1),
		s.Submit("X", FlightClass(17), 0, 1),
		s.Submit("Y", ClassCargo, 0, 0),
		s.Submit("Z", ClassCargo, -2, 1),
	} {
		assert.True(t, errors.Is(err, ErrInvalidRequest), "got %v", err)
	}
	assert.False(t, s.HasPendingWork())
	assert.Equal(t, 0, s.Metrics.AdmittedRequests)
	assert.Len(t, s.Trace.Admissions, 4)
	for _, a := range s.Trace.Admissions {
		assert.False(t, a.Admitted)
	}
}

func TestScheduler_InCycleArrival_StartsAgingNextCycle(t *testing.T) {
	// GIVEN a busy runway and a Domestic arriving during cycle 2
	s := NewScheduler(Config{Arrivals: scriptedArrivals{
		2: {{ID: "D", Class: ClassDomestic, ArrivalCycle: 2, ServiceDuration: 1}},
	}})
	mustSubmit(t, s, "BUSY", ClassEmergency, 0, 5)

	s.Advance()
	r2 := s.Advance()
	r3 := s.Advance()

	// THEN it shows wait 0 on its admission cycle and 1 on the next
	require.Len(t, r2.Snapshot.Waiting, 1)
	assert.Equal(t, 0, r2.Snapshot.Waiting[0].WaitingTime)
	assert.Equal(t, 200, r2.Snapshot.Waiting[0].Priority)
	assert.Equal(t, 1, r3.Snapshot.Waiting[0].WaitingTime)
	assert.Equal(t, 210, r3.Snapshot.Waiting[0].Priority)
}

func TestScheduler_InCycleArrival_DispatchedSameCycleWhenFree(t *testing.T) {
	s := NewScheduler(Config{Arrivals: scriptedArrivals{
		1: {{ID: "Q", Class: ClassCargo, ArrivalCycle: 1, ServiceDuration: 2}},
	}})

	report := s.Advance()

	require.NotNil(t, report.Scheduled)
	assert.Equal(t, "Q", report.Scheduled.ID)
	assert.Equal(t, 0, report.Scheduled.WaitingTime)
}

func TestScheduler_InCycleArrival_InvalidIsReportedNotAdmitted(t *testing.T) {
	s := NewScheduler(Config{Arrivals: scriptedArrivals{
		1: {
			{ID: "BAD", Class: ClassCargo, ArrivalCycle: 1, ServiceDuration: 0},
			{ID: "OK", Class: ClassCargo, ArrivalCycle: 1, ServiceDuration: 1},
		},
	}})

	report := s.Advance()

	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "BAD", report.Rejected[0].ID)
	assert.Contains(t, report.Rejected[0].Reason, "service duration")
	assert.Equal(t, []string{"OK"}, report.Admitted)
	require.NotNil(t, report.Scheduled)
	assert.Equal(t, "OK", report.Scheduled.ID)
}

func TestScheduler_ClearAndDispatchInSameCycle(t *testing.T) {
	// GIVEN a 2-cycle occupant and a waiting flight
	s := NewScheduler(Config{})
	mustSubmit(t, s, "FIRST", ClassVIP, 0, 2)
	mustSubmit(t, s, "NEXT", ClassCargo, 0, 1)

	s.Advance()       // FIRST dispatched, 2 left
	r2 := s.Advance() // 1 left
	r3 := s.Advance() // FIRST clears, NEXT dispatched
	r4 := s.Advance() // NEXT clears

	assert.Nil(t, r2.Cleared)
	assert.Equal(t, 1, r2.Snapshot.Remaining)
	require.NotNil(t, r3.Cleared)
	assert.Equal(t, ClearedEvent{ID: "FIRST", Class: ClassVIP, Cycle: 3, ServiceDuration: 2}, *r3.Cleared)
	require.NotNil(t, r3.Scheduled)
	assert.Equal(t, "NEXT", r3.Scheduled.ID)
	assert.Equal(t, 3, r3.Scheduled.WaitingTime)
	require.NotNil(t, r4.Cleared)
	assert.Equal(t, "NEXT", r4.Cleared.ID)
	assert.False(t, s.HasPendingWork())
}

func TestScheduler_DemoFleet_DispatchOrderAndMetrics(t *testing.T) {
	// GIVEN the demo fleet: four flights up front, UA901 after cycle 2, EMD01 after cycle 4
	s := NewScheduler(Config{Trace: trace.TraceConfig{Level: trace.TraceLevelDecisions}})
	mustSubmit(t, s, "DL456", ClassDomestic, 0, 4)
	mustSubmit(t, s, "BA288", ClassInternational, 0, 6)
	mustSubmit(t, s, "FX123", ClassCargo, 1, 5)
	mustSubmit(t, s, "AA789", ClassDomestic, 1, 4)

	var scheduled []string
	waits := map[string]int{}
	for s.HasPendingWork() || s.Cycle() < 4 {
		require.Less(t, s.Cycle(), 100)
		r := s.Advance()
		if r.Scheduled != nil {
			scheduled = append(scheduled, r.Scheduled.ID)
			waits[r.Scheduled.ID] = r.Scheduled.WaitingTime
		}
		switch s.Cycle() {
		case 2:
			mustSubmit(t, s, "UA901", ClassInternational, 2, 6)
		case 4:
			mustSubmit(t, s, "EMD01", ClassEmergency, 4, 3)
		}
	}

	// THEN dispatch follows priority with aging
	assert.Equal(t, []string{"BA288", "EMD01", "UA901", "DL456", "AA789", "FX123"}, scheduled)
	assert.Equal(t, map[string]int{"BA288": 1, "EMD01": 3, "UA901": 8, "DL456": 16, "AA789": 20, "FX123": 24}, waits)
	assert.Equal(t, 29, s.Cycle())

	m := s.Metrics
	assert.Equal(t, 6, m.AdmittedRequests)
	assert.Equal(t, 6, m.ScheduledRequests)
	assert.Equal(t, 6, m.CompletedRequests)
	assert.Equal(t, 72, m.TotalWaitCycles)
	assert.Equal(t, 24, m.MaxWaitCycles)
	assert.InDelta(t, 12.0, m.MeanWait(), 1e-9)
	assert.Equal(t, 28, m.BusyCycles)
	assert.Equal(t, 1, m.IdleCycles)

	summary := trace.Summarize(s.Trace)
	assert.Equal(t, 6, summary.TotalDispatches)
	assert.Equal(t, 6, summary.TotalClearances)
	assert.Equal(t, 2, summary.ClassDistribution["domestic"])
}

func TestScheduler_Observers_CalledInCycleOrder(t *testing.T) {
	obs := &recordingObserver{}
	s := NewScheduler(Config{
		Observers: []Observer{obs},
		Arrivals: scriptedArrivals{
			2: {{ID: "C", Class: ClassCargo, ArrivalCycle: 2, ServiceDuration: 1}},
		},
	})
	mustSubmit(t, s, "A", ClassVIP, 0, 1)
	mustSubmit(t, s, "B", ClassDomestic, 0, 1)

	s.Advance() // A scheduled
	s.Advance() // A clears, C admitted, B scheduled

	want := []string{
		"admit:A", "admit:B",
		"schedule:A", "end",
		"clear:A", "admit:C", "schedule:B", "end",
	}
	assert.Equal(t, want, obs.calls)
}

func TestScheduler_Trace_DispatchRecordsRunnerUp(t *testing.T) {
	s := NewScheduler(Config{Trace: trace.TraceConfig{Level: trace.TraceLevelDecisions}})
	mustSubmit(t, s, "A", ClassDomestic, 0, 4)
	mustSubmit(t, s, "B", ClassInternational, 0, 6)

	s.Advance()

	require.Len(t, s.Trace.Dispatches, 1)
	d := s.Trace.Dispatches[0]
	assert.Equal(t, trace.DispatchRecord{
		RequestID: "B", Class: "international", Cycle: 1, WaitingTime: 1, Priority: 310,
		Contenders: 2, RunnerUpID: "A", RunnerUpPriority: 210, Margin: 100,
	}, d)
}

func TestScheduler_TraceDisabledByDefault(t *testing.T) {
	s := NewScheduler(Config{})
	assert.Nil(t, s.Trace)
}

// randomWorkload builds a deterministic pseudo-random arrival script.
func randomWorkload(seed uint64, flights int) scriptedArrivals {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	script := scriptedArrivals{}
	for i := 0; i < flights; i++ {
		cycle := 1 + rng.IntN(40)
		script[cycle] = append(script[cycle], Submission{
			ID:              "F" + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Class:           FlightClass(rng.IntN(numClasses)),
			ArrivalCycle:    cycle,
			ServiceDuration: 1 + rng.IntN(4),
		})
	}
	return script
}

func runScripted(t *testing.T, script scriptedArrivals, lastArrival int) []CycleReport {
	t.Helper()
	s := NewScheduler(Config{Arrivals: script})
	var reports []CycleReport
	for s.HasPendingWork() || s.Cycle() < lastArrival {
		require.Less(t, s.Cycle(), 10000)
		reports = append(reports, s.Advance())
	}
	return reports
}

func TestScheduler_ExclusivityAndConservation(t *testing.T) {
	script := randomWorkload(7, 60)
	admitted := map[string]bool{}
	cleared := map[string]bool{}
	scheduled := map[string]bool{}

	for _, r := range runScripted(t, script, 40) {
		for _, id := range r.Admitted {
			require.False(t, admitted[id], "%s admitted twice", id)
			admitted[id] = true
		}
		if r.Cleared != nil {
			require.True(t, scheduled[r.Cleared.ID], "%s cleared without dispatch", r.Cleared.ID)
			require.False(t, cleared[r.Cleared.ID], "%s cleared twice", r.Cleared.ID)
			cleared[r.Cleared.ID] = true
		}
		if r.Scheduled != nil {
			require.False(t, scheduled[r.Scheduled.ID], "%s dispatched twice", r.Scheduled.ID)
			scheduled[r.Scheduled.ID] = true
		}

		// every admitted flight is in exactly one place
		located := map[string]int{}
		for _, w := range r.Snapshot.Waiting {
			located[w.ID]++
		}
		if occ := r.Snapshot.Occupant; occ != nil {
			located[occ.ID]++
			assert.Equal(t, RunwayBusy, r.Snapshot.Status)
		}
		for id := range cleared {
			located[id]++
		}
		for id := range admitted {
			require.Equal(t, 1, located[id], "cycle %d: %s located %d times", r.Cycle, id, located[id])
		}
		require.Len(t, located, len(admitted))
	}
	assert.Len(t, cleared, 60)
}

func TestScheduler_WaitingPriorityNeverDecreases(t *testing.T) {
	last := map[string]int{}
	for _, r := range runScripted(t, randomWorkload(11, 40), 40) {
		for _, w := range r.Snapshot.Waiting {
			if prev, ok := last[w.ID]; ok {
				require.Greater(t, w.Priority, prev, "cycle %d: %s", r.Cycle, w.ID)
			}
			last[w.ID] = w.Priority
		}
	}
}

func TestScheduler_SnapshotWaitingSortedDescending(t *testing.T) {
	for _, r := range runScripted(t, randomWorkload(3, 50), 40) {
		for i := 1; i < len(r.Snapshot.Waiting); i++ {
			require.GreaterOrEqual(t, r.Snapshot.Waiting[i-1].Priority, r.Snapshot.Waiting[i].Priority)
		}
	}
}

func TestScheduler_Determinism_IdenticalReports(t *testing.T) {
	first := runScripted(t, randomWorkload(42, 80), 40)
	second := runScripted(t, randomWorkload(42, 80), 40)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestRunToCompletion_Helper(t *testing.T) {
	s := NewScheduler(Config{})
	mustSubmit(t, s, "ONLY", ClassLowFuel, 0, 2)
	reports := runToCompletion(t, s, 10)
	require.Len(t, reports, 3)
	assert.Equal(t, "ONLY", reports[2].Cleared.ID)
}
