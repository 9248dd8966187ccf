package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/runway-sim/sim"
)

// driver feeds a scenario into a Scheduler, renders each cycle and paces the
// run. Pacing is presentation only and never affects scheduling outcomes.
type driver struct {
	sched     *sim.Scheduler
	scenario  *sim.Scenario
	out       io.Writer
	pace      time.Duration
	maxCycles int // 0 = unlimited
	quiet     bool

	inCycle map[string]sim.Submission // in-cycle arrivals by ID, for rendering
}

func newDriver(sched *sim.Scheduler, scenario *sim.Scenario, out io.Writer) *driver {
	d := &driver{
		sched:    sched,
		scenario: scenario,
		out:      out,
		inCycle:  make(map[string]sim.Submission),
	}
	for _, f := range scenario.Flights {
		if f.InCycle {
			d.inCycle[f.ID] = sim.Submission{ID: f.ID, Class: f.Class, ArrivalCycle: f.ArrivalCycle, ServiceDuration: f.ServiceDuration}
		}
	}
	return d
}

// run drives cycles until no work is pending and no scripted arrival remains,
// the cycle limit is hit, or ctx is cancelled between cycles.
func (d *driver) run(ctx context.Context) error {
	if err := d.submitDue(0); err != nil {
		return err
	}
	if !d.quiet {
		renderStatus(d.out, d.sched.Snapshot())
	}

	for d.hasWork() {
		if d.maxCycles > 0 && d.sched.Cycle() >= d.maxCycles {
			logrus.Warnf("stopping at cycle limit %d with work pending", d.maxCycles)
			return nil
		}
		report := d.sched.Advance()
		if !d.quiet {
			renderReport(d.out, report, d.inCycle)
		}
		if err := d.submitDue(d.sched.Cycle()); err != nil {
			return err
		}
		if err := d.wait(ctx); err != nil {
			return err
		}
	}
	if !d.quiet {
		fmt.Fprintln(d.out, "All flights have been processed. Simulation finished.")
	}
	return nil
}

func (d *driver) hasWork() bool {
	return d.sched.HasPendingWork() || d.sched.Cycle() < d.scenario.LastArrivalCycle()
}

func (d *driver) submitDue(cycle int) error {
	for _, sub := range d.scenario.BoundaryArrivals(cycle) {
		if err := d.sched.Submit(sub.ID, sub.Class, sub.ArrivalCycle, sub.ServiceDuration); err != nil {
			return fmt.Errorf("submitting flight %q after cycle %d: %w", sub.ID, cycle, err)
		}
		if !d.quiet {
			renderAdmission(d.out, cycle, sub)
		}
	}
	return nil
}

func (d *driver) wait(ctx context.Context) error {
	if d.pace <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.pace)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
