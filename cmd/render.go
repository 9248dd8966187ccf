package cmd

import (
	"fmt"
	"io"
	"strings"

	sim "github.com/inference-sim/runway-sim/sim"
)

var rule = strings.Repeat("-", 80)

// renderAdmission prints the line shown when a flight enters the system.
func renderAdmission(w io.Writer, cycle int, sub sim.Submission) {
	fmt.Fprintf(w, "[CYCLE %d] INFO: Flight %s (%s) has entered the system and is waiting.\n",
		cycle, sub.ID, sub.Class.DisplayName())
}

// renderReport prints the events of one cycle followed by the status block.
func renderReport(w io.Writer, report sim.CycleReport, arrivals map[string]sim.Submission) {
	if ev := report.Cleared; ev != nil {
		fmt.Fprintf(w, "[CYCLE %d] SUCCESS: Flight %s has cleared the runway.\n", ev.Cycle, ev.ID)
	}
	for _, id := range report.Admitted {
		renderAdmission(w, report.Cycle, arrivals[id])
	}
	for _, r := range report.Rejected {
		fmt.Fprintf(w, "[CYCLE %d] WARN: Flight %s rejected: %s\n", report.Cycle, r.ID, r.Reason)
	}
	if ev := report.Scheduled; ev != nil {
		fmt.Fprintf(w, "[CYCLE %d] ACTION: Scheduling Flight %s onto the runway. Waited for %d cycles.\n",
			ev.Cycle, ev.ID, ev.WaitingTime)
	}
	renderStatus(w, report.Snapshot)
}

// renderStatus prints the runway line and the waiting table.
func renderStatus(w io.Writer, snap sim.Snapshot) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "[CYCLE %2d] STATUS:\n", snap.Cycle)
	if occ := snap.Occupant; occ != nil {
		fmt.Fprintf(w, "  Runway: BUSY with Flight %s (%s). Time left: %d cycles.\n",
			occ.ID, occ.Class.DisplayName(), snap.Remaining)
	} else {
		fmt.Fprintln(w, "  Runway: FREE")
	}

	fmt.Fprintf(w, "  Waiting Queue (%d flights):\n", len(snap.Waiting))
	if len(snap.Waiting) == 0 {
		fmt.Fprintln(w, "    <Empty>")
	} else {
		fmt.Fprintf(w, "    %-10s%-17s%-15s%-10s\n", "ID", "Type", "Wait Time", "Priority")
		for _, f := range snap.Waiting {
			fmt.Fprintf(w, "    %-10s%-17s%-15d%-10d\n", f.ID, f.Class.DisplayName(), f.WaitingTime, f.Priority)
		}
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
