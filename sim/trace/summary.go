package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAdmissions     int
	RejectedCount       int
	TotalDispatches     int
	TotalClearances     int
	ContestedDispatches int // dispatches with at least one losing contender
	MeanWait            float64
	MaxWait             int
	MeanMargin          float64        // over contested dispatches only
	ClassDistribution   map[string]int // class → dispatch count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ClassDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAdmissions = len(st.Admissions)
	for _, a := range st.Admissions {
		if !a.Admitted {
			summary.RejectedCount++
		}
	}
	summary.TotalClearances = len(st.Clearances)

	summary.TotalDispatches = len(st.Dispatches)
	if len(st.Dispatches) > 0 {
		totalWait, totalMargin := 0, 0
		for _, d := range st.Dispatches {
			summary.ClassDistribution[d.Class]++
			totalWait += d.WaitingTime
			if d.WaitingTime > summary.MaxWait {
				summary.MaxWait = d.WaitingTime
			}
			if d.Contenders > 1 {
				summary.ContestedDispatches++
				totalMargin += d.Margin
			}
		}
		summary.MeanWait = float64(totalWait) / float64(len(st.Dispatches))
		if summary.ContestedDispatches > 0 {
			summary.MeanMargin = float64(totalMargin) / float64(summary.ContestedDispatches)
		}
	}

	return summary
}
