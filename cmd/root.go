package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/runway-sim/sim"
	"github.com/inference-sim/runway-sim/sim/telemetry"
	"github.com/inference-sim/runway-sim/sim/trace"
)

var (
	scenarioPath string        // YAML scenario file; empty runs the built-in demo
	logLevel     string        // Log verbosity level
	pace         time.Duration // Delay between cycles, for human-observable runs
	maxCycles    int           // Safety limit on executed cycles (0 = unlimited)
	agingRate    int           // Overrides the scenario aging rate when > 0
	traceLevel   string        // Decision trace level
	metricsOut   string        // Prometheus text exposition output path
	quiet        bool          // Suppress per-cycle status rendering
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "runway-sim",
	Short: "Discrete-time runway scheduler with priority aging",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the runway scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		scenario, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if agingRate > 0 {
			if scenario.Priority == nil {
				scenario.Priority = &sim.PriorityConfig{}
			}
			scenario.Priority.AgingRate = &agingRate
		}
		if err := scenario.Validate(); err != nil {
			logrus.Fatalf("invalid scenario: %v", err)
		}
		policy, err := scenario.PriorityPolicy()
		if err != nil {
			logrus.Fatalf("invalid priority config: %v", err)
		}

		logrus.Infof("Starting simulation %q with %d flights, aging rate %d",
			scenario.Name, len(scenario.Flights), policy.AgingRate)

		recorder := telemetry.NewRecorder()
		sched := sim.NewScheduler(sim.Config{
			Priority:  policy,
			Arrivals:  scenario,
			Observers: []sim.Observer{recorder},
			Trace:     trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
		})

		d := newDriver(sched, scenario, os.Stdout)
		d.pace = pace
		d.maxCycles = maxCycles
		d.quiet = quiet
		if err := d.run(cmd.Context()); err != nil {
			logrus.Fatalf("simulation aborted at cycle %d: %v", sched.Cycle(), err)
		}

		sched.Metrics.Print(os.Stdout)
		if sched.Trace != nil {
			printTraceSummary(trace.Summarize(sched.Trace))
		}
		if metricsOut != "" {
			if err := recorder.WriteTextfile(metricsOut); err != nil {
				logrus.Fatalf("writing metrics to %s: %v", metricsOut, err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

func loadScenario(path string) (*sim.Scenario, error) {
	if path == "" {
		return DefaultScenario(), nil
	}
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	return sc, nil
}

func printTraceSummary(s *trace.TraceSummary) {
	fmt.Println("=== Decision Trace ===")
	fmt.Printf("Admissions           : %d (%d rejected)\n", s.TotalAdmissions, s.RejectedCount)
	fmt.Printf("Dispatches           : %d (%d contested)\n", s.TotalDispatches, s.ContestedDispatches)
	fmt.Printf("Clearances           : %d\n", s.TotalClearances)
	fmt.Printf("Mean Wait            : %.2f cycles (max %d)\n", s.MeanWait, s.MaxWait)
	fmt.Printf("Mean Winning Margin  : %.2f\n", s.MeanMargin)
	for _, c := range sim.AllClasses() {
		if n := s.ClassDistribution[c.String()]; n > 0 {
			fmt.Printf("  %-15s: %d\n", c.DisplayName(), n)
		}
	}
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (default: built-in demo fleet)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().DurationVar(&pace, "pace", 0, "Delay between cycles (e.g. 2s); 0 runs as fast as possible")
	runCmd.Flags().IntVar(&maxCycles, "max-cycles", 10000, "Stop after this many cycles (0 = unlimited)")
	runCmd.Flags().IntVar(&agingRate, "aging-rate", 0, "Override the per-cycle aging rate (0 = scenario or default)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus text-format metrics to this file")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress per-cycle status output")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
