package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/runway-sim/sim"
)

var composeFromPaths []string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Merge multiple scenario files into one",
	Long:  "Load multiple scenario YAML files and concatenate their flight lists. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(composeFromPaths) == 0 {
			logrus.Fatalf("at least one --from flag is required")
		}

		var scenarios []*sim.Scenario
		for _, path := range composeFromPaths {
			sc, err := sim.LoadScenario(path)
			if err != nil {
				logrus.Fatalf("Failed to load scenario %s: %v", path, err)
			}
			scenarios = append(scenarios, sc)
		}

		merged, err := sim.ComposeScenarios(scenarios)
		if err != nil {
			logrus.Fatalf("Compose failed: %v", err)
		}
		if err := writeScenario(os.Stdout, merged); err != nil {
			logrus.Fatalf("Failed to write scenario: %v", err)
		}
	},
}

func writeScenario(w io.Writer, sc *sim.Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	composeCmd.Flags().StringArrayVar(&composeFromPaths, "from", nil, "Path to a scenario YAML file (can be repeated)")
	_ = composeCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(composeCmd)
}
