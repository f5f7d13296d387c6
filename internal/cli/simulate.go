package cli

import (
	"fmt"

	"github.com/reglet-dev/xrlayer/application/config"
	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/internal/sim"
	"github.com/spf13/cobra"
)

var (
	simConfig            string
	simExtensions        []string
	simRuntimeExtensions []string
	simFrames            int
	simInvalidFrame      bool
	simFormat            string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simConfig, "config", "", "Path to layer config YAML (optional)")
	simulateCmd.Flags().StringSliceVar(&simExtensions, "extension", nil, "Extension requested by the application (repeatable)")
	simulateCmd.Flags().StringSliceVar(&simRuntimeExtensions, "runtime-extension", nil, "Extension implemented by the runtime (repeatable)")
	simulateCmd.Flags().IntVar(&simFrames, "frames", 3, "Frames submitted through xrEndFrame")
	simulateCmd.Flags().BoolVar(&simInvalidFrame, "invalid-frame", false, "Submit the last frame with an invalid display time")
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", "text", "Output format (text|json)")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the layer between a simulated loader and runtime",
	Long: "Negotiates with the layer, creates an instance through it, resolves and\n" +
		"calls xrEndFrame, xrPollEvent and xrTestMeTEST, then destroys the instance\n" +
		"and prints the result of every step.",
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := entities.DefaultLayerConfig()
	// Only a level read from a config file overrides the --log-level default.
	var fileLevel string
	if simConfig != "" {
		loaded, err := config.NewLoader().Load(simConfig)
		if err != nil {
			return err
		}
		cfg = *loaded
		fileLevel = cfg.LogLevel
	}
	if simFrames < 0 {
		return fmt.Errorf("--frames must not be negative")
	}

	logger, err := newLogger(cmd, fileLevel)
	if err != nil {
		return err
	}

	report, err := sim.Run(sim.Options{
		Config:            cfg,
		Extensions:        simExtensions,
		RuntimeExtensions: simRuntimeExtensions,
		Frames:            simFrames,
		InvalidLastFrame:  simInvalidFrame,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	switch simFormat {
	case "json":
		out, err := sim.FormatJSON(report)
		if err != nil {
			return err
		}
		printf(cmd, "%s\n", out)
	default:
		printf(cmd, "%s", sim.FormatText(report))
	}
	return nil
}
