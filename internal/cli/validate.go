package cli

import (
	"github.com/reglet-dev/xrlayer/application/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a layer configuration file",
	Long: "Checks a YAML layer configuration against the configuration schema and\n" +
		"its field constraints. Exits non-zero when the file is invalid.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewLoader().Load(args[0])
		if err != nil {
			return err
		}
		printf(cmd, "%s: valid (layer %q, %d extension(s), filtering %t)\n",
			args[0], cfg.Name, len(cfg.Extensions), cfg.FilterExtensions)
		return nil
	},
}
