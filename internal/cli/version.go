package cli

import (
	"encoding/json"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := map[string]any{
			"name":              "xrlayer",
			"version":           version,
			"api_version":       entities.CurrentAPIVersion.String(),
			"interface_version": entities.CurrentLoaderAPILayerVersion,
		}
		out, _ := json.MarshalIndent(info, "", "  ")
		printf(cmd, "%s\n", out)
	},
}
