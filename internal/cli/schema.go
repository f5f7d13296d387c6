package cli

import (
	"github.com/reglet-dev/xrlayer/application/schema"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of layer configuration files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := schema.LayerConfigSchema()
		if err != nil {
			return err
		}
		printf(cmd, "%s\n", out)
		return nil
	},
}
