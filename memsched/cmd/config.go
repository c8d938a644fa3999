package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/memsched/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration as YAML.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := config.Default().Marshal()
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
