package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnhub/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a learnhub configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that picks the content directory, catalog, port and code styles, then writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
