package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnhub/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config and that every catalog file exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fsys := contentFS(cfg)
		reg, err := loadRegistry(cfg, fsys)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		subjects := reg.ListSubjects()
		fmt.Fprintf(out, "Catalog: %d subjects, %d files\n", len(subjects), reg.Len())

		if save, _ := cmd.Flags().GetString("save"); save != "" {
			if err := catalog.SaveFile(save, subjects); err != nil {
				return err
			}
			fmt.Fprintf(out, "Catalog written to %s\n", save)
		}

		if err := reg.Verify(fsys); err != nil {
			return fmt.Errorf("catalog does not match content: %w", err)
		}
		fmt.Fprintln(out, "All files present.")
		return nil
	},
}

func init() {
	validateCmd.Flags().String("save", "", "write the loaded catalog to this YAML file")
	rootCmd.AddCommand(validateCmd)
}
