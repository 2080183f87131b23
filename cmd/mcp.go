package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/learnhub/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio that lets AI agents list subjects, read documents and search the catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg, nil)
		if err != nil {
			return err
		}
		defer log.Sync()

		fsys := contentFS(cfg)
		reg, err := loadRegistry(cfg, fsys)
		if err != nil {
			return err
		}
		f, err := newFetcher(cfg, fsys, log)
		if err != nil {
			return err
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "learnhub MCP server started on stdio (subjects=%d, files=%d)\n", len(reg.ListSubjects()), reg.Len())

		return mcpserver.NewServer(reg, f).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
