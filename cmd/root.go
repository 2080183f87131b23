package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnhub/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "learnhub",
	Short: "Browse study notes, practice questions and quizzes",
	Long: `Learning Hub organizes markdown study material by subject and folder
(notes, questions, quiz, real problems, interview questions) and lets you
read it in the browser, in the terminal, as a static site or through MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
