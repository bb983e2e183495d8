package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	backendURL string
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `docchat uploads PDF documents to a document Q&A backend and lets you ask
questions about them from the terminal, a browser, or an AI agent over MCP.
Answers cite the documents they were drawn from.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides config)")
}
