package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bugreport",
	Short: "Fetch Jira bugs and generate an LLM-backed analysis report",
	Long: "bugreport pulls bug issues from a Jira project, stores each as a\nmarkdown document, and generates a summarized analysis report by\nrunning every document through a language model.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}
