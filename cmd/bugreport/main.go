// bugreport fetches Jira bug issues, analyzes them with an LLM, and
// produces a markdown report.
//
// Usage:
//
//	bugreport fetch   --issue-file keys.txt [--output-dir bugs_md]
//	bugreport analyze [--bugs-dir bugs_md] [--output-file analyzer.md]
//	bugreport serve   [--bugs-dir bugs_md] [--report-file analyzer.md] [--port 8090]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
