package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/horacewang893101/fetch-jira-bug/internal/analyze"
	"github.com/horacewang893101/fetch-jira-bug/internal/config"
	"github.com/horacewang893101/fetch-jira-bug/internal/parser"
	"github.com/horacewang893101/fetch-jira-bug/internal/pipeline"
	"github.com/horacewang893101/fetch-jira-bug/internal/report"
)

var analyzeFlags struct {
	bugsDir    string
	outputFile string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze fetched bug documents and generate a report",
	Long: `Run every bug document in the bugs directory through the language
model and stream the results into a markdown report. Documents that
fail to analyze get a fallback section; the run only aborts when the
report itself cannot be written.

Azure OpenAI settings come from AZURE_OPENAI_API_KEY,
AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT_NAME and
AZURE_OPENAI_API_VERSION (environment or .env file).`,
	RunE: runAnalyzeCmd,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.bugsDir, "bugs-dir", "bugs_md", "Directory containing bug documents")
	f.StringVar(&analyzeFlags.outputFile, "output-file", "analyzer.md", "Output markdown report file")
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Load()
	if err := cfg.ValidateLLM(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client := analyze.NewClient(analyze.Options{
		Endpoint:    cfg.AzureOpenAIEndpoint,
		Deployment:  cfg.AzureOpenAIDeployment,
		APIVersion:  cfg.AzureOpenAIAPIVersion,
		APIKey:      cfg.AzureOpenAIKey,
		Temperature: cfg.ModelTemperature,
		Retries:     cfg.LLMRetries,
		Timeout:     cfg.LLMTimeout,
	}, log)
	defer client.Close()

	writer := report.NewWriter(analyzeFlags.outputFile, log)
	p := pipeline.New(client, writer, log, pipeline.Options{
		MaxContentChars: cfg.MaxContentChars,
		Parser:          parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	})

	counters, err := p.Run(cmd.Context(), analyzeFlags.bugsDir)
	if err != nil {
		return err
	}
	if counters.Total == 0 {
		fmt.Printf("No bug documents found in %s.\n", analyzeFlags.bugsDir)
		return nil
	}

	fmt.Printf("\nAnalysis report generated: %s\n", analyzeFlags.outputFile)
	fmt.Printf("  Total bugs:   %d\n", counters.Total)
	fmt.Printf("  Urgent fixes: %d\n", counters.Urgent)
	fmt.Printf("  Deferred:     %d\n", counters.Deferred())
	return nil
}
