package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/horacewang893101/fetch-jira-bug/internal/config"
	"github.com/horacewang893101/fetch-jira-bug/internal/jira"
)

var fetchFlags struct {
	issueFile string
	outputDir string
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch Jira issues and write one markdown document per bug",
	Long: `Fetch each issue listed in the issue file from the Jira REST API and
write it as a markdown document into the output directory. Issues that
cannot be fetched are logged and skipped. A status-count summary is
printed at the end.

Jira credentials come from JIRA_EMAIL, JIRA_TOKEN and JIRA_DOMAIN
(environment or .env file).`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchFlags.issueFile, "issue-file", "", "Path to a file containing issue keys, one per line (required)")
	f.StringVar(&fetchFlags.outputDir, "output-dir", "bugs_md", "Directory to write bug markdown files")
	_ = fetchCmd.MarkFlagRequired("issue-file")
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Load()
	if err := cfg.ValidateJira(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	keys, err := jira.LoadIssueKeys(fetchFlags.issueFile)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("no issue keys found in %s", fetchFlags.issueFile)
	}

	if err := os.MkdirAll(fetchFlags.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	client := jira.NewClient(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraToken)
	defer client.Close()

	ctx := cmd.Context()
	var fetched []*jira.Issue
	for _, key := range keys {
		issue, err := client.GetIssue(ctx, key)
		if err != nil {
			log.Error("could not process issue", "key", key, "error", err)
			continue
		}

		path := filepath.Join(fetchFlags.outputDir, issue.Key+".md")
		if err := os.WriteFile(path, []byte(jira.RenderMarkdown(issue)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info("issue written", "key", issue.Key, "path", path)
		fetched = append(fetched, issue)
	}

	if len(fetched) == 0 {
		fmt.Println("\nNo bug data processed.")
		return nil
	}

	counts := jira.StatusCounts(fetched)
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	fmt.Println("\nBug Status Summary:")
	for _, status := range statuses {
		fmt.Printf("%s: %d\n", status, counts[status])
	}
	return nil
}
