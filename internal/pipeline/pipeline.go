// Package pipeline drives the bug analysis run: discover documents,
// analyze each one in order, and stream sections into the report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/horacewang893101/fetch-jira-bug/internal/analyze"
	"github.com/horacewang893101/fetch-jira-bug/internal/parser"
	"github.com/horacewang893101/fetch-jira-bug/internal/report"
	"github.com/horacewang893101/fetch-jira-bug/internal/source"
)

// Analyzer is the capability the pipeline needs from the analysis
// client. Satisfied by *analyze.Client and by test doubles.
type Analyzer interface {
	Analyze(ctx context.Context, bugID, content string) (analyze.Result, error)
}

// Counters tracks run progress. Processed increments exactly once per
// discovered document, whether its analysis succeeded or not.
type Counters struct {
	Total     int
	Processed int
	Urgent    int
}

// Deferred returns the number of bugs that do not need an urgent fix.
func (c Counters) Deferred() int {
	return c.Processed - c.Urgent
}

// Options tunes pipeline behavior.
type Options struct {
	MaxContentChars int
	Parser          parser.Options
}

// Pipeline processes bug documents strictly one at a time in
// discovery order. One document's failure never aborts the run; only
// report I/O errors do.
type Pipeline struct {
	analyzer Analyzer
	writer   *report.Writer
	log      *slog.Logger
	opts     Options
}

func New(analyzer Analyzer, writer *report.Writer, log *slog.Logger, opts Options) *Pipeline {
	return &Pipeline{
		analyzer: analyzer,
		writer:   writer,
		log:      log,
		opts:     opts,
	}
}

// Run analyzes every document in dir and produces the report. With no
// documents it returns zeroed counters without creating an artifact.
func (p *Pipeline) Run(ctx context.Context, dir string) (Counters, error) {
	var counters Counters

	docs, err := source.List(dir)
	if err != nil {
		return counters, fmt.Errorf("discover documents: %w", err)
	}
	if len(docs) == 0 {
		p.log.Warn("no bug documents found", "dir", dir)
		return counters, nil
	}
	counters.Total = len(docs)
	p.log.Info("starting bug analysis", "dir", dir, "documents", counters.Total)

	if err := p.writer.WriteHeader(); err != nil {
		return counters, err
	}

	for i, doc := range docs {
		p.log.Info("processing bug", "bug_id", doc.ID, "index", i+1, "total", counters.Total)

		res, err := p.analyzeDocument(ctx, doc)
		if err != nil {
			p.log.Error("analysis failed, using fallback", "bug_id", doc.ID, "error", err)
			res = fallbackResult(doc.ID, err)
		}
		// The identifier comes from discovery, never from the model.
		res.BugID = doc.ID

		counters.Processed++
		if res.Urgent {
			counters.Urgent++
		}

		if err := p.writer.Append(res); err != nil {
			return counters, err
		}
	}

	stats := report.Stats{
		Total:    counters.Total,
		Urgent:   counters.Urgent,
		Deferred: counters.Deferred(),
	}
	if err := p.writer.Finalize(stats); err != nil {
		return counters, err
	}

	p.log.Info("bug analysis completed", "total", counters.Total, "urgent", counters.Urgent)
	return counters, nil
}

// analyzeDocument reads one document and runs it through the
// analyzer. Read failures are folded into the same fallback path as
// analysis failures.
func (p *Pipeline) analyzeDocument(ctx context.Context, doc source.Document) (analyze.Result, error) {
	content, err := parser.ExtractText(doc.Path, p.opts.Parser)
	if err != nil {
		return analyze.Result{}, fmt.Errorf("read document: %w", err)
	}
	if p.opts.MaxContentChars > 0 && len(content) > p.opts.MaxContentChars {
		p.log.Warn("truncating oversized document", "bug_id", doc.ID,
			"size", len(content), "limit", p.opts.MaxContentChars)
		content = content[:p.opts.MaxContentChars]
	}
	return p.analyzer.Analyze(ctx, doc.ID, content)
}

// fallbackResult synthesizes the section written for a document whose
// read or analysis failed.
func fallbackResult(bugID string, err error) analyze.Result {
	return analyze.Result{
		BugID:         bugID,
		Summary:       "Analysis failed",
		Urgent:        false,
		UrgencyReason: "analysis error: " + truncate(err.Error(), 100),
		FixSuggestion: "manual review required",
		HasContent:    false,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
