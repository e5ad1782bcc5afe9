// Package report owns the analysis report artifact. The writer is a
// small state machine: the header goes out first, per-bug sections are
// appended incrementally so partial progress survives an interrupted
// run, and the summary is spliced in before the section marker at the
// end.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/horacewang893101/fetch-jira-bug/internal/analyze"
)

// Marker is the fixed heading the summary block is spliced in front
// of. It is written by WriteHeader and located again by Finalize.
const Marker = "## Bug Details"

// Stats feeds the summary block.
type Stats struct {
	Total    int
	Urgent   int
	Deferred int
}

type state int

const (
	stateEmpty state = iota
	stateHeaderWritten
	stateFinalized
)

// Writer produces the markdown report artifact. It is the only
// component that touches the output file.
type Writer struct {
	path  string
	log   *slog.Logger
	state state
	now   func() time.Time
}

func NewWriter(path string, log *slog.Logger) *Writer {
	return &Writer{
		path: path,
		log:  log,
		now:  time.Now,
	}
}

// Path returns the artifact location.
func (w *Writer) Path() string {
	return w.path
}

// WriteHeader creates the artifact with a title, a timestamp, and the
// section marker. Valid only on a fresh writer.
func (w *Writer) WriteHeader() error {
	if w.state != stateEmpty {
		return fmt.Errorf("report: header already written")
	}

	header := fmt.Sprintf(`# Bug Analysis Report

**Generated:** %s

---

%s

`, w.now().Format("2006-01-02 15:04:05"), Marker)

	if err := os.WriteFile(w.path, []byte(header), 0o644); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	w.state = stateHeaderWritten
	w.log.Info("report header written", "path", w.path)
	return nil
}

// Append adds one bug section to the artifact. The section is written
// with a single write call so an externally killed run never leaves a
// torn section behind.
func (w *Writer) Append(res analyze.Result) error {
	if w.state != stateHeaderWritten {
		return fmt.Errorf("report: append requires a written header")
	}

	badge := DeriveBadge(res.Urgent, res.HasContent)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### %s %s\n\n", res.BugID, badge.Markdown()))
	sb.WriteString(fmt.Sprintf("**Summary:**\n%s\n\n", res.Summary))
	sb.WriteString(fmt.Sprintf("**Priority:**\n%s\n\n", res.UrgencyReason))
	sb.WriteString(fmt.Sprintf("**Suggested fix:**\n%s\n\n", res.FixSuggestion))
	sb.WriteString("---\n\n")

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open report for append: %w", err)
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return fmt.Errorf("append bug section: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// Finalize splices the summary block in immediately before the
// section marker and seals the writer. A missing marker means the
// file was altered by an external actor; that is logged and the
// artifact is left untouched.
func (w *Writer) Finalize(stats Stats) error {
	if w.state != stateHeaderWritten {
		return fmt.Errorf("report: finalize requires a written header")
	}

	content, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("read report for summary: %w", err)
	}

	idx := strings.Index(string(content), Marker)
	if idx < 0 {
		w.log.Warn("section marker not found, skipping summary", "path", w.path, "marker", Marker)
		w.state = stateFinalized
		return nil
	}

	summary := fmt.Sprintf(`## Summary

- **Total bugs:** %d
- **Urgent fixes:** %d
- **Deferred:** %d

`, stats.Total, stats.Urgent, stats.Deferred)

	var sb strings.Builder
	sb.Write(content[:idx])
	sb.WriteString(summary)
	sb.Write(content[idx:])

	if err := os.WriteFile(w.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	w.state = stateFinalized
	w.log.Info("report summary written", "path", w.path)
	return nil
}
