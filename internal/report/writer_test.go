package report

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/horacewang893101/fetch-jira-bug/internal/analyze"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWriter(t *testing.T) *Writer {
	t.Helper()
	return NewWriter(filepath.Join(t.TempDir(), "analyzer.md"), testLogger())
}

func sampleResult(id string, urgent bool) analyze.Result {
	return analyze.Result{
		BugID:         id,
		Summary:       "Something is broken.",
		Urgent:        urgent,
		UrgencyReason: "It affects checkout.",
		FixSuggestion: "Add a nil check.",
		HasContent:    true,
	}
}

func TestWriter_HeaderContainsMarker(t *testing.T) {
	w := testWriter(t)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), Marker) {
		t.Errorf("expected header to contain marker %q", Marker)
	}
	if !strings.HasPrefix(string(content), "# Bug Analysis Report") {
		t.Errorf("expected title first, got %q", string(content)[:40])
	}
}

func TestWriter_AppendBeforeHeaderFails(t *testing.T) {
	w := testWriter(t)
	if err := w.Append(sampleResult("MP-1", false)); err == nil {
		t.Error("expected error appending before header")
	}
}

func TestWriter_FinalizeBeforeHeaderFails(t *testing.T) {
	w := testWriter(t)
	if err := w.Finalize(Stats{}); err == nil {
		t.Error("expected error finalizing before header")
	}
}

func TestWriter_DoubleHeaderFails(t *testing.T) {
	w := testWriter(t)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteHeader(); err == nil {
		t.Error("expected error writing header twice")
	}
}

func TestWriter_AppendAfterFinalizeFails(t *testing.T) {
	w := testWriter(t)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Finalize(Stats{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Append(sampleResult("MP-1", false)); err == nil {
		t.Error("expected error appending after finalize")
	}
}

func TestWriter_SectionFormat(t *testing.T) {
	w := testWriter(t)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Append(sampleResult("MP-7", true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(content)

	for _, want := range []string{
		"### MP-7 " + BadgeUrgent.Markdown(),
		"**Summary:**\nSomething is broken.",
		"**Priority:**\nIt affects checkout.",
		"**Suggested fix:**\nAdd a nil check.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected section to contain %q", want)
		}
	}
}

func TestWriter_SummaryPlacement(t *testing.T) {
	w := testWriter(t)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Append(sampleResult("MP-1", true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Append(sampleResult("MP-2", false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Finalize(Stats{Total: 2, Urgent: 1, Deferred: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(content)

	summaryIdx := strings.Index(text, "## Summary")
	markerIdx := strings.Index(text, Marker)
	firstSection := strings.Index(text, "### MP-1")
	secondSection := strings.Index(text, "### MP-2")

	if summaryIdx < 0 || markerIdx < 0 || firstSection < 0 || secondSection < 0 {
		t.Fatalf("missing regions: summary=%d marker=%d first=%d second=%d",
			summaryIdx, markerIdx, firstSection, secondSection)
	}
	if !(summaryIdx < markerIdx) {
		t.Errorf("summary (%d) must come before marker (%d)", summaryIdx, markerIdx)
	}
	if !(markerIdx < firstSection && firstSection < secondSection) {
		t.Errorf("sections must follow marker in append order: marker=%d first=%d second=%d",
			markerIdx, firstSection, secondSection)
	}
	for _, want := range []string{"**Total bugs:** 2", "**Urgent fixes:** 1", "**Deferred:** 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected summary to contain %q", want)
		}
	}
}

func TestWriter_FinalizeMissingMarkerIsNoOp(t *testing.T) {
	w := testWriter(t)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Simulate an external actor rewriting the artifact.
	if err := os.WriteFile(w.Path(), []byte("custom content\n"), 0o644); err != nil {
		t.Fatalf("rewrite report: %v", err)
	}
	if err := w.Finalize(Stats{Total: 1}); err != nil {
		t.Fatalf("expected no error when marker is missing, got %v", err)
	}
	content, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(content) != "custom content\n" {
		t.Errorf("expected artifact untouched, got %q", string(content))
	}
}
