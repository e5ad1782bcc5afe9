package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/horacewang893101/fetch-jira-bug/internal/analyze"
	"github.com/horacewang893101/fetch-jira-bug/internal/report"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAnalyzer mimics the analysis client contract, including the
// empty-content short-circuit.
type fakeAnalyzer struct {
	fail   map[string]error
	urgent map[string]bool
	calls  []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, bugID, content string) (analyze.Result, error) {
	f.calls = append(f.calls, bugID)
	if err := f.fail[bugID]; err != nil {
		return analyze.Result{}, err
	}
	if strings.TrimSpace(content) == "" {
		return analyze.Result{
			BugID:         bugID,
			Summary:       "No content",
			UrgencyReason: "document is empty or has no usable content",
			FixSuggestion: "none",
			HasContent:    false,
		}, nil
	}
	return analyze.Result{
		BugID:         bugID,
		Summary:       "Summary of " + bugID,
		Urgent:        f.urgent[bugID],
		UrgencyReason: "reason",
		FixSuggestion: "fix",
		HasContent:    true,
	}, nil
}

func newTestPipeline(t *testing.T, fake *fakeAnalyzer) (*Pipeline, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "analyzer.md")
	w := report.NewWriter(out, testLogger())
	return New(fake, w, testLogger(), Options{}), out
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun_MissingDirectoryIsZeroWork(t *testing.T) {
	fake := &fakeAnalyzer{}
	p, out := newTestPipeline(t, fake)

	counters, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counters != (Counters{}) {
		t.Errorf("expected zeroed counters, got %+v", counters)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no analysis calls, got %d", len(fake.calls))
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("expected no report artifact for a no-documents run")
	}
}

func TestRun_EmptyDirectoryIsZeroWork(t *testing.T) {
	fake := &fakeAnalyzer{}
	p, out := newTestPipeline(t, fake)

	counters, err := p.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counters != (Counters{}) {
		t.Errorf("expected zeroed counters, got %+v", counters)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("expected no report artifact for a no-documents run")
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "MP-1.md", "The service crashes on startup.")
	writeDoc(t, dir, "MP-2.md", "A label is slightly misaligned.")
	writeDoc(t, dir, "MP-3.md", "")

	fake := &fakeAnalyzer{urgent: map[string]bool{"MP-1": true}}
	p, out := newTestPipeline(t, fake)

	counters, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Counters{Total: 3, Processed: 3, Urgent: 1}
	if counters != want {
		t.Errorf("expected counters %+v, got %+v", want, counters)
	}
	if counters.Deferred() != 2 {
		t.Errorf("expected 2 deferred, got %d", counters.Deferred())
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(content)

	// Sections appear in sorted identifier order after the marker.
	idx1 := strings.Index(text, "### MP-1")
	idx2 := strings.Index(text, "### MP-2")
	idx3 := strings.Index(text, "### MP-3")
	if idx1 < 0 || idx2 < 0 || idx3 < 0 || !(idx1 < idx2 && idx2 < idx3) {
		t.Errorf("expected sections in order, got offsets %d %d %d", idx1, idx2, idx3)
	}
	if !strings.Contains(text, "### MP-3 "+report.BadgeNoContent.Markdown()) {
		t.Error("expected no-content badge for the empty document")
	}
	for _, want := range []string{"**Total bugs:** 3", "**Urgent fixes:** 1", "**Deferred:** 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected summary to contain %q", want)
		}
	}
}

func TestRun_FailedAnalysisFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "MP-1.md", "Content one.")
	writeDoc(t, dir, "MP-2.md", "Content two.")
	writeDoc(t, dir, "MP-3.md", "Content three.")

	fake := &fakeAnalyzer{
		fail: map[string]error{"MP-2": fmt.Errorf("simulated transport failure")},
	}
	p, out := newTestPipeline(t, fake)

	counters, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("a single failed document must not abort the run: %v", err)
	}
	if counters.Processed != 3 {
		t.Errorf("expected processed=3, got %d", counters.Processed)
	}
	if counters.Urgent != 0 {
		t.Errorf("expected urgent=0, got %d", counters.Urgent)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "simulated transport failure") {
		t.Error("expected fallback section to carry the failure text")
	}
	if !strings.Contains(text, "manual review required") {
		t.Error("expected fallback fix suggestion")
	}
	for _, id := range []string{"MP-1", "MP-2", "MP-3"} {
		if !strings.Contains(text, "### "+id) {
			t.Errorf("expected a section for %s", id)
		}
	}
}

func TestRun_ProcessedCountInvariant(t *testing.T) {
	dir := t.TempDir()
	fail := map[string]error{}
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("MP-%d", i)
		writeDoc(t, dir, id+".md", "Content.")
		if i%2 == 0 {
			fail[id] = fmt.Errorf("boom %d", i)
		}
	}

	fake := &fakeAnalyzer{fail: fail, urgent: map[string]bool{"MP-1": true, "MP-3": true}}
	p, _ := newTestPipeline(t, fake)

	counters, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counters.Processed != 5 {
		t.Errorf("expected processed=5, got %d", counters.Processed)
	}
	if counters.Urgent > 5-len(fail) {
		t.Errorf("urgent=%d exceeds successful document count %d", counters.Urgent, 5-len(fail))
	}
	if counters.Urgent > counters.Processed {
		t.Errorf("urgent=%d exceeds processed=%d", counters.Urgent, counters.Processed)
	}
}

func TestFallbackResult_TruncatesLongFailureText(t *testing.T) {
	long := strings.Repeat("x", 150)
	res := fallbackResult("MP-9", fmt.Errorf("%s", long))
	if !strings.Contains(res.UrgencyReason, long[:100]) {
		t.Error("expected the first 100 chars of the failure text")
	}
	if strings.Contains(res.UrgencyReason, long) {
		t.Error("expected the failure text to be truncated")
	}
	if res.FixSuggestion != "manual review required" {
		t.Errorf("expected fallback fix suggestion, got %q", res.FixSuggestion)
	}
	if res.Urgent || res.HasContent {
		t.Error("fallback must be non-urgent and no-content")
	}
}
