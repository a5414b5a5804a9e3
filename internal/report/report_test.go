package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"podlinks/internal/report"
	"podlinks/internal/services"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestWriteCreatesReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "output")
	w := report.NewWriter(dir)
	w.WithClock(fixedClock(time.Date(2024, 5, 17, 9, 41, 27, 0, time.Local)))

	lines := []string{"example.com: Example Domain", "https://foo.org/page: Could not access website"}
	path, err := w.Write(context.Background(), lines)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if want := filepath.Join(dir, "podcast_urls_20240517_0941.md"); path != want {
		t.Fatalf("unexpected path: got %q want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	want := "# Website References from Podcast\n\n" +
		"Generated on: 2024-05-17 09:41:27\n\n" +
		"- example.com: Example Domain\n" +
		"- https://foo.org/page: Could not access website\n"
	if string(data) != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir)

	path, err := w.Write(context.Background(), nil)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, report.Header+"\n") {
		t.Fatalf("expected header first, got %q", content)
	}
	if !strings.Contains(content, "Generated on: ") {
		t.Fatalf("expected timestamp line, got %q", content)
	}
	if strings.Contains(content, "\n- ") {
		t.Fatalf("expected zero bullets, got %q", content)
	}
}

func TestRenderPreservesOrderAndCount(t *testing.T) {
	lines := []string{"c.io: three", "a.io: one", "b.io: two", "a.io: one"}
	doc := report.Render(lines, time.Now())

	var bullets []string
	for _, l := range strings.Split(doc, "\n") {
		if strings.HasPrefix(l, "- ") {
			bullets = append(bullets, strings.TrimPrefix(l, "- "))
		}
	}
	if len(bullets) != len(lines) {
		t.Fatalf("unexpected bullet count: got %d want %d", len(bullets), len(lines))
	}
	for i := range lines {
		if bullets[i] != lines[i] {
			t.Fatalf("bullet %d: got %q want %q", i, bullets[i], lines[i])
		}
	}
}

func TestWriteSameMinuteOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir)
	w.WithClock(fixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)))

	first, err := w.Write(context.Background(), []string{"first.io: one"})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	w.WithClock(fixedClock(time.Date(2024, 1, 2, 3, 4, 50, 0, time.Local)))
	second, err := w.Write(context.Background(), []string{"second.io: two"})
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if first != second {
		t.Fatalf("expected same path, got %q and %q", first, second)
	}
	data, _ := os.ReadFile(second)
	if strings.Contains(string(data), "first.io") || !strings.Contains(string(data), "second.io") {
		t.Fatalf("expected second report to replace the first, got %q", data)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteFailsWhenOutputIsAFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "out")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	w := report.NewWriter(filepath.Join(blocker, "reports"))

	_, err := w.Write(context.Background(), []string{"a.io: one"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrReport) {
		t.Fatalf("expected report marker, got %v", err)
	}
}

func TestWriteWaitsForLock(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, ".podlinks.lock"))
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("acquire test lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := report.NewWriter(dir).Write(ctx, []string{"a.io: one"})
	if !errors.Is(err, services.ErrReport) {
		t.Fatalf("expected report error while lock is held, got %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "podcast_urls_*.md"))
	if len(matches) != 0 {
		t.Fatalf("expected no report while locked, found %v", matches)
	}
}
