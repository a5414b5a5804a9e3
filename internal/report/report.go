package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"podlinks/internal/fileutil"
	"podlinks/internal/services"
)

const (
	// Header is the first line of every report.
	Header = "# Website References from Podcast"

	// FileNameLayout stamps report file names at minute granularity.
	FileNameLayout = "20060102_1504"
	// GeneratedLayout stamps the generation line at second granularity.
	GeneratedLayout = "2006-01-02 15:04:05"

	lockFileName  = ".podlinks.lock"
	lockRetryWait = 50 * time.Millisecond
)

// Writer renders description lines into a timestamped Markdown report.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter returns a Writer that stores reports under dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// WithClock overrides the time source (tests).
func (w *Writer) WithClock(now func() time.Time) {
	if now != nil {
		w.now = now
	}
}

// FileName returns the report name for a run finishing at t.
func FileName(t time.Time) string {
	return "podcast_urls_" + t.Format(FileNameLayout) + ".md"
}

// Render builds the report document for lines generated at t.
func Render(lines []string, t time.Time) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	b.WriteString("Generated on: ")
	b.WriteString(t.Format(GeneratedLayout))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Write persists lines as a report and returns the path written. A second
// write within the same minute replaces the earlier file. Any filesystem
// failure is returned wrapped with services.ErrReport.
func (w *Writer) Write(ctx context.Context, lines []string) (string, error) {
	if strings.TrimSpace(w.dir) == "" {
		return "", services.Wrap(services.ErrReport, "report", "prepare", "output directory not configured", services.ErrConfiguration)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrReport, "report", "create output directory", w.dir, err)
	}

	lock := flock.New(filepath.Join(w.dir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return "", services.Wrap(services.ErrReport, "report", "lock output directory", w.dir, err)
	}
	if !locked {
		return "", services.Wrap(services.ErrReport, "report", "lock output directory", "another run is writing a report", nil)
	}
	defer func() { _ = lock.Unlock() }()

	now := w.now()
	path := filepath.Join(w.dir, FileName(now))
	if _, err := fileutil.WriteAtomic(path, strings.NewReader(Render(lines, now)), 0o644); err != nil {
		return "", services.Wrap(services.ErrReport, "report", "write", path, err)
	}
	return path, nil
}
