package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"podlinks/internal/logging"
	"podlinks/internal/textutil"
)

// DefaultMaxSummaryLength is the number of characters kept from a summary.
const DefaultMaxSummaryLength = 150

var errNoSummary = errors.New("page has no description or title")

// Enricher turns a URL mention into a one-line description of the site.
type Enricher struct {
	fetcher Fetcher
	logger  *slog.Logger
	maxLen  int
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger used for per-URL result lines.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// WithMaxSummaryLength overrides the summary length limit. Values outside
// 1..DefaultMaxSummaryLength are ignored.
func WithMaxSummaryLength(n int) Option {
	return func(e *Enricher) {
		if n > 0 && n <= DefaultMaxSummaryLength {
			e.maxLen = n
		}
	}
}

// New constructs an Enricher around the given page fetcher.
func New(fetcher Fetcher, opts ...Option) *Enricher {
	e := &Enricher{
		fetcher: fetcher,
		logger:  logging.NewNop(),
		maxLen:  DefaultMaxSummaryLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// Enrich describes rawURL. It never returns an error: every failure becomes an
// Unreachable result so one bad site cannot abort a batch.
func (e *Enricher) Enrich(ctx context.Context, rawURL string) (result Result) {
	result = Result{URL: rawURL, Kind: Unreachable}
	logger := logging.WithContext(ctx, e.logger)

	defer func() {
		if r := recover(); r != nil {
			result = Result{URL: rawURL, Kind: Unreachable, Err: fmt.Errorf("fetch panicked: %v", r)}
		}
		e.logResult(logger, result)
	}()

	if e.fetcher == nil {
		result.Err = errors.New("no page fetcher configured")
		return result
	}

	page, err := e.fetcher.Fetch(ctx, Normalize(rawURL))
	if err != nil {
		result.Err = err
		return result
	}

	result.StatusCode = page.StatusCode
	summary := page.Description
	if strings.TrimSpace(summary) == "" {
		summary = page.Title
	}
	summary = textutil.Summarize(summary, e.maxLen)
	if summary == "" {
		result.Err = errNoSummary
		if page.StatusCode >= 400 {
			result.Err = fmt.Errorf("status %d: %w", page.StatusCode, errNoSummary)
		}
		return result
	}

	result.Kind = Described
	result.Summary = summary
	return result
}

// Describe is shorthand for Enrich(ctx, rawURL).Line().
func (e *Enricher) Describe(ctx context.Context, rawURL string) string {
	return e.Enrich(ctx, rawURL).Line()
}

func (e *Enricher) logResult(logger *slog.Logger, result Result) {
	if result.Kind == Described {
		logger.Info("website described",
			logging.String(logging.FieldEventType, "enrich_described"),
			logging.String(logging.FieldURL, result.URL),
			logging.Int("summary_length", len([]rune(result.Summary))),
			logging.Int("status_code", result.StatusCode),
		)
		return
	}
	logging.WarnWithContext(logger, "website unreachable", "enrich_unreachable",
		logging.String(logging.FieldURL, result.URL),
		logging.Error(result.Err),
		logging.String(logging.FieldErrorHint, "entry reported as "+UnreachableSummary),
	)
}

// Normalize prefixes https:// when rawURL has no http or https scheme.
func Normalize(rawURL string) string {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}
