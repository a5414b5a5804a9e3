package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"podlinks/internal/services"
)

const (
	// MaxTimeout bounds a single page request.
	MaxTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
)

// Page holds the parts of a document the enricher summarizes. Either text
// field may be empty.
type Page struct {
	Title       string
	Description string
	// StatusCode is the HTTP status the page was served with. Error pages are
	// parsed like any other body.
	StatusCode int
}

// Fetcher retrieves and parses a web page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Page, error)
}

// FetcherConfig configures an HTTPFetcher.
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	// ReadabilityFallback derives a title or excerpt from the article body
	// when the page has neither a meta description nor a title element.
	ReadabilityFallback bool
	// Client overrides the HTTP client (tests).
	Client *http.Client
}

// HTTPFetcher fetches pages with browser-like headers and parses them with goquery.
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	readability bool
}

// NewHTTPFetcher constructs a fetcher. Timeouts above MaxTimeout are clamped.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	return &HTTPFetcher{
		client:      client,
		timeout:     timeout,
		userAgent:   strings.TrimSpace(cfg.UserAgent),
		readability: cfg.ReadabilityFallback,
	}
}

// Fetch performs a single GET and extracts the title and meta description.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page{}, services.Wrap(services.ErrValidation, "enrich", "build request", "", err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Page{}, services.Wrap(services.ErrTimeout, "enrich", "fetch", fmt.Sprintf("no response within %s", f.timeout), err)
		}
		return Page{}, services.Wrap(services.ErrExternalTool, "enrich", "fetch", "", err)
	}
	defer drainAndClose(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, services.Wrap(services.ErrExternalTool, "enrich", "read body", "", err)
	}

	page, err := parsePage(body)
	if err != nil {
		return Page{}, err
	}
	if page.Title == "" && page.Description == "" && f.readability {
		page = readabilityPage(body, resp.Request.URL)
	}
	page.StatusCode = resp.StatusCode
	return page, nil
}

func (f *HTTPFetcher) setHeaders(req *http.Request) {
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func parsePage(body []byte) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, services.Wrap(services.ErrValidation, "enrich", "parse html", "", err)
	}

	var page Page
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		content, _ := s.Attr("content")
		page.Description = strings.TrimSpace(content)
		return false
	})
	return page, nil
}

func readabilityPage(body []byte, pageURL *url.URL) Page {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return Page{}
	}
	return Page{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
	_ = body.Close()
}
