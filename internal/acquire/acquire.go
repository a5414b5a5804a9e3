package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"podlinks/internal/logging"
	"podlinks/internal/services"
	"podlinks/internal/stage"
)

// Kind identifies how an episode reference is resolved to audio.
type Kind string

const (
	KindLocal  Kind = "local"
	KindFeed   Kind = "feed"
	KindDirect Kind = "direct"
	KindPage   Kind = "page"
)

// Artifact is a locally materialized audio file.
type Artifact struct {
	Path   string
	Title  string
	Source Kind
	// Reference is the episode reference the artifact was resolved from.
	Reference string
}

// Config captures acquisition settings.
type Config struct {
	DownloadDir  string
	YtDlpBinary  string
	FFmpegBinary string
	AudioFormat  string
	AudioQuality string
	UserAgent    string
	Timeout      time.Duration
	// ForceFeed treats every remote reference as a podcast feed.
	ForceFeed bool
	// LocalOnly resolves every reference as a file on disk.
	LocalOnly bool
}

// CommandRunner executes an external program and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service resolves episode references to local audio files.
type Service struct {
	cfg    Config
	client *http.Client
	runner CommandRunner
	logger *slog.Logger
}

// NewService creates an acquisition service.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.YtDlpBinary == "" {
		cfg.YtDlpBinary = YtDlpCommand
	}
	if cfg.AudioFormat == "" {
		cfg.AudioFormat = DefaultAudioFormat
	}
	if cfg.AudioQuality == "" {
		cfg.AudioQuality = DefaultAudioQuality
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{},
		runner: runCommand,
		logger: logging.NewComponentLogger(logger, "acquire"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// WithHTTPClient sets the client used for feed and direct downloads.
func (s *Service) WithHTTPClient(client *http.Client) {
	if client != nil {
		s.client = client
	}
}

// Acquire resolves ref to a local audio file.
func (s *Service) Acquire(ctx context.Context, ref string) (Artifact, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Artifact{}, services.Wrap(services.ErrValidation, "acquire", "resolve", "episode reference is empty", nil)
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	kind, target, err := s.classify(ctx, ref)
	if err != nil {
		return Artifact{}, err
	}
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("resolving episode",
		logging.String("reference", ref),
		logging.String("source_kind", string(kind)),
	)

	var artifact Artifact
	switch kind {
	case KindLocal:
		artifact = Artifact{Path: target, Title: titleFromPath(target)}
	case KindFeed:
		artifact, err = s.fromFeed(ctx, target)
	case KindDirect:
		artifact, err = s.download(ctx, target, "")
	default:
		artifact, err = s.fromYtDlp(ctx, target)
	}
	if err != nil {
		return Artifact{}, err
	}
	artifact.Source = kind
	artifact.Reference = ref

	logger.Info("episode audio ready",
		logging.String("audio_path", artifact.Path),
		logging.String("title", artifact.Title),
	)
	return artifact, nil
}

// HealthCheck reports whether yt-dlp is available for page-style links.
func (s *Service) HealthCheck(context.Context) stage.Health {
	const name = "acquire"
	if _, err := exec.LookPath(s.cfg.YtDlpBinary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("%s not found; only local files, feeds and direct audio links will work", s.cfg.YtDlpBinary))
	}
	if strings.TrimSpace(s.cfg.DownloadDir) == "" {
		return stage.Unhealthy(name, "download directory not configured")
	}
	return stage.Healthy(name)
}

func (s *Service) classify(ctx context.Context, ref string) (Kind, string, error) {
	if s.cfg.LocalOnly {
		return classifyLocal(ref)
	}
	if !hasScheme(ref) {
		ref = expandHome(ref)
		if info, err := os.Stat(ref); err == nil {
			if info.IsDir() {
				return "", "", services.Wrap(services.ErrValidation, "acquire", "resolve", ref+" is a directory", nil)
			}
			abs, err := filepath.Abs(ref)
			if err != nil {
				abs = ref
			}
			return KindLocal, abs, nil
		}
		if looksLikePath(ref) {
			return "", "", services.Wrap(services.ErrNotFound, "acquire", "resolve", "audio file not found: "+ref, os.ErrNotExist)
		}
		ref = "https://" + ref
	}

	parsed, err := url.Parse(ref)
	if err != nil || parsed.Host == "" {
		return "", "", services.Wrap(services.ErrValidation, "acquire", "resolve", "unsupported episode reference: "+ref, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", "", services.Wrap(services.ErrValidation, "acquire", "resolve", "unsupported scheme "+parsed.Scheme, nil)
	}

	if s.cfg.ForceFeed || looksLikeFeed(parsed) {
		return KindFeed, ref, nil
	}
	if isAudioExt(path.Ext(parsed.Path)) {
		return KindDirect, ref, nil
	}
	return s.sniff(ctx, ref), ref, nil
}

func classifyLocal(ref string) (Kind, string, error) {
	ref = expandHome(ref)
	info, err := os.Stat(ref)
	if err != nil {
		return "", "", services.Wrap(services.ErrNotFound, "acquire", "resolve", "audio file not found: "+ref, err)
	}
	if info.IsDir() {
		return "", "", services.Wrap(services.ErrValidation, "acquire", "resolve", ref+" is a directory", nil)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		abs = ref
	}
	return KindLocal, abs, nil
}

// sniff issues a HEAD request to spot audio files and feeds served without a
// telling extension. Any failure defers to yt-dlp.
func (s *Service) sniff(ctx context.Context, link string) Kind {
	headCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(headCtx, http.MethodHead, link, nil)
	if err != nil {
		return KindPage
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return KindPage
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return KindPage
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.HasPrefix(contentType, "audio/"):
		return KindDirect
	case strings.Contains(contentType, "rss"), strings.Contains(contentType, "atom"),
		strings.HasPrefix(contentType, "application/xml"), strings.HasPrefix(contentType, "text/xml"):
		return KindFeed
	default:
		return KindPage
	}
}

func (s *Service) setHeaders(req *http.Request) {
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}
}

func hasScheme(ref string) bool {
	return strings.Contains(ref, "://")
}

func looksLikePath(ref string) bool {
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, ".") || strings.HasPrefix(ref, "~") {
		return true
	}
	first, _, hasSlash := strings.Cut(ref, "/")
	if !hasSlash {
		return isAudioExt(filepath.Ext(ref))
	}
	return !strings.Contains(first, ".")
}

func expandHome(ref string) string {
	if ref != "~" && !strings.HasPrefix(ref, "~/") {
		return ref
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ref
	}
	return filepath.Join(home, strings.TrimPrefix(ref, "~"))
}

func looksLikeFeed(u *url.URL) bool {
	p := strings.ToLower(u.Path)
	switch path.Ext(p) {
	case ".rss", ".xml", ".atom":
		return true
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == "feed" || segment == "rss" || segment == "podcast.xml" {
			return true
		}
	}
	host := strings.ToLower(u.Hostname())
	return strings.HasPrefix(host, "feeds.") || strings.HasPrefix(host, "rss.")
}

var audioExts = map[string]struct{}{
	".mp3": {}, ".m4a": {}, ".aac": {}, ".wav": {}, ".ogg": {}, ".oga": {}, ".opus": {}, ".flac": {},
}

func isAudioExt(ext string) bool {
	_, ok := audioExts[strings.ToLower(ext)]
	return ok
}

func titleFromPath(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || stderr.Len() > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
