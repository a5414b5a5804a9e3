package acquire_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"podlinks/internal/acquire"
	"podlinks/internal/logging"
	"podlinks/internal/services"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test Cast</title>
  <item>
    <title>Older Episode</title>
    <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
    <enclosure url="%[1]s/audio/older.mp3" type="audio/mpeg" length="4"/>
  </item>
  <item>
    <title>Show Notes Only</title>
    <pubDate>Wed, 03 Jan 2024 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Newest: Episode/42</title>
    <pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate>
    <enclosure url="%[1]s/audio/newest.mp3" type="audio/mpeg" length="4"/>
  </item>
</channel>
</rss>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, feedXML, srv.URL)
	})
	mux.HandleFunc("/audio/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		fmt.Fprint(w, strings.TrimPrefix(r.URL.Path, "/audio/"))
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mp4")
		if r.Method == http.MethodHead {
			return
		}
		fmt.Fprint(w, "m4a")
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html></html>")
	})
	mux.HandleFunc("/gone.mp3", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, cfg acquire.Config) (*acquire.Service, string) {
	t.Helper()
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(t.TempDir(), "downloads")
	}
	svc := acquire.NewService(cfg, logging.NewNop())
	svc.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		t.Fatalf("yt-dlp should not run")
		return nil, nil
	})
	return svc, cfg.DownloadDir
}

func TestAcquireLocalFile(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "episode one.mp3")
	if err := os.WriteFile(audio, []byte("x"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	svc, _ := newService(t, acquire.Config{})

	artifact, err := svc.Acquire(context.Background(), "  "+audio+"  ")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if artifact.Path != audio {
		t.Fatalf("unexpected path: got %q want %q", artifact.Path, audio)
	}
	if artifact.Title != "episode one" {
		t.Fatalf("unexpected title: got %q", artifact.Title)
	}
	if artifact.Source != acquire.KindLocal {
		t.Fatalf("unexpected source: got %s", artifact.Source)
	}
}

func TestAcquireMissingLocalFile(t *testing.T) {
	svc, _ := newService(t, acquire.Config{})
	missing := filepath.Join(t.TempDir(), "nope.mp3")

	_, err := svc.Acquire(context.Background(), missing)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcquireLocalOnlyMissingFileNeverGoesRemote(t *testing.T) {
	svc, _ := newService(t, acquire.Config{LocalOnly: true})
	missing := filepath.Join(t.TempDir(), "notes")

	for _, ref := range []string{missing, "notes", "example.com/episode"} {
		_, err := svc.Acquire(context.Background(), ref)
		if !errors.Is(err, services.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for %q, got %v", ref, err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected os.ErrNotExist for %q, got %v", ref, err)
		}
	}
}

func TestAcquireLocalOnlyResolvesFile(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "notes")
	if err := os.WriteFile(audio, []byte("x"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	svc, _ := newService(t, acquire.Config{LocalOnly: true})

	artifact, err := svc.Acquire(context.Background(), audio)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if artifact.Path != audio || artifact.Source != acquire.KindLocal {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
}

func TestAcquireLocalOnlyRejectsDirectory(t *testing.T) {
	svc, _ := newService(t, acquire.Config{LocalOnly: true})
	if _, err := svc.Acquire(context.Background(), t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAcquireRejectsEmptyReference(t *testing.T) {
	svc, _ := newService(t, acquire.Config{})
	if _, err := svc.Acquire(context.Background(), "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAcquireDirectDownload(t *testing.T) {
	srv := newServer(t)
	svc, dir := newService(t, acquire.Config{})

	artifact, err := svc.Acquire(context.Background(), srv.URL+"/audio/show.mp3")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if want := filepath.Join(dir, "show.mp3"); artifact.Path != want {
		t.Fatalf("unexpected path: got %q want %q", artifact.Path, want)
	}
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "show.mp3" {
		t.Fatalf("unexpected body: %q", data)
	}
	if artifact.Source != acquire.KindDirect {
		t.Fatalf("unexpected source: got %s", artifact.Source)
	}
}

func TestAcquireDirectDownloadStatusError(t *testing.T) {
	srv := newServer(t)
	svc, dir := newService(t, acquire.Config{})

	_, err := svc.Acquire(context.Background(), srv.URL+"/gone.mp3")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, got %d", len(entries))
	}
}

func TestAcquireFeedPicksNewestEnclosure(t *testing.T) {
	srv := newServer(t)
	svc, dir := newService(t, acquire.Config{UserAgent: "podlinks-test"})

	artifact, err := svc.Acquire(context.Background(), srv.URL+"/feed.xml")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if artifact.Title != "Newest: Episode/42" {
		t.Fatalf("unexpected title: got %q", artifact.Title)
	}
	if filepath.Dir(artifact.Path) != dir {
		t.Fatalf("download landed outside %s: %s", dir, artifact.Path)
	}
	if strings.ContainsAny(filepath.Base(artifact.Path), "/:") {
		t.Fatalf("file name not sanitized: %q", filepath.Base(artifact.Path))
	}
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "newest.mp3" {
		t.Fatalf("unexpected enclosure downloaded: %q", data)
	}
}

func TestAcquireHeadRequestDetectsAudio(t *testing.T) {
	srv := newServer(t)
	svc, dir := newService(t, acquire.Config{})

	artifact, err := svc.Acquire(context.Background(), srv.URL+"/stream")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if want := filepath.Join(dir, "stream.m4a"); artifact.Path != want {
		t.Fatalf("unexpected path: got %q want %q", artifact.Path, want)
	}
}

func TestAcquirePageUsesYtDlp(t *testing.T) {
	srv := newServer(t)
	dir := filepath.Join(t.TempDir(), "downloads")
	svc := acquire.NewService(acquire.Config{
		DownloadDir:  dir,
		YtDlpBinary:  "/opt/yt-dlp",
		FFmpegBinary: "/opt/ffmpeg",
		UserAgent:    "podlinks-test",
	}, logging.NewNop())

	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		out := filepath.Join(dir, "Episode Title.mp3")
		if err := os.WriteFile(out, []byte("x"), 0o644); err != nil {
			return nil, err
		}
		return []byte("\n" + out + "\n"), nil
	})

	link := srv.URL + "/watch"
	artifact, err := svc.Acquire(context.Background(), link)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if gotName != "/opt/yt-dlp" {
		t.Fatalf("unexpected binary: %q", gotName)
	}
	for _, want := range []string{"--extract-audio", "mp3", "192K", "/opt/ffmpeg", "podlinks-test", "after_move:filepath"} {
		if !slices.Contains(gotArgs, want) {
			t.Fatalf("expected %q in args %v", want, gotArgs)
		}
	}
	if gotArgs[len(gotArgs)-1] != link {
		t.Fatalf("expected link last, got %v", gotArgs)
	}
	if artifact.Title != "Episode Title" || artifact.Source != acquire.KindPage {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
}

func TestAcquireYtDlpFailure(t *testing.T) {
	srv := newServer(t)
	svc, _ := newService(t, acquire.Config{})
	svc.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1: unsupported URL")
	})

	_, err := svc.Acquire(context.Background(), srv.URL+"/watch")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestHealthCheckReportsMissingBinary(t *testing.T) {
	svc, _ := newService(t, acquire.Config{YtDlpBinary: filepath.Join(t.TempDir(), "missing-yt-dlp")})
	health := svc.HealthCheck(context.Background())
	if health.Ready {
		t.Fatalf("expected unhealthy, got %+v", health)
	}
}
