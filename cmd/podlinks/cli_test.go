package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"podlinks/internal/config"
	"podlinks/internal/services"
	"podlinks/internal/testsupport"
)

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tools", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Tools</title><meta name="description" content="Handy developer tools."></head></html>`)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func reportFiles(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(cfg.Paths.OutputDir, "podcast_urls_*.md"))
	if err != nil {
		t.Fatalf("glob reports: %v", err)
	}
	return matches
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, configPath)

	target := filepath.Join(t.TempDir(), "podlinks.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	out, _, err = runCLI(t, []string{"config", "validate"}, target, "")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowRedactsToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcription.HFToken = "hf_secret"
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"config", "show"}, configPath, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[enrich]")
	requireContains(t, out, "<redacted>")
	if strings.Contains(out, "hf_secret") {
		t.Fatalf("token leaked in output:\n%s", out)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	data = bytes.Replace(data, []byte("timeout_seconds = 10"), []byte("timeout_seconds = 30"), 1)
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err = runCLI(t, []string{"config", "validate"}, configPath, "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestExtractCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"extract"}, "", "check out example.com and https://foo.org/page\nagain example.com\n")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if want := "example.com\nhttps://foo.org/page\n"; out != want {
		t.Fatalf("unexpected output: got %q want %q", out, want)
	}

	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "notes.txt"), "nothing to see here")
	out, _, err = runCLI(t, []string{"extract", path}, "", "")
	if err != nil {
		t.Fatalf("extract file: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestScanWritesReport(t *testing.T) {
	srv := newSiteServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithEnrichTimeout(2))
	configPath := testsupport.WriteConfigFile(t, cfg)
	transcript := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "episode.txt"),
		fmt.Sprintf("Today we looked at %s/tools and %s/gone and %s/tools again.", srv.URL, srv.URL, srv.URL))

	out, _, err := runCLI(t, []string{"scan", transcript}, configPath, "")
	if err != nil {
		t.Fatalf("scan: %v\n%s", err, out)
	}
	requireContains(t, out, "Website Analyst")
	requireContains(t, out, "Run summary")

	reports := reportFiles(t, cfg)
	if len(reports) != 1 {
		t.Fatalf("expected one report, got %v", reports)
	}
	data, err := os.ReadFile(reports[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	body := string(data)
	requireContains(t, body, "# Website References from Podcast")
	requireContains(t, body, "- "+srv.URL+"/tools: Handy developer tools.\n")
	requireContains(t, body, "- "+srv.URL+"/gone: Could not access website\n")
	if strings.Count(body, "\n- ") != 2 {
		t.Fatalf("expected exactly two bullets:\n%s", body)
	}
	requireContains(t, out, body)

	logs, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, "process_*.log"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one process log, got %v (%v)", logs, err)
	}
}

func TestScanMissingTranscriptWritesNoReport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"scan", filepath.Join(t.TempDir(), "missing.txt")}, configPath, "")
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
	if reports := reportFiles(t, cfg); len(reports) != 0 {
		t.Fatalf("expected no report, got %v", reports)
	}
}

func newNtfyServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var mu sync.Mutex
	var titles []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		titles = append(titles, r.Header.Get("Title"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), titles...)
	}
}

func TestScanSendsNotifications(t *testing.T) {
	ntfy, titles := newNtfyServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ntfy.URL
	configPath := testsupport.WriteConfigFile(t, cfg)
	transcript := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "episode.txt"), "no links today")

	if out, _, err := runCLI(t, []string{"scan", transcript}, configPath, ""); err != nil {
		t.Fatalf("scan: %v\n%s", err, out)
	}
	if _, _, err := runCLI(t, []string{"scan", filepath.Join(t.TempDir(), "missing.txt")}, configPath, ""); err == nil {
		t.Fatal("expected scan of missing transcript to fail")
	}

	want := []string{"podlinks - Report Ready", "podlinks - Error"}
	if got := titles(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected notifications %v, got %v", want, got)
	}
}

func TestTestNotify(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)
	if _, _, err := runCLI(t, []string{"test-notify"}, configPath, ""); err == nil || !strings.Contains(err.Error(), "notifications disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}

	ntfy, titles := newNtfyServer(t)
	cfg.Notifications.NtfyTopic = ntfy.URL
	configPath = testsupport.WriteConfigFile(t, cfg)
	out, _, err := runCLI(t, []string{"test-notify"}, configPath, "")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if got := titles(); len(got) != 1 || got[0] != "podlinks - Test" {
		t.Fatalf("unexpected notifications %v", got)
	}
}

func TestLogsShowsLatestProcessLog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)

	if _, _, err := runCLI(t, []string{"logs"}, configPath, ""); err == nil {
		t.Fatal("expected error without process logs")
	}

	transcript := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "episode.txt"), "no links today")
	if out, _, err := runCLI(t, []string{"scan", transcript}, configPath, ""); err != nil {
		t.Fatalf("scan: %v\n%s", err, out)
	}
	out, _, err := runCLI(t, []string{"logs", "-n", "200"}, configPath, "")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "stage_complete")
}

const uvxScript = `prev=""
for a in "$@"; do
  case "$prev" in
    --output_dir) out="$a" ;;
    whisperx) src="$a" ;;
  esac
  prev="$a"
done
base=$(basename "$src" .wav)
cat > "$out/$base.json" <<'JSON'
{"language":"en","segments":[{"text":"Thanks for listening. Visit SITE for the tools we used."}]}
JSON
`

const ffmpegScript = `for a in "$@"; do last="$a"; done
: > "$last"
`

func TestRunWithLocalAudioFile(t *testing.T) {
	srv := newSiteServer(t)
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries("yt-dlp"),
		testsupport.WithStubScript("ffmpeg", ffmpegScript),
		testsupport.WithStubScript("uvx", strings.ReplaceAll(uvxScript, "SITE", srv.URL+"/tools")),
		testsupport.WithEnrichTimeout(2),
	)
	configPath := testsupport.WriteConfigFile(t, cfg)
	audio := testsupport.WriteFile(t, filepath.Join(testsupport.BaseDir(cfg), "episode.mp3"), "audio")

	out, _, err := runCLI(t, []string{"run", "--file", audio}, configPath, "")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "Crew:")
	requireContains(t, out, "Podcast Downloader")
	requireContains(t, out, "Language:   English")
	requireContains(t, out, srv.URL+"/tools: Handy developer tools.")

	if reports := reportFiles(t, cfg); len(reports) != 1 {
		t.Fatalf("expected one report, got %v", reports)
	}
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected work dir to be cleaned, found %d entries", len(entries))
	}
}

func TestRunFileFlagMissingFileStaysLocal(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "yt-dlp-called")
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("yt-dlp", "echo called > "+marker+"\nexit 1\n"),
		testsupport.WithStubbedBinaries("ffmpeg", "uvx"),
	)
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"run", "--file", "missing-episode-notes"}, configPath, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v\n%s", err, out)
	}
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition, got %v", err)
	}
	if _, statErr := os.Stat(marker); statErr == nil {
		t.Fatal("yt-dlp ran for a --file reference")
	}
	if reports := reportFiles(t, cfg); len(reports) != 0 {
		t.Fatalf("expected no report, got %v", reports)
	}
}

func TestRunPromptsForLink(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"run"}, configPath, "\n")
	if err == nil || !strings.Contains(err.Error(), "no podcast link provided") {
		t.Fatalf("expected missing link error, got %v", err)
	}
	requireContains(t, out, linkPrompt)
}

func TestRunRejectsLinkAndFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := testsupport.WriteConfigFile(t, cfg)

	_, _, err := runCLI(t, []string{"run", "--file", "a.mp3", "https://example.com/ep"}, configPath, "")
	if err == nil {
		t.Fatal("expected error when both link and --file are given")
	}
}

func TestDoctorReportsMissingTools(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Acquire.FFmpegBinary = filepath.Join(testsupport.BaseDir(cfg), "no-ffmpeg")
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"doctor"}, configPath, "")
	if err == nil {
		t.Fatal("expected doctor to fail without ffmpeg")
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "FAIL")
	requireContains(t, out, "Output directory")
}

func TestDoctorPassesWithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"doctor"}, configPath, "")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "all required checks passed")
}
