package acquire

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"podlinks/internal/logging"
	"podlinks/internal/services"
)

// yt-dlp defaults.
const (
	YtDlpCommand        = "yt-dlp"
	DefaultAudioFormat  = "mp3"
	DefaultAudioQuality = "192K"
	OutputTemplate      = "%(title)s.%(ext)s"
)

func (s *Service) fromYtDlp(ctx context.Context, link string) (Artifact, error) {
	if err := os.MkdirAll(s.cfg.DownloadDir, 0o755); err != nil {
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "ensure download dir", s.cfg.DownloadDir, err)
	}

	args := s.buildYtDlpArgs(link)
	logging.WithContext(ctx, s.logger).Debug("running yt-dlp",
		logging.String("binary", s.cfg.YtDlpBinary),
		logging.String("args", strings.Join(args, " ")),
	)
	out, err := s.runner(ctx, s.cfg.YtDlpBinary, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Artifact{}, ctx.Err()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Artifact{}, services.Wrap(services.ErrTimeout, "acquire", "yt-dlp", "download did not finish in time", err)
		}
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "yt-dlp", "download failed for "+link, err)
	}

	audioPath := lastLine(out)
	if audioPath == "" {
		return Artifact{}, services.Wrap(services.ErrExternalTool, "acquire", "yt-dlp", "no output file reported", nil)
	}
	if !filepath.IsAbs(audioPath) {
		audioPath = filepath.Join(s.cfg.DownloadDir, audioPath)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return Artifact{}, services.Wrap(services.ErrNotFound, "acquire", "yt-dlp", "reported file missing: "+audioPath, err)
	}
	return Artifact{Path: audioPath, Title: titleFromPath(audioPath)}, nil
}

// buildYtDlpArgs extracts best audio, converts it to the configured format and
// prints the final path once post-processing has moved the file into place.
func (s *Service) buildYtDlpArgs(link string) []string {
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", s.cfg.AudioFormat,
		"--audio-quality", s.cfg.AudioQuality,
		"--no-playlist",
		"--quiet",
		"--no-check-certificates",
		"--no-warnings",
		"--no-progress",
		"--output", filepath.Join(s.cfg.DownloadDir, OutputTemplate),
		"--print", "after_move:filepath",
	}
	if ffmpeg := strings.TrimSpace(s.cfg.FFmpegBinary); ffmpeg != "" && ffmpeg != "ffmpeg" {
		args = append(args, "--ffmpeg-location", ffmpeg)
	}
	if s.cfg.UserAgent != "" {
		args = append(args, "--user-agent", s.cfg.UserAgent)
	}
	return append(args, link)
}

func lastLine(out []byte) string {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
