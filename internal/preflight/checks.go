package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"podlinks/internal/agents"
	"podlinks/internal/config"
	"podlinks/internal/deps"
	"podlinks/internal/transcribe"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAgentsFile verifies that a configured roster file loads. An empty path
// means the built-in roster and always passes.
func CheckAgentsFile(path string) Result {
	const name = "Agents roster"
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Passed: true, Detail: "built-in"}
	}
	if _, err := agents.Load(path); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckHFToken flags pyannote VAD configured without a Hugging Face token.
func CheckHFToken(cfg config.Transcription) Result {
	const name = "Hugging Face token"
	if cfg.VADMethod != transcribe.VADMethodPyannote {
		return Result{Name: name, Passed: true, Detail: "not needed for " + cfg.VADMethod + " VAD"}
	}
	if strings.TrimSpace(cfg.HFToken) == "" {
		return Result{Name: name, Detail: "pyannote VAD requires hf_token or HUGGING_FACE_HUB_TOKEN"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckSystemDeps evaluates the external programs the pipeline shells out to.
// yt-dlp is optional because local files, feeds and direct audio links work
// without it.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Acquire.YtDlpBinary,
			Description: "Required for video and podcast page links",
			Optional:    true,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Acquire.FFmpegBinary,
			Description: "Required for audio conversion",
		},
		{
			Name:        "uvx",
			Command:     transcribe.UVXCommand,
			Description: "Required for WhisperX-driven transcription",
		},
	}
	return deps.CheckBinaries(requirements)
}
