package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"podlinks/internal/language"
	"podlinks/internal/logging"
	"podlinks/internal/services"
	"podlinks/internal/stage"
)

// Service transcribes audio files with WhisperX run through uvx.
type Service struct {
	cfg           Config
	detector      *language.Detector
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.VADMethod == "" {
		cfg.VADMethod = VADMethodSilero
	}
	return &Service{
		cfg:      cfg,
		detector: language.NewDetector(),
		logger:   logging.NewComponentLogger(logger, "transcribe"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe converts audioPath to WAV, runs WhisperX over it and returns the
// joined segment text.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcribe", "input", "audio path required", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return Transcript{}, services.Wrap(services.ErrNotFound, "transcribe", "input", audioPath, err)
	}

	workDir := s.cfg.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "ensure work dir", workDir, err)
	}
	runDir, err := os.MkdirTemp(workDir, "whisperx-")
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "ensure work dir", workDir, err)
	}
	defer func() { _ = os.RemoveAll(runDir) }()

	logger := logging.WithContext(ctx, s.logger)
	wavPath := filepath.Join(runDir, base+".wav")
	if err := s.run(ctx, s.cfg.FFmpegBinary, buildFFmpegArgs(audioPath, wavPath)...); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Transcript{}, ctx.Err()
		}
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "ffmpeg", "convert to wav", err)
	}

	started := time.Now()
	logger.Info("whisperx transcription started",
		logging.String("model", s.cfg.Model),
		logging.Bool("cuda", s.cfg.CUDAEnabled),
		logging.String("vad_method", s.cfg.VADMethod),
	)
	if err := s.run(ctx, UVXCommand, s.buildArgs(wavPath, runDir)...); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Transcript{}, ctx.Err()
		}
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "transcription failed", err)
	}

	segments, reported, err := LoadSegments(filepath.Join(runDir, base+".json"))
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "read output", err)
	}
	text := JoinSegments(segments)
	if text == "" {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "transcript is empty", nil)
	}

	forced := s.cfg.Language
	if forced == "" {
		forced = reported
	}
	transcript := Transcript{
		Text:     text,
		Language: resolveLanguage(s.detector, forced, s.cfg.DetectLanguage, text),
		Segments: len(segments),
	}
	logger.Info("whisperx transcription completed",
		logging.Int("segments", transcript.Segments),
		logging.Int("characters", len(text)),
		logging.String("language", transcript.Language),
		logging.Duration("elapsed", time.Since(started)),
	)
	return transcript, nil
}

// HealthCheck reports whether the WhisperX toolchain is available.
func (s *Service) HealthCheck(context.Context) stage.Health {
	const name = "transcribe"
	if _, err := exec.LookPath(UVXCommand); err != nil {
		return stage.Unhealthy(name, "uvx not found; install uv to run whisperx")
	}
	if _, err := exec.LookPath(s.cfg.FFmpegBinary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("%s not found", s.cfg.FFmpegBinary))
	}
	if s.cfg.VADMethod == VADMethodPyannote && s.cfg.HFToken == "" {
		return stage.Unhealthy(name, "pyannote VAD requires an hf_token")
	}
	return stage.Healthy(name)
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// torch.load defaults to weights_only=true since 2.6, which breaks
	// pyannote checkpoints bundled with WhisperX.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildFFmpegArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func (s *Service) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 32)
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.cfg.Model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
		"--vad_method", s.cfg.VADMethod,
	)
	if s.cfg.VADMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	if lang := language.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}
