package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAcquire()
	c.normalizeTranscription()
	c.normalizeEnrich()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.download_dir", &c.Paths.DownloadDir, defaultDownloadDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.work_dir", &c.Paths.WorkDir, defaultWorkDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}

	if agents := strings.TrimSpace(c.Paths.AgentsFile); agents != "" {
		expanded, err := expandPath(agents)
		if err != nil {
			return fmt.Errorf("paths.agents_file: %w", err)
		}
		c.Paths.AgentsFile = expanded
	}
	return nil
}

func (c *Config) normalizeAcquire() {
	c.Acquire.YtDlpBinary = strings.TrimSpace(c.Acquire.YtDlpBinary)
	if c.Acquire.YtDlpBinary == "" {
		c.Acquire.YtDlpBinary = defaultYtDlpBinary
	}
	c.Acquire.FFmpegBinary = strings.TrimSpace(c.Acquire.FFmpegBinary)
	if c.Acquire.FFmpegBinary == "" {
		c.Acquire.FFmpegBinary = defaultFFmpegBinary
	}
	c.Acquire.AudioFormat = strings.ToLower(strings.TrimSpace(c.Acquire.AudioFormat))
	if c.Acquire.AudioFormat == "" {
		c.Acquire.AudioFormat = defaultAudioFormat
	}
	c.Acquire.AudioQuality = strings.TrimSpace(c.Acquire.AudioQuality)
	if c.Acquire.AudioQuality == "" {
		c.Acquire.AudioQuality = defaultAudioQuality
	}
	c.Acquire.UserAgent = strings.TrimSpace(c.Acquire.UserAgent)
	if c.Acquire.UserAgent == "" {
		c.Acquire.UserAgent = DefaultUserAgent
	}
	if c.Acquire.TimeoutSeconds == 0 {
		c.Acquire.TimeoutSeconds = defaultAcquireTimeout
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
	if c.Transcription.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		}
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
}

func (c *Config) normalizeEnrich() {
	if c.Enrich.TimeoutSeconds == 0 {
		c.Enrich.TimeoutSeconds = defaultEnrichTimeout
	}
	c.Enrich.UserAgent = strings.TrimSpace(c.Enrich.UserAgent)
	if c.Enrich.UserAgent == "" {
		c.Enrich.UserAgent = DefaultUserAgent
	}
	if c.Enrich.MaxSummaryLength == 0 {
		c.Enrich.MaxSummaryLength = defaultMaxSummaryLength
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
