package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAcquire(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAcquire() error {
	if c.Acquire.TimeoutSeconds < 0 {
		return errors.New("acquire.timeout_seconds must be positive")
	}
	switch c.Acquire.AudioFormat {
	case "mp3", "m4a", "wav", "opus", "flac", "aac":
	default:
		return fmt.Errorf("acquire.audio_format: unsupported value %q", c.Acquire.AudioFormat)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method: unsupported value %q (use silero or pyannote)", c.Transcription.VADMethod)
	}
	if c.Transcription.VADMethod == "pyannote" && c.Transcription.HFToken == "" {
		return errors.New("transcription.hf_token must be set when vad_method is pyannote (or export HUGGING_FACE_HUB_TOKEN)")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if c.Enrich.TimeoutSeconds < 1 || c.Enrich.TimeoutSeconds > MaxEnrichTimeoutSeconds {
		return fmt.Errorf("enrich.timeout_seconds must be between 1 and %d", MaxEnrichTimeoutSeconds)
	}
	if c.Enrich.MaxSummaryLength < 1 || c.Enrich.MaxSummaryLength > MaxSummaryLength {
		return fmt.Errorf("enrich.max_summary_length must be between 1 and %d", MaxSummaryLength)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must not be negative")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
