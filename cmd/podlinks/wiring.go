package main

import (
	"log/slog"

	"podlinks/internal/acquire"
	"podlinks/internal/agents"
	"podlinks/internal/config"
	"podlinks/internal/enrich"
	"podlinks/internal/pipeline"
	"podlinks/internal/report"
	"podlinks/internal/transcribe"
)

func newAcquirer(cfg *config.Config, logger *slog.Logger, forceFeed, localOnly bool) *acquire.Service {
	return acquire.NewService(acquire.Config{
		DownloadDir:  cfg.Paths.DownloadDir,
		YtDlpBinary:  cfg.Acquire.YtDlpBinary,
		FFmpegBinary: cfg.Acquire.FFmpegBinary,
		AudioFormat:  cfg.Acquire.AudioFormat,
		AudioQuality: cfg.Acquire.AudioQuality,
		UserAgent:    cfg.Acquire.UserAgent,
		Timeout:      cfg.AcquireTimeout(),
		ForceFeed:    forceFeed,
		LocalOnly:    localOnly,
	}, logger)
}

func newTranscriber(cfg *config.Config, logger *slog.Logger) *transcribe.Service {
	return transcribe.NewService(transcribe.Config{
		Model:          cfg.Transcription.Model,
		CUDAEnabled:    cfg.Transcription.CUDAEnabled,
		VADMethod:      cfg.Transcription.VADMethod,
		HFToken:        cfg.Transcription.HFToken,
		Language:       cfg.Transcription.Language,
		WorkDir:        cfg.Paths.WorkDir,
		FFmpegBinary:   cfg.Acquire.FFmpegBinary,
		DetectLanguage: cfg.Transcription.DetectLanguage,
	}, logger)
}

func newEnricher(cfg *config.Config, logger *slog.Logger) *enrich.Enricher {
	fetcher := enrich.NewHTTPFetcher(enrich.FetcherConfig{
		Timeout:             cfg.EnrichTimeout(),
		UserAgent:           cfg.Enrich.UserAgent,
		ReadabilityFallback: cfg.Enrich.ReadabilityFallback,
	})
	return enrich.New(fetcher,
		enrich.WithLogger(logger),
		enrich.WithMaxSummaryLength(cfg.Enrich.MaxSummaryLength),
	)
}

func newOrchestrator(cfg *config.Config, logger *slog.Logger, roster agents.Roster, acquirer pipeline.Acquirer, transcriber pipeline.Transcriber, observer pipeline.Observer) (*pipeline.Orchestrator, error) {
	return pipeline.New(pipeline.Options{
		Acquirer:    acquirer,
		Transcriber: transcriber,
		Enricher:    newEnricher(cfg, logger),
		Writer:      report.NewWriter(cfg.Paths.OutputDir),
		Roster:      roster,
		Logger:      logger,
		Observer:    observer,
	})
}
