package config

const (
	defaultDownloadDir         = "data/input"
	defaultOutputDir           = "data/output"
	defaultWorkDir             = "data/work"
	defaultLogDir              = "logs"
	defaultYtDlpBinary         = "yt-dlp"
	defaultFFmpegBinary        = "ffmpeg"
	defaultAudioFormat         = "mp3"
	defaultAudioQuality        = "192K"
	defaultAcquireTimeout      = 600
	defaultTranscriptionModel  = "base"
	defaultVADMethod           = "silero"
	defaultDetectLanguage      = true
	defaultEnrichTimeout       = 10
	defaultMaxSummaryLength    = 150
	defaultReadabilityFallback = false
	defaultNtfyTimeout         = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	// DefaultUserAgent is the browser-like identifier sent on outbound HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// MaxEnrichTimeoutSeconds bounds the per-request website lookup timeout.
	MaxEnrichTimeoutSeconds = 10
	// MaxSummaryLength bounds the number of characters kept from a website summary.
	MaxSummaryLength = 150
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			OutputDir:   defaultOutputDir,
			WorkDir:     defaultWorkDir,
			LogDir:      defaultLogDir,
		},
		Acquire: Acquire{
			YtDlpBinary:    defaultYtDlpBinary,
			FFmpegBinary:   defaultFFmpegBinary,
			AudioFormat:    defaultAudioFormat,
			AudioQuality:   defaultAudioQuality,
			UserAgent:      DefaultUserAgent,
			TimeoutSeconds: defaultAcquireTimeout,
		},
		Transcription: Transcription{
			Model:          defaultTranscriptionModel,
			VADMethod:      defaultVADMethod,
			DetectLanguage: defaultDetectLanguage,
		},
		Enrich: Enrich{
			TimeoutSeconds:      defaultEnrichTimeout,
			UserAgent:           DefaultUserAgent,
			MaxSummaryLength:    defaultMaxSummaryLength,
			ReadabilityFallback: defaultReadabilityFallback,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
