package transcribe

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// Model is the WhisperX model name (e.g. "base", "large-v3").
	Model       string
	CUDAEnabled bool
	// VADMethod selects voice activity detection ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token pyannote needs.
	HFToken string
	// Language forces the spoken language. Empty lets WhisperX decide.
	Language string
	// WorkDir holds the intermediate WAV and WhisperX output.
	WorkDir        string
	FFmpegBinary   string
	DetectLanguage bool
}

// WhisperX invocation constants.
const (
	DefaultModel      = "base"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "15"
	BeamSize          = "5"
	Temperature       = "0.0"
	SegmentResolution = "sentence"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// Command names for external tools.
const (
	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)
