package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"podlinks/internal/language"
	"podlinks/internal/services"
)

// FileTranscriber reads an existing transcript instead of running speech to
// text. Plain text, SubRip and WhisperX JSON files are understood.
type FileTranscriber struct {
	detector *language.Detector
	detect   bool
}

// NewFileTranscriber creates a transcriber for pre-made transcripts. When
// detect is set the language of the text is identified.
func NewFileTranscriber(detect bool) *FileTranscriber {
	return &FileTranscriber{detector: language.NewDetector(), detect: detect}
}

// Transcribe loads the transcript at path.
func (f *FileTranscriber) Transcribe(_ context.Context, path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Transcript{}, services.Wrap(services.ErrNotFound, "transcribe", "read transcript", path, err)
		}
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "read transcript", path, err)
	}

	var (
		transcript Transcript
		reported   string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		segments, lang, err := LoadSegments(path)
		if err != nil {
			return Transcript{}, services.Wrap(services.ErrValidation, "transcribe", "read transcript", path, err)
		}
		transcript = Transcript{Text: JoinSegments(segments), Segments: len(segments)}
		reported = lang
	case ".srt":
		transcript = Transcript{Text: parseSRT(data)}
	default:
		transcript = Transcript{Text: strings.TrimSpace(string(data))}
	}
	if transcript.Empty() {
		return Transcript{}, services.Wrap(services.ErrValidation, "transcribe", "read transcript", "transcript is empty: "+path, nil)
	}
	transcript.Language = resolveLanguage(f.detector, reported, f.detect, transcript.Text)
	return transcript, nil
}

// parseSRT drops cue numbers and timing lines, keeping cue text joined by
// spaces.
func parseSRT(data []byte) string {
	var parts []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
		switch {
		case line == "":
		case strings.Contains(line, "-->"):
		case isDigits(line):
		default:
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
