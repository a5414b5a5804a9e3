package transcribe

import (
	"strings"

	"podlinks/internal/language"
)

// Transcript is the plain text spoken in an episode.
type Transcript struct {
	Text string
	// Language is an ISO 639-1 code, empty when unknown.
	Language string
	// Segments counts the timed segments the text was joined from.
	Segments int
}

// Empty reports whether the transcript carries no usable text.
func (t Transcript) Empty() bool {
	return strings.TrimSpace(t.Text) == ""
}

// resolveLanguage prefers a forced language and otherwise runs detection when
// enabled.
func resolveLanguage(detector *language.Detector, forced string, detect bool, text string) string {
	if code := language.ToISO2(forced); code != "" {
		return code
	}
	if !detect || detector == nil {
		return ""
	}
	if detection, ok := detector.Detect(text); ok {
		return detection.Code
	}
	return ""
}
