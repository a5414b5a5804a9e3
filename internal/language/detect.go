package language

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// MinDetectRunes is the shortest text the detector will attempt.
const MinDetectRunes = 20

// MinConfidence is the confidence below which a detection is discarded.
const MinConfidence = 0.5

// Detection is the outcome of running the detector over a transcript.
type Detection struct {
	Code       string
	Confidence float64
}

// Detector identifies the language of transcript text. The underlying models
// are loaded on first use.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewDetector returns a lazily initialized detector.
func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) build() {
	d.once.Do(func() {
		langs := make([]lingua.Language, 0, len(languages))
		for _, e := range languages {
			langs = append(langs, e.lingua)
		}
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(langs...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
}

// Detect returns the ISO 639-1 code of text. ok is false when the text is
// too short or no language clears MinConfidence.
func (d *Detector) Detect(text string) (Detection, bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinDetectRunes {
		return Detection{}, false
	}
	d.build()
	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Detection{}, false
	}
	e, known := byLingua[detected]
	if !known {
		return Detection{}, false
	}
	confidence := d.detector.ComputeLanguageConfidence(text, detected)
	if confidence < MinConfidence {
		return Detection{}, false
	}
	return Detection{Code: e.code2, Confidence: confidence}, true
}
