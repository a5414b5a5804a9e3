package services

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal stage markers. A run that fails with any of these produces no report.
var (
	ErrAcquisition   = errors.New("acquisition failed")
	ErrTranscription = errors.New("transcription failed")
	ErrReport        = errors.New("report failed")
)

// Supporting markers used by collaborators to classify the underlying cause.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err carries one of the fatal stage markers.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAcquisition) ||
		errors.Is(err, ErrTranscription) ||
		errors.Is(err, ErrReport)
}

// Hint returns a short operator-facing suggestion for the marker carried by err.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "check that the file or link exists"
	case errors.Is(err, ErrConfiguration):
		return "run `podlinks config validate`"
	case errors.Is(err, ErrExternalTool):
		return "run `podlinks doctor` to verify external tools"
	case errors.Is(err, ErrTimeout):
		return "the remote host did not answer in time; rerun later"
	case errors.Is(err, ErrReport):
		return "check permissions and free space in the output directory"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
