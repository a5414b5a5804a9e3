// Package transcribe produces episode transcripts.
//
// Service runs ffmpeg to normalize audio to mono 16 kHz WAV and then WhisperX
// (through uvx) with JSON output; segments are joined into a single text.
// FileTranscriber reads transcripts that already exist on disk.
//
// Both attach an ISO 639-1 language code when one is forced, reported by
// WhisperX, or detected from the text.
package transcribe
