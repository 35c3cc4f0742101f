// Package speech wraps Google Cloud Speech-to-Text and Text-to-Speech for
// WhatsApp voice notes (OGG/Opus both ways).
package speech

import "context"

// Transcript is the result of recognizing one audio message.
type Transcript struct {
	Text       string
	Confidence float64
	Language   string
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageCode string) (Transcript, error)
}

// Synthesizer converts reply text into audio for voice-mode users.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode, voiceName string) ([]byte, error)
}
