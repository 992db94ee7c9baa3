package services

import "context"

// ---------------------------------------------------------------------------
// TTSService — common interface for text-to-speech providers
// Every backend in the fallback chain implements this interface so the
// orchestrator can iterate providers without knowing what sits behind them.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData   []byte
	ContentType string // "audio/wav" or "audio/mpeg"
	Format      string // "wav", "mp3"

	// Engine names the backend that actually answered, for providers that
	// front more than one host. Empty means the provider's own Name().
	Engine string
}

// TTSService is the interface that any TTS provider must implement.
type TTSService interface {
	// Name identifies the provider in logs and response metadata.
	Name() string

	// GenerateSpeech converts text to audio. voice is either a predefined
	// voice type ("female", "male") or an uploaded voice id; providers that
	// don't support the given voice pick their own default.
	GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error)
}
