package services

import (
	"context"
	"log"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// Chain — fallback orchestrator
// Tries each provider in order until one returns audio. Failures are logged
// and swallowed; when every provider fails the caller still gets the static
// placeholder, never an error. Adding or removing a provider is a wiring
// change in main, not a change here.
// ---------------------------------------------------------------------------

// AudioResult is what a generation request ultimately produces. UsedFallback
// is true whenever the audio did not come from the first provider in the
// chain (including the placeholder).
type AudioResult struct {
	AudioData    []byte
	ContentType  string
	Format       string
	Engine       string
	VoiceUsed    string
	UsedFallback bool
}

type Chain struct {
	providers []TTSService
}

// NewChain builds an orchestrator over the given providers, tried in order.
// An empty chain is valid — every request then gets the placeholder.
func NewChain(providers ...TTSService) *Chain {
	return &Chain{providers: providers}
}

// Providers returns the chain length, for startup logging.
func (c *Chain) Providers() int {
	return len(c.providers)
}

// Generate synthesizes audio for non-empty text. It never fails: on total
// exhaustion the result carries the placeholder bytes with Engine "fallback".
func (c *Chain) Generate(ctx context.Context, text, voice string) *AudioResult {
	for i, p := range c.providers {
		resp, err := p.GenerateSpeech(ctx, text, voice)
		if err != nil {
			log.Printf("[Chain] Provider %s failed, trying next: %v", p.Name(), err)
			continue
		}

		// A provider fronting several hosts reports which one answered;
		// anything other than the first provider's own backend counts as
		// a fallback.
		engine := resp.Engine
		if engine == "" {
			engine = p.Name()
		}

		return &AudioResult{
			AudioData:    resp.AudioData,
			ContentType:  resp.ContentType,
			Format:       resp.Format,
			Engine:       engine,
			VoiceUsed:    voice,
			UsedFallback: i > 0 || engine != p.Name(),
		}
	}

	log.Printf("[Chain] All %d providers failed, serving placeholder", len(c.providers))

	return &AudioResult{
		AudioData:    PlaceholderAudio(),
		ContentType:  "audio/mpeg",
		Format:       "mp3",
		Engine:       models.EnginePlaceholder,
		VoiceUsed:    voice,
		UsedFallback: true,
	}
}

// placeholderAudio is a minimal MP3 frame of silence, served when no provider
// can produce real audio.
var placeholderAudio = []byte{
	0xFF, 0xFB, 0x90, 0x64, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// PlaceholderAudio returns a copy of the static placeholder bytes.
func PlaceholderAudio() []byte {
	out := make([]byte, len(placeholderAudio))
	copy(out, placeholderAudio)
	return out
}
