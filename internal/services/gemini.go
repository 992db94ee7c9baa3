package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// Gemini Speech Service
// Optional extra provider in the fallback chain, enabled when a Gemini API
// key is configured. Uses the Gen AI SDK with an audio response modality.
// ---------------------------------------------------------------------------

const (
	defaultGeminiSpeechModel = "gemini-2.5-flash-preview-tts"
	defaultGeminiVoice       = "Kore"
)

type GeminiSpeechService struct {
	apiKey string
	model  string
	voice  string
}

// Ensure GeminiSpeechService implements TTSService at compile time.
var _ TTSService = (*GeminiSpeechService)(nil)

// NewGeminiSpeechService creates a Gemini speech adapter. model and voice
// default to the flash TTS preview model and the Kore prebuilt voice.
func NewGeminiSpeechService(apiKey, model, voice string) *GeminiSpeechService {
	if model == "" {
		model = defaultGeminiSpeechModel
	}
	if voice == "" {
		voice = defaultGeminiVoice
	}
	return &GeminiSpeechService{
		apiKey: apiKey,
		model:  model,
		voice:  voice,
	}
}

func (s *GeminiSpeechService) Name() string { return models.EngineGemini }

// GenerateSpeech synthesizes audio via Gemini. The voice selector is not
// mapped onto Gemini's prebuilt voices; the configured voice is always used.
func (s *GeminiSpeechService) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: s.voice,
				},
			},
		},
	}

	log.Printf("[Gemini] Generating speech (model=%s, voice=%s, textLen=%d)", s.model, s.voice, len(text))

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("gemini speech request failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("[Gemini] Speech generated (%d bytes, mime=%s)", len(part.InlineData.Data), part.InlineData.MIMEType)
				return &TTSResponse{
					AudioData:   part.InlineData.Data,
					ContentType: "audio/wav",
					Format:      "wav",
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("gemini response contained no audio")
}
