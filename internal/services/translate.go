package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// TranslateService — translation-engine TTS fallback
// Unauthenticated GET against the public translate TTS endpoint. Whatever
// comes back with a 200 is the audio; anything else is a failure.
// ---------------------------------------------------------------------------

const (
	defaultTranslateBaseURL = "https://translate.google.com/translate_tts"
	translateClientID       = "tw-ob"
	translateTimeout        = 30 * time.Second
)

type TranslateService struct {
	baseURL string
	lang    string
	client  *http.Client
}

// Ensure TranslateService implements TTSService at compile time.
var _ TTSService = (*TranslateService)(nil)

// NewTranslateService creates a translation-engine TTS adapter for the given
// target language (e.g. "es", "en").
func NewTranslateService(lang string) *TranslateService {
	if lang == "" {
		lang = "es"
	}
	return &TranslateService{
		baseURL: defaultTranslateBaseURL,
		lang:    lang,
		client:  &http.Client{Timeout: translateTimeout},
	}
}

func (s *TranslateService) Name() string { return models.EngineTranslate }

// GenerateSpeech fetches MP3 audio for the text. The voice selector is
// ignored — the translation engine has a single voice per language.
func (s *TranslateService) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", text)
	q.Set("tl", s.lang)
	q.Set("client", translateClientID)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate request: %w", err)
	}
	// The endpoint rejects requests without a browser-looking agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	log.Printf("[Translate] Fetching speech (lang=%s, textLen=%d)", s.lang, len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate returned status %d", resp.StatusCode)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read translate audio: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("translate returned empty audio")
	}

	return &TTSResponse{
		AudioData:   audioData,
		ContentType: "audio/mpeg",
		Format:      "mp3",
	}, nil
}
