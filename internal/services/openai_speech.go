package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// SpeechService — primary text-to-speech provider
// Talks to an OpenAI-compatible speech endpoint. An optional local host with
// the same API surface (no auth token) is tried when the primary is
// unreachable at the connection level. A non-2xx answer from the primary does
// NOT trigger the local host — only connection failures do.
// ---------------------------------------------------------------------------

const (
	defaultSpeechBaseURL = "https://api.openai.com/v1"
	speechTimeout        = 60 * time.Second
)

// ProviderVoiceInfo is the provider-side descriptor returned after a voice
// upload.
type ProviderVoiceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SpeechService struct {
	apiKey   string
	baseURL  string
	localURL string
	model    openai.SpeechModel
	primary  *openai.Client
	local    *openai.Client // nil when no local host is configured
	client   *http.Client   // used for the multipart voice-upload call
}

// Ensure SpeechService implements TTSService at compile time.
var _ TTSService = (*SpeechService)(nil)

// NewSpeechService creates the primary speech provider. baseURL overrides the
// default OpenAI endpoint; localURL enables the no-auth local fallback host.
func NewSpeechService(apiKey, baseURL, localURL string) *SpeechService {
	if baseURL == "" {
		baseURL = defaultSpeechBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	s := &SpeechService{
		apiKey:   apiKey,
		baseURL:  baseURL,
		localURL: localURL,
		model:    openai.TTSModel1,
		primary:  openai.NewClientWithConfig(cfg),
		client:   &http.Client{Timeout: speechTimeout},
	}

	if localURL != "" {
		localCfg := openai.DefaultConfig("")
		localCfg.BaseURL = localURL
		s.local = openai.NewClientWithConfig(localCfg)
	}

	return s
}

func (s *SpeechService) Name() string { return models.EngineOpenAI }

// GenerateSpeech converts text to speech via the primary endpoint, falling
// back to the local host only on connection-level failures.
func (s *SpeechService) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	req := openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          mapSpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
		Speed:          1.0,
	}

	log.Printf("[Speech] Generating (voice=%s, textLen=%d)", req.Voice, len(text))

	audio, err := s.speak(ctx, s.primary, req)
	if err == nil {
		audio.Engine = models.EngineOpenAI
		return audio, nil
	}

	// API-level failures (the provider answered, just not with audio) are
	// final for this adapter. Only an unreachable primary falls through to
	// the local host.
	if !isConnectionError(err) || s.local == nil {
		return nil, err
	}

	log.Printf("[Speech] Primary unreachable, trying local host %s: %v", s.localURL, err)

	audio, localErr := s.speak(ctx, s.local, req)
	if localErr != nil {
		return nil, fmt.Errorf("primary: %v; local: %w", err, localErr)
	}
	audio.Engine = models.EngineLocal
	return audio, nil
}

func (s *SpeechService) speak(ctx context.Context, client *openai.Client, req openai.CreateSpeechRequest) (*TTSResponse, error) {
	resp, err := client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("provider returned empty audio")
	}

	return &TTSResponse{
		AudioData:   audioData,
		ContentType: "audio/wav",
		Format:      "wav",
	}, nil
}

// UploadVoice registers a voice sample with the provider, packaging the bytes
// as a named multipart field. Same primary-then-local shape as synthesis:
// the local host is attempted only when the primary connection fails.
func (s *SpeechService) UploadVoice(ctx context.Context, audioData []byte, name, filename string) (*ProviderVoiceInfo, error) {
	info, err := s.postVoice(ctx, s.baseURL, s.apiKey, audioData, name, filename)
	if err == nil {
		return info, nil
	}

	var ce *connError
	if !errors.As(err, &ce) || s.localURL == "" {
		return nil, err
	}

	log.Printf("[Speech] Voice upload falling back to local host: %v", err)
	return s.postVoice(ctx, s.localURL, "", audioData, name, filename)
}

func (s *SpeechService) postVoice(ctx context.Context, baseURL, apiKey string, audioData []byte, name, filename string) (*ProviderVoiceInfo, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("failed to write name field: %w", err)
	}

	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file field: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("failed to write audio field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := baseURL + "/voices"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &connError{err: fmt.Errorf("voice upload failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voice upload returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var info ProviderVoiceInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode voice upload response: %w", err)
	}

	return &info, nil
}

// connError marks a failure that happened before the provider could answer.
type connError struct {
	err error
}

func (e *connError) Error() string { return e.err.Error() }
func (e *connError) Unwrap() error { return e.err }

// isConnectionError reports whether err is a connection-level failure rather
// than an HTTP-level one. go-openai wraps any answered-but-failed request in
// APIError or RequestError; everything else never reached the provider.
func isConnectionError(err error) bool {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return false
	}
	return true
}

// mapSpeechVoice maps the service voice selector onto a provider voice.
func mapSpeechVoice(voice string) openai.SpeechVoice {
	switch voice {
	case "female":
		return openai.VoiceNova
	case "male":
		return openai.VoiceOnyx
	case "neutral":
		return openai.VoiceAlloy
	case "":
		return openai.VoiceNova
	default:
		// Uploaded voice ids aren't addressable on this provider; use the
		// default delivery rather than failing the whole chain.
		return openai.VoiceAlloy
	}
}
