package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Enums

type VoiceType string

const (
	VoiceTypePredefined VoiceType = "predefined"
	VoiceTypeCustom     VoiceType = "custom"
)

type VoiceStatus string

const (
	VoiceStatusReady VoiceStatus = "ready"
)

// Engine identifiers reported in generate/download metadata. They name which
// provider in the fallback chain actually produced the audio.
const (
	EngineOpenAI      = "openai"
	EngineLocal       = "local"
	EngineTranslate   = "translate"
	EngineGemini      = "gemini"
	EnginePlaceholder = "fallback"
)

// Models

// AudioRecord is one generated audio artifact. AudioData is written exactly
// once when the provider result arrives; GeneratedAt is set at creation and
// drives eviction (it is not a last-accessed time).
type AudioRecord struct {
	ID           string    `json:"id"`
	SourceText   string    `json:"source_text"`
	AudioData    []byte    `json:"audio_data,omitempty"`
	ContentType  string    `json:"content_type"`
	Format       string    `json:"format"`
	GeneratedAt  time.Time `json:"generated_at"`
	Engine       string    `json:"engine"`
	VoiceUsed    string    `json:"voice_used"`
	UsedFallback bool      `json:"used_fallback"`
}

// Pending reports whether the audio bytes have not arrived yet.
func (r *AudioRecord) Pending() bool {
	return len(r.AudioData) == 0
}

type VoiceRecord struct {
	ID          string      `json:"voice_id"`
	DisplayName string      `json:"name"`
	Type        VoiceType   `json:"type"`
	UploadedAt  time.Time   `json:"uploaded_at"`
	Status      VoiceStatus `json:"status"`
}

// Request/response types

type GenerateRequest struct {
	Text      string `json:"text"`
	VoiceType string `json:"voice_type,omitempty"`
	VoiceID   string `json:"voice_id,omitempty"`
}

type AudioInfo struct {
	DurationMinutes float64 `json:"duration_minutes"`
	FileSizeMB      float64 `json:"file_size_mb"`
	Format          string  `json:"format"`
	SampleRate      int     `json:"sample_rate"`
	Quality         string  `json:"quality"`
	VoiceUsed       string  `json:"voice_used"`
	Engine          string  `json:"engine"`
}

type TextStats struct {
	Characters        int     `json:"characters"`
	Words             int     `json:"words"`
	EstimatedDuration float64 `json:"estimated_duration"`
}

type GenerateResponse struct {
	Success     bool      `json:"success"`
	AudioID     string    `json:"audio_id"`
	AudioInfo   AudioInfo `json:"audio_info"`
	DownloadURL string    `json:"download_url"`
	TextStats   TextStats `json:"text_stats"`
}

// AudioRecordInfo is the /info snapshot of an AudioRecord — everything but
// the raw bytes.
type AudioRecordInfo struct {
	AudioID      string    `json:"audio_id"`
	SourceText   string    `json:"source_text"`
	ContentType  string    `json:"content_type"`
	Format       string    `json:"format"`
	SizeBytes    int       `json:"size_bytes"`
	GeneratedAt  time.Time `json:"generated_at"`
	Engine       string    `json:"engine"`
	VoiceUsed    string    `json:"voice_used"`
	UsedFallback bool      `json:"used_fallback"`
}

type CloneVoiceResponse struct {
	Success   bool        `json:"success"`
	VoiceID   string      `json:"voice_id"`
	VoiceInfo VoiceRecord `json:"voice_info"`
}

type VoicesResponse struct {
	Voices []VoiceRecord `json:"voices"`
	Total  int           `json:"total"`
}

type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	StoredAudios int       `json:"stored_audios"`
	StoredVoices int       `json:"stored_voices"`
	Version      string    `json:"version"`
}

// Text statistics

// Narration baseline, slightly slower than conversational speech.
const wordsPerMinute = 150.0

// ComputeTextStats derives character/word counts and an estimated spoken
// duration (in minutes) for the given text.
func ComputeTextStats(text string) TextStats {
	words := len(strings.Fields(text))
	return TextStats{
		Characters:        utf8.RuneCountInString(text),
		Words:             words,
		EstimatedDuration: EstimateDurationMinutes(words),
	}
}

// EstimateDurationMinutes estimates spoken duration from a word count.
func EstimateDurationMinutes(words int) float64 {
	return round2(float64(words) / wordsPerMinute)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// PredefinedVoices returns the static voice catalog. These are constants of
// the service, never inserted into the registry.
func PredefinedVoices() []VoiceRecord {
	return []VoiceRecord{
		{ID: "female", DisplayName: "Female", Type: VoiceTypePredefined, Status: VoiceStatusReady},
		{ID: "male", DisplayName: "Male", Type: VoiceTypePredefined, Status: VoiceStatusReady},
		{ID: "neutral", DisplayName: "Neutral", Type: VoiceTypePredefined, Status: VoiceStatusReady},
	}
}
