package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voxrelay/voxrelay/internal/models"
	"github.com/voxrelay/voxrelay/internal/services"
	"github.com/voxrelay/voxrelay/internal/store"
)

const (
	serviceName    = "voxrelay"
	serviceVersion = "1.0.0"

	// Voice uploads are capped at 50MB plus a little multipart overhead.
	maxUploadBytes = 50 << 20
)

var allowedUploadExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".ogg":  true,
	".flac": true,
}

type Handler struct {
	chain  *services.Chain
	speech *services.SpeechService // nil when no primary provider is configured
	audios store.AudioStore
	voices *store.VoiceRegistry

	maxTextLen int
	now        func() time.Time
}

func NewHandler(chain *services.Chain, speech *services.SpeechService, audios store.AudioStore, voices *store.VoiceRegistry, maxTextLen int) *Handler {
	return &Handler{
		chain:      chain,
		speech:     speech,
		audios:     audios,
		voices:     voices,
		maxTextLen: maxTextLen,
		now:        time.Now,
	}
}

// Generate handles POST /tts/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text := req.Text
	if strings.TrimSpace(text) == "" {
		respondError(w, http.StatusBadRequest, "Text is required")
		return
	}

	if utf8.RuneCountInString(text) > h.maxTextLen {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Text exceeds maximum length of %d characters", h.maxTextLen))
		return
	}

	voice := req.VoiceID
	if voice == "" {
		voice = req.VoiceType
	}
	if voice == "" {
		voice = "female"
	}

	result := h.chain.Generate(r.Context(), text, voice)

	record := &models.AudioRecord{
		ID:           newAudioID(h.now()),
		SourceText:   text,
		AudioData:    result.AudioData,
		ContentType:  result.ContentType,
		Format:       result.Format,
		GeneratedAt:  h.now(),
		Engine:       result.Engine,
		VoiceUsed:    result.VoiceUsed,
		UsedFallback: result.UsedFallback,
	}

	if err := h.audios.Put(r.Context(), record); err != nil {
		log.Printf("[API] Failed to store audio %s: %v", record.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to store audio")
		return
	}

	stats := models.ComputeTextStats(text)

	quality := "standard"
	if record.Engine == models.EnginePlaceholder {
		quality = "degraded"
	}

	respondJSON(w, http.StatusOK, models.GenerateResponse{
		Success: true,
		AudioID: record.ID,
		AudioInfo: models.AudioInfo{
			DurationMinutes: stats.EstimatedDuration,
			FileSizeMB:      fileSizeMB(len(record.AudioData)),
			Format:          record.Format,
			SampleRate:      sampleRateFor(record.Format),
			Quality:         quality,
			VoiceUsed:       record.VoiceUsed,
			Engine:          record.Engine,
		},
		DownloadURL: "/download/" + record.ID,
		TextStats:   stats,
	})
}

// Download handles GET /download/{audioID}
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	audioID := chi.URLParam(r, "audioID")

	record, err := h.audios.Get(r.Context(), audioID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, map[string]string{
				"error":    "Audio not found",
				"audio_id": audioID,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load audio")
		return
	}

	if record.Pending() {
		respondJSON(w, http.StatusAccepted, map[string]string{
			"status":   "processing",
			"audio_id": audioID,
		})
		return
	}

	w.Header().Set("Content-Type", record.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(record.AudioData)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.%s"`, record.ID, record.Format))
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Engine-Used", record.Engine)
	w.Header().Set("X-Voice-Used", record.VoiceUsed)
	w.WriteHeader(http.StatusOK)
	w.Write(record.AudioData)
}

// Info handles GET /info/{audioID}
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	audioID := chi.URLParam(r, "audioID")

	record, err := h.audios.Get(r.Context(), audioID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, map[string]string{
				"error":    "Audio not found",
				"audio_id": audioID,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load audio")
		return
	}

	respondJSON(w, http.StatusOK, models.AudioRecordInfo{
		AudioID:      record.ID,
		SourceText:   record.SourceText,
		ContentType:  record.ContentType,
		Format:       record.Format,
		SizeBytes:    len(record.AudioData),
		GeneratedAt:  record.GeneratedAt,
		Engine:       record.Engine,
		VoiceUsed:    record.VoiceUsed,
		UsedFallback: record.UsedFallback,
	})
}

// CloneVoice handles POST /tts/clone-voice and POST /voice/upload
func (h *Handler) CloneVoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Audio file is required (multipart field \"audio\")")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		respondError(w, http.StatusBadRequest, "Audio file exceeds the 50MB limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		respondError(w, http.StatusBadRequest, "Unsupported file type. Allowed: wav, mp3, m4a, ogg, flac")
		return
	}

	if ct := header.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "audio/") && ct != "application/octet-stream" {
		respondError(w, http.StatusBadRequest, "Unsupported content type: "+ct)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, ext)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	// Provider-side registration is best-effort: the local registry is the
	// source of truth for listing and lookup.
	if h.speech != nil {
		if _, err := h.speech.UploadVoice(r.Context(), data, name, header.Filename); err != nil {
			log.Printf("[API] Provider voice upload failed (continuing with local registry): %v", err)
		}
	}

	record := h.voices.Register(name)

	respondJSON(w, http.StatusOK, models.CloneVoiceResponse{
		Success:   true,
		VoiceID:   record.ID,
		VoiceInfo: record,
	})
}

// ListVoices handles GET /tts/voices and GET /voices
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	voices := h.voices.List()
	respondJSON(w, http.StatusOK, models.VoicesResponse{
		Voices: voices,
		Total:  len(voices),
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	audioCount, err := h.audios.Count(r.Context())
	if err != nil {
		log.Printf("[API] Failed to count audios: %v", err)
	}

	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:       "ok",
		Timestamp:    h.now().UTC(),
		StoredAudios: audioCount,
		StoredVoices: h.voices.Count(),
		Version:      serviceVersion,
	})
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"service":   serviceName,
		"version":   serviceVersion,
		"endpoints": endpointList(),
	})
}

// NotFound answers every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":               "Not found",
		"available_endpoints": endpointList(),
	})
}

func endpointList() []string {
	return []string{
		"POST /tts/generate",
		"GET /download/{audioID}",
		"GET /info/{audioID}",
		"POST /tts/clone-voice",
		"POST /voice/upload",
		"GET /tts/voices",
		"GET /voices",
		"GET /health",
		"GET /",
	}
}

// newAudioID mints a download-url-safe id. The timestamp keeps ids sortable
// by generation time; the random suffix keeps two requests landing in the
// same millisecond from colliding on the map key.
func newAudioID(now time.Time) string {
	return fmt.Sprintf("audio_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func sampleRateFor(format string) int {
	if format == "wav" {
		return 24000
	}
	return 44100
}

func fileSizeMB(sizeBytes int) float64 {
	mb := float64(sizeBytes) / (1 << 20)
	return float64(int(mb*100+0.5)) / 100
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
