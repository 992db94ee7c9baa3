package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxrelay/voxrelay/internal/models"
)

// VoiceRegistry is the in-memory bookkeeping for uploaded custom voices.
// Predefined voices are static constants and never enter the map. There is
// no update or delete and no eviction for voices.
type VoiceRegistry struct {
	mu     sync.RWMutex
	voices map[string]models.VoiceRecord
	order  []string // insertion order for stable listing

	now func() time.Time
}

func NewVoiceRegistry() *VoiceRegistry {
	return &VoiceRegistry{
		voices: make(map[string]models.VoiceRecord),
		now:    time.Now,
	}
}

// Register inserts a new custom voice and returns its record.
func (r *VoiceRegistry) Register(name string) models.VoiceRecord {
	record := models.VoiceRecord{
		ID:          "voice_" + uuid.New().String(),
		DisplayName: name,
		Type:        models.VoiceTypeCustom,
		UploadedAt:  r.now(),
		Status:      models.VoiceStatusReady,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.voices[record.ID] = record
	r.order = append(r.order, record.ID)
	return record
}

// Get looks up a custom or predefined voice by id.
func (r *VoiceRegistry) Get(id string) (models.VoiceRecord, bool) {
	for _, v := range models.PredefinedVoices() {
		if v.ID == id {
			return v, true
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.voices[id]
	return record, ok
}

// List returns predefined voices followed by custom voices in upload order.
func (r *VoiceRegistry) List() []models.VoiceRecord {
	predefined := models.PredefinedVoices()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.VoiceRecord, 0, len(predefined)+len(r.order))
	out = append(out, predefined...)
	for _, id := range r.order {
		out = append(out, r.voices[id])
	}
	return out
}

// Count returns the number of registered custom voices.
func (r *VoiceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.voices)
}
