package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TobiasBrasser/aquabalance/internal/models"
)

// HistoryLog is the append-only record of logging and reset events.
// The whole list is written to KeyHistory after every append.
type HistoryLog struct {
	mu      sync.RWMutex
	kv      kv
	entries []models.HistoryEntry
	now     func() time.Time
	newID   func() string
}

func newHistoryLog(k kv, now func() time.Time, newID func() string) *HistoryLog {
	return &HistoryLog{kv: k, now: now, newID: newID}
}

// newEntryID returns a time-ordered UUID, falling back to a random one.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func (h *HistoryLog) load(ctx context.Context) {
	raw, ok := h.kv.get(ctx, KeyHistory)
	if !ok || raw == "" {
		return
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("Ignoring malformed history", "error", err)
		return
	}
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
}

// Append records an event with the cumulative logged amount after it.
func (h *HistoryLog) Append(ctx context.Context, logged float64, kind models.EntryKind) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:           h.newID(),
		LoggedAmount: logged,
		Kind:         kind,
		RecordedAt:   h.now().UnixMilli(),
	}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	data, err := json.Marshal(h.entries)
	h.mu.Unlock()

	if err != nil {
		slog.Error("Failed to encode history", "error", err)
		return entry
	}
	_ = h.kv.set(ctx, KeyHistory, string(data))
	return entry
}

// List returns a copy of all entries, most recent last.
func (h *HistoryLog) List() []models.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *HistoryLog) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// flush writes the in-memory list again. An empty log writes nothing.
func (h *HistoryLog) flush(ctx context.Context) error {
	h.mu.RLock()
	if len(h.entries) == 0 {
		h.mu.RUnlock()
		return nil
	}
	data, err := json.Marshal(h.entries)
	h.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return h.kv.set(ctx, KeyHistory, string(data))
}
