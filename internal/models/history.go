package models

import (
	"strconv"
	"time"
)

// EntryKind distinguishes logging events from resets.
type EntryKind string

const (
	EntryLogged EntryKind = "entry"
	EntryReset  EntryKind = "reset"
)

// HistoryEntry is an immutable record of one logging or reset event.
// Older stores only carry id and loggedAmount; Kind and RecordedAt are
// empty/zero for those.
type HistoryEntry struct {
	// ID is a time-ordered UUID.
	ID string `json:"id"`

	// LoggedAmount is the cumulative logged volume (liters) right after
	// the event, not the increment.
	LoggedAmount float64 `json:"loggedAmount"`

	// Kind is "entry" or "reset".
	Kind EntryKind `json:"kind,omitempty"`

	// RecordedAt is the Unix time in milliseconds.
	RecordedAt int64 `json:"recordedAt,omitempty"`
}

// IsReset reports whether the entry records a reset.
func (e HistoryEntry) IsReset() bool {
	return e.Kind == EntryReset
}

// Time returns RecordedAt as a time.Time. Older entries have no RecordedAt
// but carry their creation time in Unix milliseconds as the ID. Zero if
// neither is known.
func (e HistoryEntry) Time() time.Time {
	if e.RecordedAt != 0 {
		return time.UnixMilli(e.RecordedAt)
	}
	if ms, err := strconv.ParseInt(e.ID, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}
