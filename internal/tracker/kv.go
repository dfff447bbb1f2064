package tracker

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/TobiasBrasser/aquabalance/internal/metrics"
	"github.com/TobiasBrasser/aquabalance/internal/storage"
)

// kv wraps a storage.Store so that failures never reach the caller.
// A failed read is treated as a missing key, a failed write is logged and
// the in-memory state stays authoritative for the rest of the session.
type kv struct {
	store   storage.Store
	metrics *metrics.Metrics
}

func (k kv) get(ctx context.Context, key string) (string, bool) {
	value, ok, err := k.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Failed to read from store", "key", key, "error", err)
		k.metrics.PersistenceFailed("get")
		return "", false
	}
	return value, ok
}

func (k kv) set(ctx context.Context, key, value string) error {
	if err := k.store.Set(ctx, key, value); err != nil {
		slog.Error("Failed to write to store", "key", key, "error", err)
		k.metrics.PersistenceFailed("set")
		return err
	}
	return nil
}

// getFloat reads a decimal value. Unparseable values are logged and
// reported as missing.
func (k kv) getFloat(ctx context.Context, key string) (float64, bool) {
	raw, ok := k.get(ctx, key)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("Ignoring malformed stored number", "key", key, "value", raw)
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
