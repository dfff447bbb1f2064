// Package tracker holds the application state: the profile, the progress
// against the intake target, and the history log.
//
// State is loaded once by Open and kept in memory; every mutation is written
// through to the storage.Store before it is returned. Store failures never
// reach the caller: they are logged and counted, and the in-memory state
// stays the source of truth until Close, which writes it once more.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/TobiasBrasser/aquabalance/internal/calculator"
	"github.com/TobiasBrasser/aquabalance/internal/config"
	"github.com/TobiasBrasser/aquabalance/internal/metrics"
	"github.com/TobiasBrasser/aquabalance/internal/models"
	"github.com/TobiasBrasser/aquabalance/internal/storage"
)

// ErrClosed is returned by App and Tracker mutations after Close.
var ErrClosed = errors.New("tracker is closed")

// Settings are the product rules the App runs with.
type Settings struct {
	Formula               calculator.Formula
	DefaultCapacityLiters float64
	ResetOnTargetChange   bool
	SummaryDays           int
}

// DefaultSettings returns the canonical product rules.
func DefaultSettings() Settings {
	return Settings{
		Formula:               calculator.DefaultFormula(),
		DefaultCapacityLiters: 2.5,
		ResetOnTargetChange:   true,
		SummaryDays:           7,
	}
}

// SettingsFromConfig takes the formula and tracker sections of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Formula:               cfg.CalculatorFormula(),
		DefaultCapacityLiters: cfg.Tracker.DefaultCapacityLiters,
		ResetOnTargetChange:   cfg.Tracker.ResetOnTargetChange,
		SummaryDays:           cfg.Tracker.SummaryDays,
	}
}

// Option customizes an App.
type Option func(*App)

// WithMetrics records tracker events in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithNotifier replaces the default goal-reached notifier, which logs.
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithClock sets the time source for history timestamps and summaries.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithIDGenerator sets the history entry ID source.
func WithIDGenerator(newID func() string) Option {
	return func(a *App) { a.newID = newID }
}

// App is the explicit application state.
type App struct {
	settings  Settings
	estimator *calculator.Estimator
	profiles  ProfileRepo
	tracker   *Tracker
	history   *HistoryLog

	metrics  *metrics.Metrics
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu     sync.Mutex
	closed bool
}

// Open loads the stored state. It does not take ownership of store.
func Open(ctx context.Context, store storage.Store, settings Settings, opts ...Option) (*App, error) {
	if store == nil {
		return nil, errors.New("tracker: nil store")
	}
	if settings.DefaultCapacityLiters <= 0 {
		return nil, errors.New("tracker: default capacity must be positive")
	}

	a := &App{
		settings:  settings,
		estimator: calculator.NewEstimator(settings.Formula),
		notifier:  logNotifier{},
		now:       time.Now,
		newID:     newEntryID,
	}
	for _, opt := range opts {
		opt(a)
	}

	k := kv{store: store, metrics: a.metrics}
	a.profiles = ProfileRepo{kv: k}
	a.history = newHistoryLog(k, a.now, a.newID)
	a.tracker = &Tracker{
		kv:            k,
		history:       a.history,
		notifier:      a.notifier,
		metrics:       a.metrics,
		resetOnTarget: settings.ResetOnTargetChange,
	}

	a.history.load(ctx)
	a.tracker.load(ctx, settings.DefaultCapacityLiters)

	state := a.tracker.State()
	slog.Debug("Tracker state loaded",
		"logged_liters", state.LoggedLiters,
		"capacity_liters", state.CapacityLiters,
		"phase", state.Phase,
		"history_len", a.history.Len(),
	)
	return a, nil
}

// Tracker returns the progress tracker.
func (a *App) Tracker() *Tracker {
	return a.tracker
}

// Estimator returns the intake estimator.
func (a *App) Estimator() *calculator.Estimator {
	return a.estimator
}

// Profile returns the stored profile; ok is false if none was saved.
func (a *App) Profile(ctx context.Context) (models.Profile, bool) {
	return a.profiles.Load(ctx)
}

// ComputeTarget validates p, computes its target, stores the profile and
// hands the target to the tracker. On a validation error nothing changes.
func (a *App) ComputeTarget(ctx context.Context, p models.Profile) (models.IntakeTarget, models.ProgressState, error) {
	if err := a.checkOpen(); err != nil {
		return models.IntakeTarget{}, models.ProgressState{}, err
	}

	target, err := a.estimator.Estimate(p)
	if err != nil {
		a.metrics.InputRejected("invalid_profile")
		return models.IntakeTarget{}, a.tracker.State(), err
	}

	if err := a.profiles.Save(ctx, p); err != nil {
		slog.Warn("Profile only partially saved", "error", err)
	}
	state, err := a.tracker.SetTarget(ctx, target)
	if err != nil {
		return models.IntakeTarget{}, state, err
	}
	return target, state, nil
}

// Summary aggregates the history over the configured window.
func (a *App) Summary() calculator.Summary {
	return calculator.Summarize(a.history.List(), a.now(), a.settings.SummaryDays)
}

// Close writes the in-memory state once more; afterwards every mutation
// returns ErrClosed. Later calls are no-ops.
// The returned error lists writes that still failed.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	return a.tracker.close(ctx)
}

func (a *App) checkOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return nil
}
