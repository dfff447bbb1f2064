package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/TobiasBrasser/aquabalance/internal/calculator"
	"github.com/TobiasBrasser/aquabalance/internal/metrics"
	"github.com/TobiasBrasser/aquabalance/internal/models"
)

// ErrNotLogging is returned when an entry is added outside the logging phase.
var ErrNotLogging = errors.New("tracker is not in the logging phase")

// Notifier is told when the logged amount reaches the capacity.
type Notifier interface {
	GoalReached(ctx context.Context, state models.ProgressState)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, state models.ProgressState)

func (f NotifierFunc) GoalReached(ctx context.Context, state models.ProgressState) {
	f(ctx, state)
}

type logNotifier struct{}

func (logNotifier) GoalReached(_ context.Context, state models.ProgressState) {
	slog.Info("Daily goal reached",
		"logged_liters", state.LoggedLiters,
		"capacity_liters", state.CapacityLiters,
	)
}

// AddResult describes an accepted entry.
type AddResult struct {
	State models.ProgressState
	Entry models.HistoryEntry

	// GoalReached is true only for the entry that reached the capacity.
	GoalReached bool
}

// Tracker holds the logged amount against the capacity and moves between
// the editing and logging phases. It is safe for concurrent use; writes to
// the store are not coordinated beyond that and the last write wins.
type Tracker struct {
	mu            sync.Mutex
	kv            kv
	history       *HistoryLog
	notifier      Notifier
	metrics       *metrics.Metrics
	resetOnTarget bool

	state  models.ProgressState
	target *models.IntakeTarget
	closed bool
}

// load restores target, capacity, logged amount and phase.
func (t *Tracker) load(ctx context.Context, defaultCapacity float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = models.ProgressState{CapacityLiters: defaultCapacity, Phase: models.PhaseLogging}

	if raw, ok := t.kv.get(ctx, KeyWaterIntake); ok && raw != "" {
		var target models.IntakeTarget
		if err := json.Unmarshal([]byte(raw), &target); err != nil {
			slog.Warn("Ignoring malformed water intake", "error", err)
		} else {
			t.target = &target
		}
	}
	if need, ok := t.kv.getFloat(ctx, KeyIndividualNeed); ok && need > 0 {
		if t.target == nil {
			t.target = &models.IntakeTarget{}
		}
		t.target.IndividualLiters = need
	}
	if t.target != nil && t.target.IndividualLiters > 0 {
		t.state.CapacityLiters = t.target.IndividualLiters
	}

	if logged, ok := t.kv.getFloat(ctx, KeyLoggedAmount); ok {
		t.state.LoggedLiters = clamp(logged, t.state.CapacityLiters)
	}

	if show, ok := t.kv.get(ctx, KeyShowResults); ok && show == "false" {
		t.state.Phase = models.PhaseEditing
	}

	t.metrics.Progress(t.state.LoggedLiters, t.state.CapacityLiters)
}

// State returns a snapshot of the progress.
func (t *Tracker) State() models.ProgressState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Target returns the last saved intake target.
func (t *Tracker) Target() (models.IntakeTarget, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.target == nil {
		return models.IntakeTarget{}, false
	}
	return *t.target, true
}

// History returns all history entries, most recent last.
func (t *Tracker) History() []models.HistoryEntry {
	return t.history.List()
}

// SetTarget makes target the new capacity and switches to the logging
// phase. With reset-on-target-change the logged amount drops to zero and a
// reset entry is recorded; otherwise it is clamped to the new capacity and,
// if that lowers it, a reset entry with the clamped amount starts a new
// baseline.
func (t *Tracker) SetTarget(ctx context.Context, target models.IntakeTarget) (models.ProgressState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return t.state, ErrClosed
	}

	_ = t.kv.set(ctx, KeyIndividualNeed, target.Individual())
	if data, err := json.Marshal(target); err == nil {
		_ = t.kv.set(ctx, KeyWaterIntake, string(data))
	}

	t.target = &target
	t.state.CapacityLiters = target.IndividualLiters

	switch {
	case t.resetOnTarget:
		t.resetLocked(ctx)
	case t.state.LoggedLiters > t.state.CapacityLiters:
		t.state.LoggedLiters = t.state.CapacityLiters
		_ = t.kv.set(ctx, KeyLoggedAmount, formatNumber(t.state.LoggedLiters))
		t.history.Append(ctx, t.state.LoggedLiters, models.EntryReset)
	}

	t.setPhaseLocked(ctx, models.PhaseLogging)
	t.metrics.TargetComputed(t.state.CapacityLiters)

	slog.Info("Intake target saved",
		"individual", target.Individual(),
		"logged_liters", t.state.LoggedLiters,
	)
	return t.state, nil
}

// BeginEditing switches to the editing phase.
func (t *Tracker) BeginEditing(ctx context.Context) (models.ProgressState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return t.state, ErrClosed
	}
	t.setPhaseLocked(ctx, models.PhaseEditing)
	return t.state, nil
}

// Add logs liters of consumption. The amount must be a finite positive
// number. The new logged amount is clamped to the capacity, persisted, and
// then recorded in the history. The notifier fires once, for the entry that
// reaches the capacity.
func (t *Tracker) Add(ctx context.Context, liters float64) (AddResult, error) {
	if math.IsNaN(liters) || math.IsInf(liters, 0) || liters <= 0 {
		t.metrics.InputRejected("invalid_amount")
		return AddResult{}, models.NewValidationError("amount", "must be a positive number")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return AddResult{}, ErrClosed
	}
	if t.state.Phase != models.PhaseLogging {
		t.mu.Unlock()
		t.metrics.InputRejected("not_logging")
		return AddResult{}, ErrNotLogging
	}

	prev := t.state.LoggedLiters
	next := math.Min(prev+liters, t.state.CapacityLiters)

	// Persist before the new value becomes visible. A failed write is
	// logged and the session continues with the in-memory value.
	_ = t.kv.set(ctx, KeyLoggedAmount, formatNumber(next))
	t.state.LoggedLiters = next

	res := AddResult{
		State:       t.state,
		Entry:       t.history.Append(ctx, next, models.EntryLogged),
		GoalReached: prev < t.state.CapacityLiters && next >= t.state.CapacityLiters,
	}
	t.mu.Unlock()

	t.metrics.EntryAccepted(next)
	if res.GoalReached {
		t.metrics.GoalReached()
		t.notifier.GoalReached(ctx, res.State)
	}
	return res, nil
}

// AddString parses raw with calculator.ParseLiters and adds it.
func (t *Tracker) AddString(ctx context.Context, raw string) (AddResult, error) {
	liters, err := calculator.ParseLiters(raw)
	if err != nil {
		t.metrics.InputRejected("invalid_amount")
		return AddResult{}, err
	}
	return t.Add(ctx, liters)
}

// Reset sets the logged amount to zero and records a reset entry.
func (t *Tracker) Reset(ctx context.Context) (models.ProgressState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return t.state, ErrClosed
	}
	t.resetLocked(ctx)
	return t.state, nil
}

func (t *Tracker) resetLocked(ctx context.Context) {
	_ = t.kv.set(ctx, KeyLoggedAmount, "0")
	t.state.LoggedLiters = 0
	t.history.Append(ctx, 0, models.EntryReset)
	t.metrics.Reset()
}

func (t *Tracker) setPhaseLocked(ctx context.Context, phase models.Phase) {
	show := "false"
	if phase == models.PhaseLogging {
		show = "true"
	}
	_ = t.kv.set(ctx, KeyShowResults, show)
	t.state.Phase = phase
}

// close rejects further mutations and writes the in-memory state once more,
// retrying earlier failed writes.
func (t *Tracker) close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	state := t.state
	target := t.target
	t.mu.Unlock()

	show := "false"
	if state.Phase == models.PhaseLogging {
		show = "true"
	}
	errs := []error{
		t.kv.set(ctx, KeyLoggedAmount, formatNumber(state.LoggedLiters)),
		t.kv.set(ctx, KeyShowResults, show),
		t.history.flush(ctx),
	}
	if target != nil {
		errs = append(errs, t.kv.set(ctx, KeyIndividualNeed, target.Individual()))
	}
	return errors.Join(errs...)
}

func clamp(v, capacity float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, capacity)
}
