package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/TobiasBrasser/aquabalance/internal/calculator"
	"github.com/TobiasBrasser/aquabalance/internal/models"
	"github.com/TobiasBrasser/aquabalance/internal/tracker"
	"github.com/TobiasBrasser/aquabalance/pkg/api"
)

var errNegativeLimit = errors.New("limit must not be negative")

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, tracker.ErrNotLogging):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, tracker.ErrClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		slog.Error("Unexpected service error", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}

func profileToAPI(p models.Profile) *api.Profile {
	return &api.Profile{
		Weight:        p.WeightKg,
		Height:        p.HeightCm,
		ActivityLevel: p.ActivityLevel,
		Climate:       p.Climate,
		Gender:        string(p.Gender),
	}
}

func profileFromAPI(p api.Profile) models.Profile {
	gender := models.Gender(p.Gender)
	if gender == "" {
		gender = models.GenderMale
	}
	return models.Profile{
		WeightKg:      p.Weight,
		HeightCm:      p.Height,
		ActivityLevel: p.ActivityLevel,
		Climate:       p.Climate,
		Gender:        gender,
	}
}

func targetToAPI(t models.IntakeTarget) api.IntakeTarget {
	out := api.IntakeTarget{Individual: t.Individual()}
	if t.RecommendedLiters > 0 {
		out.Recommended = t.Recommended()
	}
	return out
}

func progressToAPI(s models.ProgressState) api.Progress {
	return api.Progress{
		LoggedLiters:    s.LoggedLiters,
		CapacityLiters:  s.CapacityLiters,
		RemainingLiters: s.Remaining(),
		Fraction:        s.Fraction(),
		Phase:           string(s.Phase),
		GoalReached:     s.GoalReached(),
	}
}

func entryToAPI(e models.HistoryEntry) api.HistoryEntry {
	kind := e.Kind
	if kind == "" {
		kind = models.EntryLogged
	}
	return api.HistoryEntry{
		ID:           e.ID,
		LoggedAmount: e.LoggedAmount,
		Kind:         string(kind),
		RecordedAt:   e.RecordedAt,
	}
}

func summaryToAPI(s calculator.Summary) api.Summary {
	out := api.Summary{
		TotalLiters:        calculator.Round2(s.TotalLiters),
		DailyAverageLiters: calculator.Round2(s.DailyAverageLiters),
		AverageEntryLiters: calculator.Round2(s.AverageEntryLiters),
		Entries:            s.Entries,
		Days:               make([]api.DayTotal, 0, len(s.Days)),
	}
	for _, d := range s.Days {
		out.Days = append(out.Days, api.DayTotal{
			Date:   d.Date.Format("2006-01-02"),
			Label:  d.Label,
			Liters: calculator.Round2(d.Liters),
		})
	}
	return out
}
