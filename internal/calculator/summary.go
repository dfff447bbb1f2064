package calculator

import (
	"time"

	"github.com/TobiasBrasser/aquabalance/internal/models"
)

// DayTotal is the volume consumed on one calendar day.
type DayTotal struct {
	Date   time.Time // midnight, in the summary's location
	Label  string    // short weekday ("Mon")
	Liters float64
}

// Summary aggregates a history for display.
type Summary struct {
	// TotalLiters is the sum of all consumed increments.
	TotalLiters float64

	// DailyAverageLiters averages Days, counting only days with intake.
	DailyAverageLiters float64

	// AverageEntryLiters is TotalLiters divided by Entries.
	AverageEntryLiters float64

	// Entries is the number of increments greater than zero.
	Entries int

	// Days holds the last N days, oldest first.
	Days []DayTotal
}

// Increments returns the consumed volume attributed to each entry.
//
// Entries store the cumulative logged amount, so the increment is the
// difference to the previous entry. A reset entry contributes nothing and
// starts a new baseline. A cumulative value lower than its predecessor
// without a reset marker (older stores) is treated the same way: the
// counter was reset in between, so the whole value is new intake.
func Increments(entries []models.HistoryEntry) []float64 {
	out := make([]float64, len(entries))
	prev := 0.0
	for i, e := range entries {
		if e.IsReset() {
			prev = e.LoggedAmount
			continue
		}
		delta := e.LoggedAmount - prev
		if delta < 0 {
			delta = e.LoggedAmount
		}
		out[i] = delta
		prev = e.LoggedAmount
	}
	return out
}

// Summarize aggregates entries over all time and buckets the last days
// days (ending with the day of now) per calendar day in now's location.
// Entries without a timestamp count toward totals but not toward any day.
func Summarize(entries []models.HistoryEntry, now time.Time, days int) Summary {
	var s Summary
	loc := now.Location()

	if days > 0 {
		today := startOfDay(now)
		s.Days = make([]DayTotal, days)
		for i := range s.Days {
			d := today.AddDate(0, 0, i-days+1)
			s.Days[i] = DayTotal{Date: d, Label: d.Format("Mon")}
		}
	}

	for i, delta := range Increments(entries) {
		if delta <= 0 {
			continue
		}
		s.TotalLiters += delta
		s.Entries++

		at := entries[i].Time()
		if at.IsZero() || len(s.Days) == 0 {
			continue
		}
		day := startOfDay(at.In(loc))
		idx := daysBetween(s.Days[0].Date, day)
		if idx >= 0 && idx < len(s.Days) {
			s.Days[idx].Liters += delta
		}
	}

	if s.Entries > 0 {
		s.AverageEntryLiters = s.TotalLiters / float64(s.Entries)
	}

	active := 0
	var windowTotal float64
	for _, d := range s.Days {
		if d.Liters > 0 {
			active++
			windowTotal += d.Liters
		}
	}
	if active > 0 {
		s.DailyAverageLiters = windowTotal / float64(active)
	}

	return s
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b; both must be midnights in
// the same location. Rounding absorbs DST shifts.
func daysBetween(a, b time.Time) int {
	hours := b.Sub(a).Hours()
	if hours < 0 {
		return int(hours/24 - 0.5)
	}
	return int(hours/24 + 0.5)
}
