// Package api defines the request and response messages of the
// aquabalance.v1 Connect services. Messages travel as JSON.
package api

// Profile holds the body metrics used to compute the intake target.
type Profile struct {
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height,omitempty"`
	ActivityLevel float64 `json:"activityLevel"`
	Climate       float64 `json:"climate"`
	Gender        string  `json:"gender"`
}

// IntakeTarget is the computed daily volume, formatted with two decimals.
type IntakeTarget struct {
	Individual  string `json:"individual"`
	Recommended string `json:"recommended,omitempty"`
}

// Progress is the logged volume against the capacity.
type Progress struct {
	LoggedLiters    float64 `json:"loggedLiters"`
	CapacityLiters  float64 `json:"capacityLiters"`
	RemainingLiters float64 `json:"remainingLiters"`
	Fraction        float64 `json:"fraction"`
	Phase           string  `json:"phase"`
	GoalReached     bool    `json:"goalReached"`
}

// HistoryEntry is one logging or reset event. LoggedAmount is cumulative.
type HistoryEntry struct {
	ID           string  `json:"id"`
	LoggedAmount float64 `json:"loggedAmount"`
	Kind         string  `json:"kind"`
	RecordedAt   int64   `json:"recordedAt,omitempty"`
}

// DayTotal is the volume consumed on one day (YYYY-MM-DD).
type DayTotal struct {
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	Liters float64 `json:"liters"`
}

// Summary aggregates the history.
type Summary struct {
	TotalLiters        float64    `json:"totalLiters"`
	DailyAverageLiters float64    `json:"dailyAverageLiters"`
	AverageEntryLiters float64    `json:"averageEntryLiters"`
	Entries            int        `json:"entries"`
	Days               []DayTotal `json:"days"`
}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	// Profile is nil until one was saved.
	Profile *Profile      `json:"profile,omitempty"`
	Target  *IntakeTarget `json:"target,omitempty"`
}

type SaveProfileRequest struct {
	Profile Profile `json:"profile"`
}

type SaveProfileResponse struct {
	Target   IntakeTarget `json:"target"`
	Progress Progress     `json:"progress"`
}

type GetProgressRequest struct{}

type GetProgressResponse struct {
	Progress Progress `json:"progress"`
}

// AddEntryRequest carries either Liters or a free-form Amount such as
// "0,25" or "250ml". Amount wins when both are set.
type AddEntryRequest struct {
	Liters float64 `json:"liters,omitempty"`
	Amount string  `json:"amount,omitempty"`
}

type AddEntryResponse struct {
	Progress Progress     `json:"progress"`
	Entry    HistoryEntry `json:"entry"`

	// GoalReached is true only for the entry that reached the capacity.
	GoalReached bool `json:"goalReached"`
}

type ResetProgressRequest struct{}

type ResetProgressResponse struct {
	Progress Progress `json:"progress"`
}

type BeginEditingRequest struct{}

type BeginEditingResponse struct {
	Progress Progress `json:"progress"`
}

// ListHistoryRequest limits the result to the most recent Limit entries
// when Limit is positive.
type ListHistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary Summary `json:"summary"`
}
