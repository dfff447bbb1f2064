package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Gender selects the gender-specific adjustment of the intake formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Profile holds the body metrics entered by the user.
// Each field is persisted under its own key as a plain string.
type Profile struct {
	// WeightKg is the body weight in kilograms.
	WeightKg float64 `json:"weight" validate:"required"`

	// HeightCm is the body height in centimetres.
	// Stored for compatibility with older profiles; the intake formula
	// does not use it.
	HeightCm float64 `json:"height,omitempty"`

	// ActivityLevel is the extra liters for daily activity, one of the
	// configured activity codes (e.g. 0, 0.2, 0.4, 0.5, 1).
	ActivityLevel float64 `json:"activityLevel"`

	// Climate is the extra liters for the local climate, one of the
	// configured climate codes (e.g. 0, 0.2).
	Climate float64 `json:"climate"`

	// Gender is either "male" or "female".
	Gender Gender `json:"gender" validate:"required,oneof=male female"`
}

// IntakeTarget is the computed recommended daily water volume.
// A new target overwrites the previous one; there is no versioning.
type IntakeTarget struct {
	// IndividualLiters is the personal target derived from the Profile,
	// rounded to two decimals.
	IndividualLiters float64

	// RecommendedLiters is the general reference value for the gender.
	RecommendedLiters float64
}

// Individual formats the individual target the way it is stored ("2.40").
func (t IntakeTarget) Individual() string {
	return fmt.Sprintf("%.2f", t.IndividualLiters)
}

// Recommended formats the reference value the way it is stored ("3.70").
func (t IntakeTarget) Recommended() string {
	return fmt.Sprintf("%.2f", t.RecommendedLiters)
}

// waterIntake is the stored JSON shape of an IntakeTarget.
type waterIntake struct {
	Individual  string `json:"individual"`
	Recommended string `json:"recommended,omitempty"`
}

// MarshalJSON encodes the target as {"individual":"2.40","recommended":"3.70"}.
func (t IntakeTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(waterIntake{
		Individual:  t.Individual(),
		Recommended: t.Recommended(),
	})
}

// UnmarshalJSON decodes the stored shape. The recommended field is optional.
func (t *IntakeTarget) UnmarshalJSON(data []byte) error {
	var w waterIntake
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	individual, err := strconv.ParseFloat(w.Individual, 64)
	if err != nil {
		return fmt.Errorf("invalid individual intake %q: %w", w.Individual, err)
	}
	t.IndividualLiters = individual
	t.RecommendedLiters = 0
	if w.Recommended != "" {
		recommended, err := strconv.ParseFloat(w.Recommended, 64)
		if err != nil {
			return fmt.Errorf("invalid recommended intake %q: %w", w.Recommended, err)
		}
		t.RecommendedLiters = recommended
	}
	return nil
}
