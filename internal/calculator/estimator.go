package calculator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/TobiasBrasser/aquabalance/internal/models"
)

// Formula holds the coefficients of the intake formula.
//
//	base     = min(weightKg × MLPerKg / 1000, BaseCapLiters)
//	activity = min(activityLevel, ActivityCapLiters)
//	climate  = min(climate, ClimateCapLiters)
//	gender   = male ? MaleBonusLiters : 0
//	target   = base + activity + climate + gender
type Formula struct {
	MLPerKg           float64
	BaseCapLiters     float64
	ActivityCapLiters float64
	ClimateCapLiters  float64
	MaleBonusLiters   float64

	// Valid weight range, inclusive.
	MinWeightKg float64
	MaxWeightKg float64

	// ActivityLevels and Climates are the accepted input codes.
	ActivityLevels []float64
	Climates       []float64

	// Reference values shown next to the individual target.
	RecommendedMaleLiters   float64
	RecommendedFemaleLiters float64
}

// DefaultFormula returns the canonical coefficients.
func DefaultFormula() Formula {
	return Formula{
		MLPerKg:                 20,
		BaseCapLiters:           3.0,
		ActivityCapLiters:       1.0,
		ClimateCapLiters:        0.2,
		MaleBonusLiters:         0.4,
		MinWeightKg:             40,
		MaxWeightKg:             400,
		ActivityLevels:          []float64{0, 0.2, 0.4, 0.5, 1},
		Climates:                []float64{0, 0.2},
		RecommendedMaleLiters:   3.7,
		RecommendedFemaleLiters: 2.7,
	}
}

// Estimator maps a Profile to an IntakeTarget. It holds no mutable state and
// is safe for concurrent use.
type Estimator struct {
	formula  Formula
	validate *validator.Validate
}

// NewEstimator creates an Estimator for the given formula.
func NewEstimator(formula Formula) *Estimator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Estimator{formula: formula, validate: v}
}

// Formula returns the coefficients in use.
func (e *Estimator) Formula() Formula {
	return e.formula
}

// Estimate computes the recommended daily intake for p.
// It returns a *models.ValidationError and no target when p is invalid.
func (e *Estimator) Estimate(p models.Profile) (models.IntakeTarget, error) {
	if err := e.Validate(p); err != nil {
		return models.IntakeTarget{}, err
	}

	f := e.formula
	base := math.Min(p.WeightKg*f.MLPerKg/1000, f.BaseCapLiters)
	activity := math.Min(p.ActivityLevel, f.ActivityCapLiters)
	climate := math.Min(p.Climate, f.ClimateCapLiters)

	genderAdj := 0.0
	recommended := f.RecommendedFemaleLiters
	if p.Gender == models.GenderMale {
		genderAdj = f.MaleBonusLiters
		recommended = f.RecommendedMaleLiters
	}

	return models.IntakeTarget{
		IndividualLiters:  Round2(base + activity + climate + genderAdj),
		RecommendedLiters: recommended,
	}, nil
}

// Validate checks p against the formula's accepted ranges and codes.
func (e *Estimator) Validate(p models.Profile) error {
	if math.IsNaN(p.WeightKg) || math.IsInf(p.WeightKg, 0) {
		return models.NewValidationError("weight", "must be a number")
	}
	if err := e.validate.Struct(p); err != nil {
		return translate(err)
	}

	f := e.formula
	rangeTag := fmt.Sprintf("gte=%g,lte=%g", f.MinWeightKg, f.MaxWeightKg)
	if err := e.validate.Var(p.WeightKg, rangeTag); err != nil {
		return models.NewValidationError("weight", "must be between %g and %g kg", f.MinWeightKg, f.MaxWeightKg)
	}
	if !containsCode(f.ActivityLevels, p.ActivityLevel) {
		return models.NewValidationError("activityLevel", "must be one of %v", f.ActivityLevels)
	}
	if !containsCode(f.Climates, p.Climate) {
		return models.NewValidationError("climate", "must be one of %v", f.Climates)
	}
	return nil
}

// ParseProfile builds a Profile from raw form input. Weight is required and
// must be numeric; height, activity and climate default to 0 when empty and
// gender defaults to male. Range checks happen in Estimate.
func ParseProfile(weight, height, activity, climate, gender string) (models.Profile, error) {
	var p models.Profile

	if strings.TrimSpace(weight) == "" {
		return p, models.NewValidationError("weight", "is required")
	}
	w, err := parseDecimal(weight)
	if err != nil {
		return p, models.NewValidationError("weight", "must be a number")
	}
	p.WeightKg = w

	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"height", height, &p.HeightCm},
		{"activityLevel", activity, &p.ActivityLevel},
		{"climate", climate, &p.Climate},
	}
	for _, fld := range fields {
		if strings.TrimSpace(fld.raw) == "" {
			continue
		}
		v, err := parseDecimal(fld.raw)
		if err != nil {
			return p, models.NewValidationError(fld.name, "must be a number")
		}
		*fld.dst = v
	}

	switch g := models.Gender(strings.ToLower(strings.TrimSpace(gender))); g {
	case "":
		p.Gender = models.GenderMale
	default:
		p.Gender = g
	}
	return p, nil
}

// ParseLiters parses a user-entered amount. Plain numbers are liters;
// an "ml" suffix means millilitres and an "l" suffix liters. A comma is
// accepted as decimal separator. Non-numeric input yields a validation error;
// the sign is not checked here.
func ParseLiters(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "ml"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "ml"))
		scale = 0.001
	case strings.HasSuffix(s, "l"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "l"))
	}
	if s == "" {
		return 0, models.NewValidationError("amount", "is required")
	}
	v, err := parseDecimal(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, models.NewValidationError("amount", "must be a number")
	}
	return v * scale, nil
}

// Round2 rounds to two decimals, the precision targets are stored with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseDecimal(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
}

func containsCode(codes []float64, v float64) bool {
	for _, c := range codes {
		if math.Abs(c-v) < 1e-9 {
			return true
		}
	}
	return false
}

// translate converts the first validator failure into a ValidationError.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return models.NewValidationError(fe.Field(), "is required")
	case "oneof":
		return models.NewValidationError(fe.Field(), "must be one of %s", fe.Param())
	default:
		return models.NewValidationError(fe.Field(), "failed %s check", fe.Tag())
	}
}
