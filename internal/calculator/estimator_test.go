package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiasBrasser/aquabalance/internal/models"
)

func TestEstimate(t *testing.T) {
	est := NewEstimator(DefaultFormula())

	tests := []struct {
		name         string
		profile      models.Profile
		wantErrField string
		validateFunc func(t *testing.T, target models.IntakeTarget)
	}{
		{
			name:    "male, moderate activity, warm climate",
			profile: models.Profile{WeightKg: 70, ActivityLevel: 0.4, Climate: 0.2, Gender: models.GenderMale},
			validateFunc: func(t *testing.T, target models.IntakeTarget) {
				// 1.4 + 0.4 + 0.2 + 0.4
				assert.InDelta(t, 2.40, target.IndividualLiters, 1e-9)
				assert.Equal(t, "2.40", target.Individual())
				assert.Equal(t, "3.70", target.Recommended())
			},
		},
		{
			name:    "female has no bonus",
			profile: models.Profile{WeightKg: 60, ActivityLevel: 0, Climate: 0, Gender: models.GenderFemale},
			validateFunc: func(t *testing.T, target models.IntakeTarget) {
				assert.InDelta(t, 1.20, target.IndividualLiters, 1e-9)
				assert.InDelta(t, 2.7, target.RecommendedLiters, 1e-9)
			},
		},
		{
			name:    "base need capped at 3 liters",
			profile: models.Profile{WeightKg: 400, ActivityLevel: 1, Climate: 0.2, Gender: models.GenderMale},
			validateFunc: func(t *testing.T, target models.IntakeTarget) {
				// min(8, 3) + 1 + 0.2 + 0.4
				assert.InDelta(t, 4.60, target.IndividualLiters, 1e-9)
			},
		},
		{
			name:    "lower weight bound is inclusive",
			profile: models.Profile{WeightKg: 40, Gender: models.GenderFemale},
			validateFunc: func(t *testing.T, target models.IntakeTarget) {
				assert.InDelta(t, 0.80, target.IndividualLiters, 1e-9)
			},
		},
		{
			name:         "weight below range",
			profile:      models.Profile{WeightKg: 39.9, Gender: models.GenderMale},
			wantErrField: "weight",
		},
		{
			name:         "weight above range",
			profile:      models.Profile{WeightKg: 400.1, Gender: models.GenderMale},
			wantErrField: "weight",
		},
		{
			name:         "missing weight",
			profile:      models.Profile{Gender: models.GenderMale},
			wantErrField: "weight",
		},
		{
			name:         "NaN weight",
			profile:      models.Profile{WeightKg: math.NaN(), Gender: models.GenderMale},
			wantErrField: "weight",
		},
		{
			name:         "unknown gender",
			profile:      models.Profile{WeightKg: 70, Gender: "other"},
			wantErrField: "gender",
		},
		{
			name:         "activity level outside the enumeration",
			profile:      models.Profile{WeightKg: 70, ActivityLevel: 0.3, Gender: models.GenderMale},
			wantErrField: "activityLevel",
		},
		{
			name:         "climate outside the enumeration",
			profile:      models.Profile{WeightKg: 70, Climate: 0.5, Gender: models.GenderMale},
			wantErrField: "climate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := est.Estimate(tt.profile)
			if tt.wantErrField != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrValidation))
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantErrField, verr.Field)
				assert.Zero(t, target)
				return
			}
			require.NoError(t, err)
			if tt.validateFunc != nil {
				tt.validateFunc(t, target)
			}
		})
	}
}

func TestEstimate_FiniteAndDeterministicOverRange(t *testing.T) {
	est := NewEstimator(DefaultFormula())
	f := est.Formula()

	for w := f.MinWeightKg; w <= f.MaxWeightKg; w += 0.5 {
		for _, a := range f.ActivityLevels {
			for _, c := range f.Climates {
				for _, g := range []models.Gender{models.GenderMale, models.GenderFemale} {
					p := models.Profile{WeightKg: w, ActivityLevel: a, Climate: c, Gender: g}
					first, err := est.Estimate(p)
					require.NoError(t, err, "profile %+v", p)
					second, err := est.Estimate(p)
					require.NoError(t, err)

					if math.IsNaN(first.IndividualLiters) || math.IsInf(first.IndividualLiters, 0) || first.IndividualLiters < 0 {
						t.Fatalf("target for %+v = %v, want finite non-negative", p, first.IndividualLiters)
					}
					if first != second {
						t.Fatalf("Estimate not deterministic for %+v: %v != %v", p, first, second)
					}
				}
			}
		}
	}
}

func TestEstimate_CustomFormula(t *testing.T) {
	f := DefaultFormula()
	f.MLPerKg = 35
	f.BaseCapLiters = 10
	f.MaxWeightKg = 200
	est := NewEstimator(f)

	target, err := est.Estimate(models.Profile{WeightKg: 80, Gender: models.GenderFemale})
	require.NoError(t, err)
	assert.InDelta(t, 2.80, target.IndividualLiters, 1e-9)

	_, err = est.Estimate(models.Profile{WeightKg: 250, Gender: models.GenderFemale})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name         string
		weight       string
		height       string
		activity     string
		climate      string
		gender       string
		want         models.Profile
		wantErrField string
	}{
		{
			name:     "all fields",
			weight:   "70",
			height:   "180",
			activity: "0.4",
			climate:  "0.2",
			gender:   "female",
			want:     models.Profile{WeightKg: 70, HeightCm: 180, ActivityLevel: 0.4, Climate: 0.2, Gender: models.GenderFemale},
		},
		{
			name:   "defaults for optional fields",
			weight: " 72,5 ",
			want:   models.Profile{WeightKg: 72.5, Gender: models.GenderMale},
		},
		{
			name:         "missing weight",
			weight:       "   ",
			wantErrField: "weight",
		},
		{
			name:         "non-numeric weight",
			weight:       "seventy",
			wantErrField: "weight",
		},
		{
			name:         "non-numeric activity",
			weight:       "70",
			activity:     "lots",
			wantErrField: "activityLevel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProfile(tt.weight, tt.height, tt.activity, tt.climate, tt.gender)
			if tt.wantErrField != "" {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantErrField, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiters(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "0.25", want: 0.25},
		{raw: "250ml", want: 0.25},
		{raw: "250 ML", want: 0.25},
		{raw: "1,5l", want: 1.5},
		{raw: "-1", want: -1},
		{raw: "", wantErr: true},
		{raw: "ml", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLiters(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
