package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/TobiasBrasser/aquabalance/internal/models"
)

// ProfileRepo persists a Profile field by field as strings.
type ProfileRepo struct {
	kv kv
}

// Load reads the stored profile. ok is false when no weight was ever saved.
// Malformed fields are skipped and keep their zero value, except gender
// which defaults to male.
func (r ProfileRepo) Load(ctx context.Context) (models.Profile, bool) {
	var p models.Profile

	weight, ok := r.kv.getFloat(ctx, KeyWeight)
	if !ok {
		return p, false
	}
	p.WeightKg = weight
	p.HeightCm, _ = r.kv.getFloat(ctx, KeyHeight)
	p.ActivityLevel, _ = r.kv.getFloat(ctx, KeyActivityLevel)
	p.Climate, _ = r.kv.getFloat(ctx, KeyClimate)

	p.Gender = models.GenderMale
	if g, ok := r.kv.get(ctx, KeyGender); ok && strings.TrimSpace(g) != "" {
		p.Gender = models.Gender(g)
	}
	return p, true
}

// Save writes every field. Failures are logged by kv and joined into
// the returned error; fields that were written stay written.
func (r ProfileRepo) Save(ctx context.Context, p models.Profile) error {
	height := ""
	if p.HeightCm != 0 {
		height = formatNumber(p.HeightCm)
	}
	return errors.Join(
		r.kv.set(ctx, KeyWeight, formatNumber(p.WeightKg)),
		r.kv.set(ctx, KeyHeight, height),
		r.kv.set(ctx, KeyActivityLevel, formatNumber(p.ActivityLevel)),
		r.kv.set(ctx, KeyClimate, formatNumber(p.Climate)),
		r.kv.set(ctx, KeyGender, string(p.Gender)),
	)
}
