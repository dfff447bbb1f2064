package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/TobiasBrasser/aquabalance/internal/tracker"
	"github.com/TobiasBrasser/aquabalance/pkg/api"
)

// ProfileService implements the Connect ProfileService.
type ProfileService struct {
	app *tracker.App
}

// NewProfileService creates a new ProfileService backed by app.
func NewProfileService(app *tracker.App) *ProfileService {
	return &ProfileService{app: app}
}

// GetProfile returns the stored profile and target, if any.
func (s *ProfileService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	resp := &api.GetProfileResponse{}
	if p, ok := s.app.Profile(ctx); ok {
		resp.Profile = profileToAPI(p)
	}
	if t, ok := s.app.Tracker().Target(); ok {
		target := targetToAPI(t)
		resp.Target = &target
	}
	return connect.NewResponse(resp), nil
}

// SaveProfile validates the profile, computes the intake target and
// switches the tracker to the logging phase.
func (s *ProfileService) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	profile := profileFromAPI(req.Msg.Profile)

	target, state, err := s.app.ComputeTarget(ctx, profile)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Debug("SaveProfile",
		"weight", profile.WeightKg,
		"gender", profile.Gender,
		"individual", target.Individual(),
	)
	return connect.NewResponse(&api.SaveProfileResponse{
		Target:   targetToAPI(target),
		Progress: progressToAPI(state),
	}), nil
}
