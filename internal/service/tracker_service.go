package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/TobiasBrasser/aquabalance/internal/tracker"
	"github.com/TobiasBrasser/aquabalance/pkg/api"
)

// TrackerService implements the Connect TrackerService.
type TrackerService struct {
	app *tracker.App
}

// NewTrackerService creates a new TrackerService backed by app.
func NewTrackerService(app *tracker.App) *TrackerService {
	return &TrackerService{app: app}
}

func (s *TrackerService) GetProgress(ctx context.Context, req *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error) {
	return connect.NewResponse(&api.GetProgressResponse{
		Progress: progressToAPI(s.app.Tracker().State()),
	}), nil
}

// AddEntry logs consumption. Amount, when set, is parsed as free-form
// input ("0,25", "250ml"); otherwise Liters is used.
func (s *TrackerService) AddEntry(ctx context.Context, req *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error) {
	var (
		res tracker.AddResult
		err error
	)
	if req.Msg.Amount != "" {
		res, err = s.app.Tracker().AddString(ctx, req.Msg.Amount)
	} else {
		res, err = s.app.Tracker().Add(ctx, req.Msg.Liters)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddEntryResponse{
		Progress:    progressToAPI(res.State),
		Entry:       entryToAPI(res.Entry),
		GoalReached: res.GoalReached,
	}), nil
}

func (s *TrackerService) ResetProgress(ctx context.Context, req *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ResetProgressResponse], error) {
	state, err := s.app.Tracker().Reset(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ResetProgressResponse{
		Progress: progressToAPI(state),
	}), nil
}

func (s *TrackerService) BeginEditing(ctx context.Context, req *connect.Request[api.BeginEditingRequest]) (*connect.Response[api.BeginEditingResponse], error) {
	state, err := s.app.Tracker().BeginEditing(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.BeginEditingResponse{
		Progress: progressToAPI(state),
	}), nil
}

// ListHistory returns entries oldest first, limited to the most recent
// Limit entries when Limit is positive.
func (s *TrackerService) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNegativeLimit)
	}

	entries := s.app.Tracker().History()
	if limit := req.Msg.Limit; limit > 0 && limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}

	out := make([]api.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToAPI(e))
	}
	return connect.NewResponse(&api.ListHistoryResponse{Entries: out}), nil
}

func (s *TrackerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return connect.NewResponse(&api.GetSummaryResponse{
		Summary: summaryToAPI(s.app.Summary()),
	}), nil
}
