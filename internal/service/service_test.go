package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiasBrasser/aquabalance/internal/metrics"
	"github.com/TobiasBrasser/aquabalance/internal/middleware"
	"github.com/TobiasBrasser/aquabalance/internal/storage/sqlite"
	"github.com/TobiasBrasser/aquabalance/internal/tracker"
	"github.com/TobiasBrasser/aquabalance/pkg/api"
	"github.com/TobiasBrasser/aquabalance/pkg/api/apiconnect"
)

type testServer struct {
	profiles apiconnect.ProfileServiceClient
	tracker  apiconnect.TrackerServiceClient
	metrics  *metrics.Metrics
	app      *tracker.App
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	app, err := tracker.Open(context.Background(), store, tracker.DefaultSettings(), tracker.WithMetrics(m))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(m))

	mux := http.NewServeMux()
	profilePath, profileHandler := apiconnect.NewProfileServiceHandler(NewProfileService(app), interceptors)
	mux.Handle(profilePath, profileHandler)
	trackerPath, trackerHandler := apiconnect.NewTrackerServiceHandler(NewTrackerService(app), interceptors)
	mux.Handle(trackerPath, trackerHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		profiles: apiconnect.NewProfileServiceClient(http.DefaultClient, server.URL),
		tracker:  apiconnect.NewTrackerServiceClient(http.DefaultClient, server.URL),
		metrics:  m,
		app:      app,
	}
}

func saveProfile(t *testing.T, ts *testServer, p api.Profile) *api.SaveProfileResponse {
	t.Helper()
	resp, err := ts.profiles.SaveProfile(context.Background(), connect.NewRequest(&api.SaveProfileRequest{Profile: p}))
	require.NoError(t, err)
	return resp.Msg
}

func TestGetProfile_Empty(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.profiles.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{}))
	require.NoError(t, err)
	assert.Nil(t, resp.Msg.Profile)
	assert.Nil(t, resp.Msg.Target)
}

func TestSaveProfile(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	saved := saveProfile(t, ts, api.Profile{Weight: 70, ActivityLevel: 0.4, Climate: 0.2, Gender: "male"})
	assert.Equal(t, "2.40", saved.Target.Individual)
	assert.Equal(t, "3.70", saved.Target.Recommended)
	assert.Equal(t, "logging", saved.Progress.Phase)
	assert.InDelta(t, 2.4, saved.Progress.CapacityLiters, 1e-9)

	resp, err := ts.profiles.GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
	require.NoError(t, err)
	require.NotNil(t, resp.Msg.Profile)
	assert.Equal(t, api.Profile{Weight: 70, ActivityLevel: 0.4, Climate: 0.2, Gender: "male"}, *resp.Msg.Profile)
	require.NotNil(t, resp.Msg.Target)
	assert.Equal(t, "2.40", resp.Msg.Target.Individual)
}

func TestSaveProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		profile api.Profile
	}{
		{"weight too low", api.Profile{Weight: 39, Gender: "male"}},
		{"weight missing", api.Profile{Gender: "female"}},
		{"unknown gender", api.Profile{Weight: 70, Gender: "other"}},
		{"unknown activity", api.Profile{Weight: 70, ActivityLevel: 0.3, Gender: "male"}},
		{"unknown climate", api.Profile{Weight: 70, Climate: 0.5, Gender: "male"}},
	}

	ts := setupTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.profiles.SaveProfile(context.Background(), connect.NewRequest(&api.SaveProfileRequest{Profile: tt.profile}))
			require.Error(t, err)
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}

	resp, err := ts.profiles.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{}))
	require.NoError(t, err)
	assert.Nil(t, resp.Msg.Profile)
}

func TestAddEntry(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	// Default capacity is 2.5 L until a profile is saved.
	resp, err := ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Liters: 2.0}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, resp.Msg.Progress.LoggedLiters, 1e-9)
	assert.False(t, resp.Msg.GoalReached)
	assert.Equal(t, "entry", resp.Msg.Entry.Kind)
	assert.NotEmpty(t, resp.Msg.Entry.ID)

	resp, err = ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Amount: "1,0"}))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, resp.Msg.Progress.LoggedLiters, 1e-9)
	assert.True(t, resp.Msg.GoalReached)
	assert.True(t, resp.Msg.Progress.GoalReached)
	assert.Zero(t, resp.Msg.Progress.RemainingLiters)
	assert.InDelta(t, 1.0, resp.Msg.Progress.Fraction, 1e-9)

	resp, err = ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Amount: "250ml"}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.GoalReached)

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.GoalsReached))
}

func TestAddEntry_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.AddEntryRequest
	}{
		{"zero", &api.AddEntryRequest{}},
		{"negative", &api.AddEntryRequest{Liters: -1}},
		{"not a number", &api.AddEntryRequest{Amount: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.tracker.AddEntry(ctx, connect.NewRequest(tt.req))
			require.Error(t, err)
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}

	_, err := ts.tracker.BeginEditing(ctx, connect.NewRequest(&api.BeginEditingRequest{}))
	require.NoError(t, err)

	_, err = ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Liters: 0.5}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	progress, err := ts.tracker.GetProgress(ctx, connect.NewRequest(&api.GetProgressRequest{}))
	require.NoError(t, err)
	assert.Zero(t, progress.Msg.Progress.LoggedLiters)
	assert.Equal(t, "editing", progress.Msg.Progress.Phase)
}

func TestResetProgress(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	_, err := ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Liters: 0.75}))
	require.NoError(t, err)

	resp, err := ts.tracker.ResetProgress(ctx, connect.NewRequest(&api.ResetProgressRequest{}))
	require.NoError(t, err)
	assert.Zero(t, resp.Msg.Progress.LoggedLiters)

	history, err := ts.tracker.ListHistory(ctx, connect.NewRequest(&api.ListHistoryRequest{}))
	require.NoError(t, err)
	require.Len(t, history.Msg.Entries, 2)
	assert.Equal(t, "reset", history.Msg.Entries[1].Kind)
}

func TestListHistory_Limit(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	for _, liters := range []float64{0.1, 0.2, 0.3} {
		_, err := ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Liters: liters}))
		require.NoError(t, err)
	}

	resp, err := ts.tracker.ListHistory(ctx, connect.NewRequest(&api.ListHistoryRequest{Limit: 2}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Entries, 2)
	assert.InDelta(t, 0.3, resp.Msg.Entries[0].LoggedAmount, 1e-9)
	assert.InDelta(t, 0.6, resp.Msg.Entries[1].LoggedAmount, 1e-9)
	assert.Less(t, resp.Msg.Entries[0].ID, resp.Msg.Entries[1].ID)

	_, err = ts.tracker.ListHistory(ctx, connect.NewRequest(&api.ListHistoryRequest{Limit: -1}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestGetSummary(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	for _, liters := range []float64{0.5, 0.25} {
		_, err := ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Liters: liters}))
		require.NoError(t, err)
	}

	resp, err := ts.tracker.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{}))
	require.NoError(t, err)

	s := resp.Msg.Summary
	assert.InDelta(t, 0.75, s.TotalLiters, 1e-9)
	assert.Equal(t, 2, s.Entries)
	assert.InDelta(t, 0.38, s.AverageEntryLiters, 1e-9)
	require.Len(t, s.Days, tracker.DefaultSettings().SummaryDays)
	assert.InDelta(t, 0.75, s.Days[len(s.Days)-1].Liters, 1e-9)
}

func TestTrackerService_AfterClose(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.app.Close(ctx))

	_, err := ts.tracker.AddEntry(ctx, connect.NewRequest(&api.AddEntryRequest{Liters: 0.5}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
	_, err = ts.tracker.ResetProgress(ctx, connect.NewRequest(&api.ResetProgressRequest{}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
	_, err = ts.tracker.BeginEditing(ctx, connect.NewRequest(&api.BeginEditingRequest{}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
	_, err = ts.profiles.SaveProfile(ctx, connect.NewRequest(&api.SaveProfileRequest{
		Profile: api.Profile{Weight: 70, Gender: "male"},
	}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))

	progress, err := ts.tracker.GetProgress(ctx, connect.NewRequest(&api.GetProgressRequest{}))
	require.NoError(t, err)
	assert.Zero(t, progress.Msg.Progress.LoggedLiters)
}
