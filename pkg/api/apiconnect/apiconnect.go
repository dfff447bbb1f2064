// Package apiconnect wires the aquabalance.v1 services to Connect handlers
// and clients using the JSON codec from package api.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/TobiasBrasser/aquabalance/pkg/api"
)

const (
	// ProfileServiceName is the fully-qualified name of the ProfileService.
	ProfileServiceName = "aquabalance.v1.ProfileService"
	// TrackerServiceName is the fully-qualified name of the TrackerService.
	TrackerServiceName = "aquabalance.v1.TrackerService"
)

// Procedure paths, in the form "/<service>/<method>".
const (
	ProfileServiceGetProfileProcedure  = "/aquabalance.v1.ProfileService/GetProfile"
	ProfileServiceSaveProfileProcedure = "/aquabalance.v1.ProfileService/SaveProfile"

	TrackerServiceGetProgressProcedure   = "/aquabalance.v1.TrackerService/GetProgress"
	TrackerServiceAddEntryProcedure      = "/aquabalance.v1.TrackerService/AddEntry"
	TrackerServiceResetProgressProcedure = "/aquabalance.v1.TrackerService/ResetProgress"
	TrackerServiceBeginEditingProcedure  = "/aquabalance.v1.TrackerService/BeginEditing"
	TrackerServiceListHistoryProcedure   = "/aquabalance.v1.TrackerService/ListHistory"
	TrackerServiceGetSummaryProcedure    = "/aquabalance.v1.TrackerService/GetSummary"
)

// ProfileServiceHandler is implemented by the profile service.
type ProfileServiceHandler interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
}

// TrackerServiceHandler is implemented by the tracker service.
type TrackerServiceHandler interface {
	GetProgress(context.Context, *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error)
	AddEntry(context.Context, *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error)
	ResetProgress(context.Context, *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ResetProgressResponse], error)
	BeginEditing(context.Context, *connect.Request[api.BeginEditingRequest]) (*connect.Response[api.BeginEditingResponse], error)
	ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewProfileServiceHandler builds an HTTP handler for svc. It returns the
// path on which to mount the handler and the handler itself.
func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		ProfileServiceGetProfileProcedure:  connect.NewUnaryHandler(ProfileServiceGetProfileProcedure, svc.GetProfile, opts...),
		ProfileServiceSaveProfileProcedure: connect.NewUnaryHandler(ProfileServiceSaveProfileProcedure, svc.SaveProfile, opts...),
	}
	return "/" + ProfileServiceName + "/", route(routes)
}

// NewTrackerServiceHandler builds an HTTP handler for svc. It returns the
// path on which to mount the handler and the handler itself.
func NewTrackerServiceHandler(svc TrackerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		TrackerServiceGetProgressProcedure:   connect.NewUnaryHandler(TrackerServiceGetProgressProcedure, svc.GetProgress, opts...),
		TrackerServiceAddEntryProcedure:      connect.NewUnaryHandler(TrackerServiceAddEntryProcedure, svc.AddEntry, opts...),
		TrackerServiceResetProgressProcedure: connect.NewUnaryHandler(TrackerServiceResetProgressProcedure, svc.ResetProgress, opts...),
		TrackerServiceBeginEditingProcedure:  connect.NewUnaryHandler(TrackerServiceBeginEditingProcedure, svc.BeginEditing, opts...),
		TrackerServiceListHistoryProcedure:   connect.NewUnaryHandler(TrackerServiceListHistoryProcedure, svc.ListHistory, opts...),
		TrackerServiceGetSummaryProcedure:    connect.NewUnaryHandler(TrackerServiceGetSummaryProcedure, svc.GetSummary, opts...),
	}
	return "/" + TrackerServiceName + "/", route(routes)
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// ProfileServiceClient is a client for the aquabalance.v1.ProfileService.
type ProfileServiceClient interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
}

// NewProfileServiceClient constructs a client for the ProfileService at
// baseURL (e.g. http://localhost:8080).
func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProfileServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &profileServiceClient{
		getProfile:  connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+ProfileServiceGetProfileProcedure, opts...),
		saveProfile: connect.NewClient[api.SaveProfileRequest, api.SaveProfileResponse](httpClient, baseURL+ProfileServiceSaveProfileProcedure, opts...),
	}
}

type profileServiceClient struct {
	getProfile  *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	saveProfile *connect.Client[api.SaveProfileRequest, api.SaveProfileResponse]
}

func (c *profileServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *profileServiceClient) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	return c.saveProfile.CallUnary(ctx, req)
}

// TrackerServiceClient is a client for the aquabalance.v1.TrackerService.
type TrackerServiceClient interface {
	GetProgress(context.Context, *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error)
	AddEntry(context.Context, *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error)
	ResetProgress(context.Context, *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ResetProgressResponse], error)
	BeginEditing(context.Context, *connect.Request[api.BeginEditingRequest]) (*connect.Response[api.BeginEditingResponse], error)
	ListHistory(context.Context, *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewTrackerServiceClient constructs a client for the TrackerService at
// baseURL.
func NewTrackerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TrackerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &trackerServiceClient{
		getProgress:   connect.NewClient[api.GetProgressRequest, api.GetProgressResponse](httpClient, baseURL+TrackerServiceGetProgressProcedure, opts...),
		addEntry:      connect.NewClient[api.AddEntryRequest, api.AddEntryResponse](httpClient, baseURL+TrackerServiceAddEntryProcedure, opts...),
		resetProgress: connect.NewClient[api.ResetProgressRequest, api.ResetProgressResponse](httpClient, baseURL+TrackerServiceResetProgressProcedure, opts...),
		beginEditing:  connect.NewClient[api.BeginEditingRequest, api.BeginEditingResponse](httpClient, baseURL+TrackerServiceBeginEditingProcedure, opts...),
		listHistory:   connect.NewClient[api.ListHistoryRequest, api.ListHistoryResponse](httpClient, baseURL+TrackerServiceListHistoryProcedure, opts...),
		getSummary:    connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+TrackerServiceGetSummaryProcedure, opts...),
	}
}

type trackerServiceClient struct {
	getProgress   *connect.Client[api.GetProgressRequest, api.GetProgressResponse]
	addEntry      *connect.Client[api.AddEntryRequest, api.AddEntryResponse]
	resetProgress *connect.Client[api.ResetProgressRequest, api.ResetProgressResponse]
	beginEditing  *connect.Client[api.BeginEditingRequest, api.BeginEditingResponse]
	listHistory   *connect.Client[api.ListHistoryRequest, api.ListHistoryResponse]
	getSummary    *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *trackerServiceClient) GetProgress(ctx context.Context, req *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error) {
	return c.getProgress.CallUnary(ctx, req)
}

func (c *trackerServiceClient) AddEntry(ctx context.Context, req *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error) {
	return c.addEntry.CallUnary(ctx, req)
}

func (c *trackerServiceClient) ResetProgress(ctx context.Context, req *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ResetProgressResponse], error) {
	return c.resetProgress.CallUnary(ctx, req)
}

func (c *trackerServiceClient) BeginEditing(ctx context.Context, req *connect.Request[api.BeginEditingRequest]) (*connect.Response[api.BeginEditingResponse], error) {
	return c.beginEditing.CallUnary(ctx, req)
}

func (c *trackerServiceClient) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

func (c *trackerServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
