package handlers

import (
	"net/http"
	"time"

	"github.com/abrezinsky/eventvote/internal/auth"
	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/services"
)

// LiveUpdates serves the websocket endpoint
type LiveUpdates interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
}

// MetricsExporter records request metrics and serves the scrape endpoint
type MetricsExporter interface {
	RecordHTTPRequest(route, method string, status int, d time.Duration)
	Handler() http.Handler
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Voting  services.VotingServicer
	Results services.ResultsServicer
	Events  services.EventServicer
	Auth    *auth.Auth
	Hub     LiveUpdates
	Metrics MetricsExporter
	Log     logger.Logger
}

// New creates a new Handlers instance with all dependencies.
// hub and metrics may be nil, in which case /ws and /metrics are not routed.
func New(
	voting services.VotingServicer,
	results services.ResultsServicer,
	events services.EventServicer,
	adminAuth *auth.Auth,
	hub LiveUpdates,
	metrics MetricsExporter,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Voting:  voting,
		Results: results,
		Events:  events,
		Auth:    adminAuth,
		Hub:     hub,
		Metrics: metrics,
		Log:     log.With("component", "http"),
	}
}
