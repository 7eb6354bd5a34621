package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// requestMetrics records status and latency per route pattern
func (h *Handlers) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.Metrics.RecordHTTPRequest(route, r.Method, status, time.Since(start))
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	if h.Metrics != nil {
		r.Use(h.requestMetrics)
		r.Handle("/metrics", h.Metrics.Handler())
	}

	r.Get("/healthz", handleHealth)

	// WebSocket connections outlive the request timeout
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Voting and results (public)
		r.Route("/api/events/{eventID}", func(r chi.Router) {
			r.Post("/ballots", h.handleCastRanked)
			r.Post("/approvals", h.handleCastApproval)
			r.Post("/ratings", h.handleCastRating)
			r.Get("/voted", h.handleHasVoted)
			r.Get("/my-votes", h.handleMyVotes)
			r.Get("/results", h.handleResults)
			r.Get("/leaderboard", h.handleLeaderboard)
		})

		// Auth routes (public)
		r.Post("/admin/login", h.handleLogin)
		r.Post("/admin/logout", h.handleLogout)

		// Admin API (protected)
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(h.Auth.RequireAdmin)

			// Templates
			r.Get("/templates", h.handleListTemplates)
			r.Post("/templates", h.handleCreateTemplate)
			r.Get("/templates/{id}", h.handleGetTemplate)
			r.Delete("/templates/{id}", h.handleDeleteTemplate)

			// Voting types
			r.Get("/voting-types", h.handleListVotingTypes)
			r.Post("/voting-types", h.handleCreateVotingType)
			r.Get("/voting-types/{id}", h.handleGetVotingType)
			r.Delete("/voting-types/{id}", h.handleDeleteVotingType)

			// Events
			r.Get("/events", h.handleListEvents)
			r.Post("/events", h.handleCreateEvent)
			r.Route("/events/{eventID}", func(r chi.Router) {
				r.Get("/", h.handleGetEvent)
				r.Put("/", h.handleUpdateEvent)
				r.Delete("/", h.handleDeleteEvent)
				r.Put("/voting-type", h.handleSetVotingType)
				r.Post("/clear", h.handleClearEvent)
				r.Post("/rebuild-summaries", h.handleRebuildSummaries)
				r.Get("/ties", h.handleTies)
				r.Get("/stats", h.handleStats)
				r.Get("/qr", h.handleBallotQR)

				// Divisions
				r.Get("/divisions", h.handleListDivisions)
				r.Post("/divisions", h.handleCreateDivision)
				r.Put("/divisions/{id}", h.handleUpdateDivision)
				r.Delete("/divisions/{id}", h.handleDeleteDivision)

				// Participants
				r.Get("/participants", h.handleListParticipants)
				r.Post("/participants", h.handleCreateParticipant)
				r.Delete("/participants/{id}", h.handleDeleteParticipant)

				// Entries
				r.Get("/entries", h.handleListEntries)
				r.Post("/entries", h.handleCreateEntry)
				r.Put("/entries/{id}", h.handleUpdateEntry)
				r.Delete("/entries/{id}", h.handleDeleteEntry)

				// Judges
				r.Get("/judges", h.handleListJudges)
				r.Put("/judges", h.handleUpsertJudge)
				r.Delete("/judges/{userID}", h.handleDeleteJudge)
			})
		})
	})

	return r
}
