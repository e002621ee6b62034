// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/handlers"
	"github.com/danielhkuo/quickly-judge/metrics"
	"github.com/danielhkuo/quickly-judge/middleware"
	"github.com/danielhkuo/quickly-judge/notify"
)

// Deps are the collaborators the routes are served from. Metrics is
// optional; /metrics is only registered when it is set.
type Deps struct {
	Engine  *engine.Engine
	Hub     *notify.Hub
	Metrics *metrics.Metrics
	Config  cliparse.Config
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()
	cfg := deps.Config

	// Initialize handlers
	phaseHandler := handlers.NewPhaseHandler(deps.Engine.PhaseStore(), cfg)
	scoringHandler := handlers.NewScoringHandler(deps.Engine, cfg)
	votingHandler := handlers.NewVotingHandler(deps.Engine, cfg)
	resultsHandler := handlers.NewResultsHandler(deps.Engine, cfg)
	adminHandler := handlers.NewAdminHandler(deps.Engine, cfg)
	wsHandler := handlers.NewWSHandler(deps.Hub, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Phase control
	mux.HandleFunc("GET /phases", middleware.WithLogging(phaseHandler.ListPhases))
	mux.HandleFunc("GET /phases/{track}", middleware.WithLogging(phaseHandler.GetPhase))
	mux.HandleFunc("PUT /phases/{track}", middleware.WithLogging(phaseHandler.SetPhase))

	// Expert judging (judges)
	mux.HandleFunc("POST /entries/{id}/scores", middleware.WithLogging(scoringHandler.SubmitScores))
	mux.HandleFunc("GET /entries/{id}/my-scores", middleware.WithLogging(scoringHandler.GetMyScores))
	mux.HandleFunc("GET /judges/me/progress", middleware.WithLogging(scoringHandler.GetProgress))

	// Specialty voting (any participant)
	mux.HandleFunc("POST /specialty/{track}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Standings and publishing (admin), results (public, sealed until locked)
	mux.HandleFunc("GET /standings/expert/{group}", middleware.WithLogging(resultsHandler.GetExpertStandings))
	mux.HandleFunc("GET /standings/specialty/{track}", middleware.WithLogging(resultsHandler.GetSpecialtyStandings))
	mux.HandleFunc("POST /publish/{kind}", middleware.WithLogging(resultsHandler.Publish))
	mux.HandleFunc("GET /results/{kind}", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /admin/results/{kind}", middleware.WithLogging(resultsHandler.GetAdminResults))

	// Operator overrides
	mux.HandleFunc("PUT /admin/entries/{id}/scores", middleware.WithLogging(adminHandler.ReplaceScores))
	mux.HandleFunc("DELETE /admin/votes/{id}", middleware.WithLogging(adminHandler.DeleteVote))
	mux.HandleFunc("GET /admin/specialty/{track}/votes", middleware.WithLogging(adminHandler.ListVotes))

	// Live announcements
	mux.HandleFunc("GET /ws", middleware.WithLogging(wsHandler.Subscribe))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-judge API v1"))
	})

	return mux
}
