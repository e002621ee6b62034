// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/middleware"
	"github.com/danielhkuo/quickly-judge/models"
)

type PhaseHandler struct {
	phases engine.PhaseStore
	cfg    cliparse.Config
}

func NewPhaseHandler(phases engine.PhaseStore, cfg cliparse.Config) *PhaseHandler {
	return &PhaseHandler{phases: phases, cfg: cfg}
}

func phaseResponse(state models.PhaseState) models.PhaseResponse {
	resp := models.PhaseResponse{
		Track:      state.Track,
		Phase:      state.Phase,
		ChangedAt:  state.ChangedAt,
		ChangedAgo: "never",
	}
	if !state.ChangedAt.IsZero() {
		resp.ChangedAgo = humanize.Time(state.ChangedAt)
	}
	return resp
}

// ListPhases handles GET /phases
func (h *PhaseHandler) ListPhases(w http.ResponseWriter, r *http.Request) {
	phases := make([]models.PhaseResponse, 0, len(models.Tracks))
	for _, track := range models.Tracks {
		phases = append(phases, phaseResponse(h.phases.Status(track)))
	}
	middleware.JSONResponse(w, http.StatusOK, phases)
}

// GetPhase handles GET /phases/{track}
func (h *PhaseHandler) GetPhase(w http.ResponseWriter, r *http.Request) {
	track, err := models.ParseTrack(r.PathValue("track"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Track not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, phaseResponse(h.phases.Status(track)))
}

// SetPhase handles PUT /phases/{track}
// Any transition is allowed, including re-opening a locked track.
func (h *PhaseHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	track, err := models.ParseTrack(r.PathValue("track"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Track not found")
		return
	}

	if !requireAdmin(w, r, h.cfg) {
		return
	}

	var req models.SetPhaseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	phase, err := models.ParsePhase(req.Phase)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "phase must be one of closed, open, locked")
		return
	}

	if err := h.phases.SetPhase(r.Context(), track, phase); err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, phaseResponse(h.phases.Status(track)))
}
