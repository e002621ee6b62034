// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/middleware"
	"github.com/danielhkuo/quickly-judge/models"
)

// AdminHandler serves operator overrides. Every route requires X-Admin-Key.
type AdminHandler struct {
	engine *engine.Engine
	cfg    cliparse.Config
}

func NewAdminHandler(eng *engine.Engine, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{engine: eng, cfg: cfg}
}

// ReplaceScores handles PUT /admin/entries/{id}/scores
// Clears every judge's scorecard for the entry and stores the given one.
func (h *AdminHandler) ReplaceScores(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	var req models.ReplaceScoresRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SubmitterID == "" {
		req.SubmitterID = models.RoleAdmin
	}

	scores, err := engine.ParseScores(req.Scores)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	inserted, err := h.engine.ReplaceScores(r.Context(), entryID, req.SubmitterID, scores)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("scores replaced", "entry_id", entryID, "submitter_id", req.SubmitterID, "inserted", inserted)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitScoresResponse{
		EntryID:  entryID,
		Inserted: inserted,
		Message:  "Scores replaced",
	})
}

// DeleteVote handles DELETE /admin/votes/{id}
func (h *AdminHandler) DeleteVote(w http.ResponseWriter, r *http.Request) {
	voteID := r.PathValue("id")
	if voteID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vote id is required")
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	if err := h.engine.DeleteVote(r.Context(), voteID); err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("vote deleted", "vote_id", voteID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Vote deleted"})
}

// ListVotes handles GET /admin/specialty/{track}/votes
func (h *AdminHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	trackID, ok := pathID(w, r, "track")
	if !ok {
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	votes, err := h.engine.ListVotes(r.Context(), trackID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}
