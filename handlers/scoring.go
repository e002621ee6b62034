// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/middleware"
	"github.com/danielhkuo/quickly-judge/models"
)

type ScoringHandler struct {
	engine *engine.Engine
	cfg    cliparse.Config
}

func NewScoringHandler(eng *engine.Engine, cfg cliparse.Config) *ScoringHandler {
	return &ScoringHandler{engine: eng, cfg: cfg}
}

// requireJudge verifies the caller and checks they hold the judge role
func (h *ScoringHandler) requireJudge(w http.ResponseWriter, r *http.Request) (Participant, bool) {
	p, ok := requireParticipant(w, r, h.cfg)
	if !ok {
		return p, false
	}
	if p.Role != models.RoleJudge {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only judges can score entries")
		return p, false
	}
	return p, true
}

// SubmitScores handles POST /entries/{id}/scores
// A judge submits one scorecard per entry; resubmission is refused.
func (h *ScoringHandler) SubmitScores(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	judge, ok := h.requireJudge(w, r)
	if !ok {
		return
	}

	var req models.SubmitScoresRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	scores, err := engine.ParseScores(req.Scores)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	inserted, err := h.engine.SubmitScores(r.Context(), judge.ID, entryID, scores)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitScoresResponse{
		EntryID:  entryID,
		Inserted: inserted,
		Message:  "Scores submitted",
	})
}

// GetMyScores handles GET /entries/{id}/my-scores
func (h *ScoringHandler) GetMyScores(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	judge, ok := h.requireJudge(w, r)
	if !ok {
		return
	}

	records, err := h.engine.MyScores(r.Context(), judge.ID, entryID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyScoresResponse{
		EntryID: entryID,
		Scores:  records,
	})
}

// GetProgress handles GET /judges/me/progress
func (h *ScoringHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	judge, ok := h.requireJudge(w, r)
	if !ok {
		return
	}

	progress, err := h.engine.JudgeProgress(r.Context(), judge.ID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, progress)
}
