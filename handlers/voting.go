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

type VotingHandler struct {
	engine *engine.Engine
	cfg    cliparse.Config
}

func NewVotingHandler(eng *engine.Engine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{engine: eng, cfg: cfg}
}

// CastVote handles POST /specialty/{track}/votes
// Any signed-in participant may vote once per specialty track.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	trackID, ok := pathID(w, r, "track")
	if !ok {
		return
	}

	voter, ok := requireParticipant(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.EntryID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "entry_id is required")
		return
	}

	vote, err := h.engine.CastVote(r.Context(), voter.ID, trackID, req.EntryID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  vote.ID,
		Message: "Vote recorded",
	})
}
