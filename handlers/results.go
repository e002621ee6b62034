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

type ResultsHandler struct {
	engine *engine.Engine
	cfg    cliparse.Config
}

func NewResultsHandler(eng *engine.Engine, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{engine: eng, cfg: cfg}
}

func resultsResponse(snap models.Snapshot) models.ResultsResponse {
	resp := models.ResultsResponse{
		Kind:        snap.Kind,
		SnapshotID:  snap.ID,
		Version:     snap.Version,
		PublishedAt: snap.PublishedAt,
		Results:     make([]models.PlacedResult, 0, len(snap.Results)),
	}
	for _, res := range snap.Results {
		resp.Results = append(resp.Results, models.PlacedResult{
			PublishedResult: res,
			PlaceLabel:      humanize.Ordinal(res.Place),
		})
	}
	return resp
}

// parseKind reads the {kind} path value. Unknown kinds are 404s.
func parseKind(w http.ResponseWriter, r *http.Request) (models.Track, bool) {
	kind, err := models.ParseTrack(r.PathValue("kind"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown result kind")
		return "", false
	}
	return kind, true
}

// GetExpertStandings handles GET /standings/expert/{group}
// Live standings are for operators only; they are not the published results.
func (h *ResultsHandler) GetExpertStandings(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "group")
	if !ok {
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	standings, err := h.engine.RankExpert(r.Context(), groupID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StandingsResponse{
		Track:     models.TrackExpert,
		GroupID:   groupID,
		Standings: standings,
	})
}

// GetSpecialtyStandings handles GET /standings/specialty/{track}
func (h *ResultsHandler) GetSpecialtyStandings(w http.ResponseWriter, r *http.Request) {
	trackID, ok := pathID(w, r, "track")
	if !ok {
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	standings, err := h.engine.RankSpecialty(r.Context(), trackID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StandingsResponse{
		Track:     models.TrackSpecialty,
		GroupID:   trackID,
		Standings: standings,
	})
}

// Publish handles POST /publish/{kind}
func (h *ResultsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	snap, err := h.engine.Publish(r.Context(), kind)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resultsResponse(snap))
}

// GetResults handles GET /results/{kind}
// Returns 403 until the track is locked (results are sealed)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}

	snap, err := h.engine.PublishedResults(r.Context(), kind)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resultsResponse(snap))
}

// GetAdminResults handles GET /admin/results/{kind}
// Operators can review the last published snapshot in any phase.
func (h *ResultsHandler) GetAdminResults(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	if !requireAdmin(w, r, h.cfg) {
		return
	}

	snap, err := h.engine.PublishedSnapshot(r.Context(), kind)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resultsResponse(snap))
}
