// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Judge API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Engine:  eng,
		Hub:     hub,
		Metrics: m,
		Config:  cfg,
	})

# Endpoints

Health and metrics:

	GET /health
	GET /metrics - Prometheus exposition (when Metrics is set)

Phases (PUT requires X-Admin-Key):

	GET /phases
	GET /phases/{track}
	PUT /phases/{track}

Judging (judges, signed participant headers):

	POST /entries/{id}/scores
	GET  /entries/{id}/my-scores
	GET  /judges/me/progress

Specialty voting (any signed participant):

	POST /specialty/{track}/votes

Standings and publishing (admin):

	GET  /standings/expert/{group}
	GET  /standings/specialty/{track}
	POST /publish/{kind}
	GET  /admin/results/{kind}

Results (public, 403 until the track is locked):

	GET /results/{kind}

Operator overrides (admin):

	PUT    /admin/entries/{id}/scores
	DELETE /admin/votes/{id}
	GET    /admin/specialty/{track}/votes

Live announcements:

	GET /ws?role=...&id=...&key=...
*/
package router
