// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine runs the voting lifecycle of an event.

An event has two independent tracks. On the expert track judges submit one
scorecard per entry, and entries are ranked within their class by the sum
of all scores. On the specialty track attendees cast one vote per
specialty track, and entries are ranked by vote count.

# Phases

Each track is Closed, Open or Locked. Submissions are accepted only while
the track is Open. Phase changes are persisted before they take effect and
are announced to the track's audience:

	phases, err := engine.NewPhases(ctx, store, hub, logger)
	err = phases.SetPhase(ctx, models.TrackExpert, models.PhaseOpen)

# Ranking

Standings are ordered by total descending, then entry id ascending, and
numbered 1..n. Tied entries never share a rank.

# Publishing

Publish computes the official results and replaces the published set in a
single transaction guarded by a version number. Expert results place the
top three scored entries of every class and lock the expert track;
specialty results place the most-voted entry of every specialty track.
Published results stay sealed from PublishedResults until the track is
Locked.

# Collaborators

The engine depends on interfaces only:

  - Repository: storage of catalog, scores, votes and published results
  - PhaseStore: current phase of each track
  - Broadcaster: best-effort live notifications
  - Recorder: metrics
*/
package engine
