// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/openelect/ballotcore/election"
	"github.com/openelect/ballotcore/models"
)

// Tally computes the result for one question from the current ledger state.
// Safe to run repeatedly and concurrently with ongoing casts: ballots are
// written as one atomic unit, so the snapshot read here is always a set of
// whole ballots. Identical ledger state produces identical output.
//
// A ranked-choice elimination tie that the tie-break rules cannot resolve
// returns the partial result alongside an IndeterminateTieError; the engine
// never picks a loser arbitrarily.
func Tally(conn *sql.DB, questionID string) (models.QuestionResult, error) {
	q, err := election.GetQuestion(conn, questionID)
	if err != nil {
		return models.QuestionResult{}, err
	}

	result := models.QuestionResult{
		QuestionID: q.ID,
		Type:       q.Type,
	}

	switch q.Type {
	case models.TypeMultipleChoice:
		counts, totalBallots, err := loadSelectionCounts(conn, questionID)
		if err != nil {
			return models.QuestionResult{}, err
		}
		result.TotalBallots = totalBallots
		result.Options = plurality(q, counts)
		return result, nil

	case models.TypeRankedChoice:
		prefs, err := loadRankedBallots(conn, questionID)
		if err != nil {
			return models.QuestionResult{}, err
		}
		result.TotalBallots = len(prefs)

		optionIDs := make([]string, len(q.Options))
		for i, opt := range q.Options {
			optionIDs[i] = opt.ID
		}

		rounds, winner, tieErr := runIRV(optionIDs, prefs)
		result.Rounds = rounds
		result.WinnerID = winner
		if tieErr != nil {
			tieErr.QuestionID = q.ID
			result.TiePending = true
			result.TiedOptions = tieErr.TiedOptions
			return result, tieErr
		}
		return result, nil

	default:
		return models.QuestionResult{}, fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
	}
}

// TallyElection computes results for every question of an election. An
// unresolved tie on one question marks that question tie-pending instead of
// aborting the rest.
func TallyElection(conn *sql.DB, electionID string) ([]models.QuestionResult, error) {
	questions, err := election.LoadQuestions(conn, electionID)
	if err != nil {
		return nil, err
	}

	results := make([]models.QuestionResult, 0, len(questions))
	for _, q := range questions {
		res, err := Tally(conn, q.ID)
		if err != nil {
			if _, tie := err.(*models.IndeterminateTieError); !tie {
				return nil, err
			}
			// tie already recorded on the result
		}
		results = append(results, res)
	}
	return results, nil
}

// plurality produces per-option counts and percentages. The denominator is
// the total number of selections recorded for the question, so percentages
// sum to ~100 even when voters may pick several options. Zero total means
// every percentage is zero.
func plurality(q models.Question, counts map[string]int) []models.OptionCount {
	total := 0
	for _, c := range counts {
		total += c
	}

	out := make([]models.OptionCount, len(q.Options))
	for i, opt := range q.Options {
		count := counts[opt.ID]
		percent := 0
		if total > 0 {
			percent = int(math.Round(float64(count) * 100 / float64(total)))
		}
		out[i] = models.OptionCount{
			OptionID: opt.ID,
			Title:    opt.Title,
			Count:    count,
			Percent:  percent,
		}
	}
	return out
}

// runIRV runs instant-runoff voting over the given ranked ballots.
//
// Each round tallies first preferences among options not yet eliminated. A
// strict majority (>50% of ballots that still have a live preference) wins.
// Otherwise the weakest option is eliminated and its ballots transfer to
// their next remaining preference; a ballot with no remaining preferences is
// exhausted and leaves the denominator.
//
// Elimination tie-break: fewest votes in the previous round; if still tied,
// fewest next-preference votes this round; if still tied, the tie is
// indeterminate and requires manual resolution.
func runIRV(optionIDs []string, prefs [][]string) ([]models.IRVRound, string, *models.IndeterminateTieError) {
	active := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		active[id] = true
	}

	var rounds []models.IRVRound
	var prevCounts map[string]int

	for round := 1; ; round++ {
		counts := make(map[string]int, len(optionIDs))
		for _, id := range optionIDs {
			if active[id] {
				counts[id] = 0
			}
		}

		activeBallots := 0
		for _, ballot := range prefs {
			if first, ok := firstActive(ballot, active); ok {
				counts[first]++
				activeBallots++
			}
		}

		rounds = append(rounds, models.IRVRound{
			Round:         round,
			Counts:        counts,
			ActiveBallots: activeBallots,
		})

		remaining := activeInOrder(optionIDs, active)
		if len(remaining) == 1 {
			return rounds, remaining[0], nil
		}

		for _, id := range remaining {
			if counts[id]*2 > activeBallots && activeBallots > 0 {
				return rounds, id, nil
			}
		}

		if activeBallots == 0 {
			return rounds, "", &models.IndeterminateTieError{TiedOptions: remaining}
		}

		lowest := remaining[0]
		for _, id := range remaining[1:] {
			if counts[id] < counts[lowest] {
				lowest = id
			}
		}
		var tied []string
		for _, id := range remaining {
			if counts[id] == counts[lowest] {
				tied = append(tied, id)
			}
		}

		eliminated := tied[0]
		if len(tied) > 1 {
			tied = breakTie(tied, prevCounts)
			if len(tied) > 1 {
				tied = breakTie(tied, nextPreferenceCounts(tied, prefs, active))
			}
			if len(tied) > 1 {
				return rounds, "", &models.IndeterminateTieError{TiedOptions: tied}
			}
			eliminated = tied[0]
		}

		rounds[len(rounds)-1].Eliminated = eliminated
		delete(active, eliminated)
		prevCounts = counts
	}
}

// firstActive returns the highest-ranked preference that is still active.
func firstActive(ballot []string, active map[string]bool) (string, bool) {
	for _, id := range ballot {
		if active[id] {
			return id, true
		}
	}
	return "", false
}

// activeInOrder keeps option-position order so every pass over the
// candidates is deterministic.
func activeInOrder(optionIDs []string, active map[string]bool) []string {
	var out []string
	for _, id := range optionIDs {
		if active[id] {
			out = append(out, id)
		}
	}
	return out
}

// breakTie narrows tied options to those with the fewest votes in the given
// tally. A nil tally narrows nothing.
func breakTie(tied []string, tally map[string]int) []string {
	if tally == nil {
		return tied
	}
	lowest := tied[0]
	for _, id := range tied[1:] {
		if tally[id] < tally[lowest] {
			lowest = id
		}
	}
	var out []string
	for _, id := range tied {
		if tally[id] == tally[lowest] {
			out = append(out, id)
		}
	}
	return out
}

// nextPreferenceCounts tallies, for each tied option, how many ballots hold
// it as their next remaining preference after their current first choice.
// An option nobody falls back to is the weakest of the tied set.
func nextPreferenceCounts(tied []string, prefs [][]string, active map[string]bool) map[string]int {
	counts := make(map[string]int, len(tied))
	for _, id := range tied {
		counts[id] = 0
	}
	for _, ballot := range prefs {
		seenFirst := false
		for _, id := range ballot {
			if !active[id] {
				continue
			}
			if !seenFirst {
				seenFirst = true
				continue
			}
			if _, ok := counts[id]; ok {
				counts[id]++
			}
			break
		}
	}
	return counts
}

// loadSelectionCounts retrieves per-option selection counts and the ballot
// total for a multiple choice question.
func loadSelectionCounts(conn *sql.DB, questionID string) (map[string]int, int, error) {
	rows, err := conn.Query(`
		SELECT s.option_id, COUNT(*)
		FROM selection s
		JOIN ballot b ON s.ballot_id = b.id
		WHERE b.question_id = $1
		GROUP BY s.option_id
	`, questionID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query selection counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var optionID string
		var count int
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, 0, fmt.Errorf("failed to scan selection count: %w", err)
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var totalBallots int
	err = conn.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE question_id = $1
	`, questionID).Scan(&totalBallots)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ballots: %w", err)
	}

	return counts, totalBallots, nil
}

// loadRankedBallots retrieves each ballot's preferences in rank order.
// Ordering by ballot id keeps repeated tallies byte-identical.
func loadRankedBallots(conn *sql.DB, questionID string) ([][]string, error) {
	rows, err := conn.Query(`
		SELECT s.ballot_id, s.option_id
		FROM selection s
		JOIN ballot b ON s.ballot_id = b.id
		WHERE b.question_id = $1
		ORDER BY s.ballot_id, s.rank
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranked ballots: %w", err)
	}
	defer rows.Close()

	var prefs [][]string
	var current string
	for rows.Next() {
		var ballotID, optionID string
		if err := rows.Scan(&ballotID, &optionID); err != nil {
			return nil, fmt.Errorf("failed to scan ranked selection: %w", err)
		}
		if ballotID != current {
			prefs = append(prefs, nil)
			current = ballotID
		}
		prefs[len(prefs)-1] = append(prefs[len(prefs)-1], optionID)
	}
	return prefs, rows.Err()
}
