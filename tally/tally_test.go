// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/openelect/ballotcore/models"
	"github.com/openelect/ballotcore/tally"
	"github.com/openelect/ballotcore/testutil"
)

func TestPluralityPercentages(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")
	carol := testutil.AddTestOption(t, conn, questionID, "Carol")

	for _, opt := range []string{alice, alice, bob, carol} {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestBallot(t, conn, electionID, questionID, voterID, opt)
	}

	result, err := tally.Tally(conn, questionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}

	if result.TotalBallots != 4 {
		t.Errorf("Expected 4 ballots, got %d", result.TotalBallots)
	}

	expected := map[string]struct{ count, percent int }{
		alice: {2, 50},
		bob:   {1, 25},
		carol: {1, 25},
	}
	for _, oc := range result.Options {
		want := expected[oc.OptionID]
		if oc.Count != want.count || oc.Percent != want.percent {
			t.Errorf("Option %s: expected %d votes / %d%%, got %d / %d%%",
				oc.Title, want.count, want.percent, oc.Count, oc.Percent)
		}
	}
}

// Multi-select questions use total selections as the denominator, so
// percentages still sum to roughly 100.
func TestPluralityMultiSelectDenominator(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 2)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")
	carol := testutil.AddTestOption(t, conn, questionID, "Carol")

	v1 := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
	v2 := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
	testutil.CastTestBallot(t, conn, electionID, questionID, v1, alice, bob)
	testutil.CastTestBallot(t, conn, electionID, questionID, v2, alice, carol)

	result, err := tally.Tally(conn, questionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}

	// 4 selections across 2 ballots: alice 2/4, bob 1/4, carol 1/4
	if result.TotalBallots != 2 {
		t.Errorf("Expected 2 ballots, got %d", result.TotalBallots)
	}
	for _, oc := range result.Options {
		switch oc.OptionID {
		case alice:
			if oc.Percent != 50 {
				t.Errorf("Expected alice at 50%%, got %d%%", oc.Percent)
			}
		case bob, carol:
			if oc.Percent != 25 {
				t.Errorf("Expected %s at 25%%, got %d%%", oc.Title, oc.Percent)
			}
		}
	}
}

func TestPluralityZeroVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	testutil.AddTestOption(t, conn, questionID, "Alice")
	testutil.AddTestOption(t, conn, questionID, "Bob")

	result, err := tally.Tally(conn, questionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}

	if result.TotalBallots != 0 {
		t.Errorf("Expected 0 ballots, got %d", result.TotalBallots)
	}
	for _, oc := range result.Options {
		if oc.Count != 0 || oc.Percent != 0 {
			t.Errorf("Option %s: expected 0 / 0%%, got %d / %d%%", oc.Title, oc.Count, oc.Percent)
		}
	}
}

func TestIRVFirstRoundMajority(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeRankedChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")

	for _, ranking := range [][]string{{alice, bob}, {alice}, {bob, alice}} {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestRankedBallot(t, conn, electionID, questionID, voterID, ranking...)
	}

	result, err := tally.Tally(conn, questionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}

	if result.WinnerID != alice {
		t.Errorf("Expected alice to win with 2/3, got winner %s", result.WinnerID)
	}
	if len(result.Rounds) != 1 {
		t.Errorf("Expected a single round, got %d", len(result.Rounds))
	}
}

// A first-round three-way tie is broken by next-preference support: the
// option nobody falls back to is eliminated, and its ballot transfers.
func TestIRVNextPreferenceTieBreak(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeRankedChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")
	carol := testutil.AddTestOption(t, conn, questionID, "Carol")

	rankings := [][]string{
		{alice, bob},
		{bob, alice},
		{carol, bob},
	}
	for _, ranking := range rankings {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestRankedBallot(t, conn, electionID, questionID, voterID, ranking...)
	}

	result, err := tally.Tally(conn, questionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}

	// Round 1 is 1-1-1; carol has zero second-preference support and is
	// eliminated, transferring her ballot to bob
	if result.Rounds[0].Eliminated != carol {
		t.Errorf("Expected carol eliminated in round 1, got %s", result.Rounds[0].Eliminated)
	}
	if result.WinnerID != bob {
		t.Errorf("Expected bob to win after the transfer, got %s", result.WinnerID)
	}
	if final := result.Rounds[len(result.Rounds)-1]; final.Counts[bob] != 2 {
		t.Errorf("Expected bob at 2 votes in the final round, got %d", final.Counts[bob])
	}
}

// Ballots whose every preference has been eliminated leave the denominator,
// so a majority is judged against ballots that still express a preference.
func TestIRVExhaustedBallots(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeRankedChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")
	carol := testutil.AddTestOption(t, conn, questionID, "Carol")

	rankings := [][]string{
		{alice, bob},
		{alice, carol},
		{alice, bob},
		{bob, alice},
		{bob, carol},
		{carol}, // exhausts when carol is eliminated
	}
	for _, ranking := range rankings {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestRankedBallot(t, conn, electionID, questionID, voterID, ranking...)
	}

	result, err := tally.Tally(conn, questionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}

	// Round 1 is alice 3, bob 2, carol 1 of 6: no majority. Carol's
	// elimination exhausts the bullet ballot, and 3 of the remaining 5 is a
	// majority for alice
	if result.Rounds[0].Eliminated != carol {
		t.Errorf("Expected carol eliminated first, got %s", result.Rounds[0].Eliminated)
	}
	final := result.Rounds[len(result.Rounds)-1]
	if final.ActiveBallots != 5 {
		t.Errorf("Expected 5 active ballots after exhaustion, got %d", final.ActiveBallots)
	}
	if result.WinnerID != alice {
		t.Errorf("Expected alice to win 3 of 5, got %s", result.WinnerID)
	}
}

func TestIRVIndeterminateTie(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeRankedChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")

	// Bullet votes only: no previous round, no next preferences, nothing to
	// break the tie with
	for _, ranking := range [][]string{{alice}, {bob}} {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestRankedBallot(t, conn, electionID, questionID, voterID, ranking...)
	}

	result, err := tally.Tally(conn, questionID)
	var tieErr *models.IndeterminateTieError
	if !errors.As(err, &tieErr) {
		t.Fatalf("Expected IndeterminateTieError, got %v", err)
	}

	if !result.TiePending {
		t.Error("Expected the result to be marked tie-pending")
	}
	if len(result.TiedOptions) != 2 {
		t.Errorf("Expected 2 tied options, got %v", result.TiedOptions)
	}
	if result.WinnerID != "" {
		t.Errorf("An indeterminate tie must not pick a winner, got %s", result.WinnerID)
	}
}

// Identical ledger state yields identical results on repeated runs.
func TestTallyDeterministic(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeRankedChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, questionID, "Alice")
	bob := testutil.AddTestOption(t, conn, questionID, "Bob")
	carol := testutil.AddTestOption(t, conn, questionID, "Carol")

	rankings := [][]string{
		{alice, bob, carol},
		{bob, carol, alice},
		{carol, alice, bob},
		{alice, carol, bob},
		{bob, alice, carol},
	}
	for _, ranking := range rankings {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestRankedBallot(t, conn, electionID, questionID, voterID, ranking...)
	}

	first, err1 := tally.Tally(conn, questionID)
	second, err2 := tally.Tally(conn, questionID)
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("Tally errors diverged: %v vs %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated tallies diverged:\n%+v\n%+v", first, second)
	}
}

func TestTallyElectionContinuesPastTies(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)

	// Question 1 ties indeterminately
	q1 := testutil.AddTestQuestion(t, conn, electionID, models.TypeRankedChoice, 1, 1)
	alice := testutil.AddTestOption(t, conn, q1, "Alice")
	bob := testutil.AddTestOption(t, conn, q1, "Bob")
	for _, ranking := range [][]string{{alice}, {bob}} {
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestRankedBallot(t, conn, electionID, q1, voterID, ranking...)
	}

	// Question 2 resolves cleanly
	q2 := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	yes := testutil.AddTestOption(t, conn, q2, "Yes")
	testutil.AddTestOption(t, conn, q2, "No")
	voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
	testutil.CastTestBallot(t, conn, electionID, q2, voterID, yes)

	results, err := tally.TallyElection(conn, electionID)
	if err != nil {
		t.Fatalf("TallyElection must not abort on a tie: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 question results, got %d", len(results))
	}
	if !results[0].TiePending {
		t.Error("Expected question 1 marked tie-pending")
	}
	if results[1].TiePending {
		t.Error("Question 2 must not be tie-pending")
	}
}
