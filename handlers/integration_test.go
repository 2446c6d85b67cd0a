// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/voteledger/models"
	"github.com/danielhkuo/voteledger/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Add candidates
// 2. Register voters
// 3. Start voting
// 4. Voters cast ballots
// 5. Late ballot rejected after the deadline
// 6. Winner declared
func TestFullVotingWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig()
	l, clock := testutil.NewTestLedger(t, nil)
	adminHandler := NewAdminHandler(l, cfg)
	votingHandler := NewVotingHandler(l, cfg)
	resultsHandler := NewResultsHandler(l)
	admin := testutil.CallerHeaders(t, cfg, testutil.AdminAddress)

	// Step 1: Add two candidates
	for _, name := range []string{"Alice", "Bob"} {
		w := httptest.NewRecorder()
		adminHandler.AddCandidate(w, testutil.MakeRequest("POST", "/candidates", models.AddCandidateRequest{Name: name}, admin))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Add candidate '%s' failed: %d - %s", name, w.Code, w.Body.String())
		}
	}

	// Step 2: Register two voters
	for _, addr := range []models.Address{testutil.VoterAddress, testutil.VoterAddress2} {
		w := httptest.NewRecorder()
		adminHandler.RegisterVoter(w, testutil.MakeRequest("POST", "/voters", models.RegisterVoterRequest{Address: addr.String()}, admin))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Register '%s' failed: %d - %s", addr, w.Code, w.Body.String())
		}
	}

	// Step 3: Start a one hour window
	w := httptest.NewRecorder()
	adminHandler.StartVoting(w, testutil.MakeRequest("POST", "/voting/start", models.StartVotingRequest{DurationSeconds: 3600}, admin))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Start voting failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 4: voter1 votes for Bob, then tries again
	voter1 := testutil.CallerHeaders(t, cfg, testutil.VoterAddress)
	w = httptest.NewRecorder()
	votingHandler.CastVote(w, testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{CandidateID: candidateID(1), CID: "cidX"}, voter1))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 4 - Vote failed: %d - %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	votingHandler.CastVote(w, testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{CandidateID: candidateID(0), CID: "cidY"}, voter1))
	testutil.AssertErrorCode(t, w, http.StatusConflict, "already_voted")

	// Results stay sealed while the window is open
	w = httptest.NewRecorder()
	resultsHandler.GetWinner(w, testutil.MakeRequest("GET", "/results/winner", nil, nil))
	testutil.AssertErrorCode(t, w, http.StatusConflict, "voting_still_active")

	// Step 5: Past the deadline voter2 is turned away
	clock.Advance(3601 * time.Second)
	w = httptest.NewRecorder()
	votingHandler.CastVote(w, testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{CandidateID: candidateID(0)}, testutil.CallerHeaders(t, cfg, testutil.VoterAddress2)))
	testutil.AssertErrorCode(t, w, http.StatusConflict, "voting_ended")

	// Step 6: Bob wins with one vote
	w = httptest.NewRecorder()
	resultsHandler.GetWinner(w, testutil.MakeRequest("GET", "/results/winner", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var winner models.WinnerResponse
	testutil.AssertJSON(t, w, &winner)
	if winner.Winner.ID != 1 || winner.Winner.Name != "Bob" || winner.Winner.VoteCount != 1 {
		t.Errorf("Step 6 - Expected Bob with 1 vote, got %+v", winner.Winner)
	}

	w = httptest.NewRecorder()
	resultsHandler.ListVotes(w, testutil.MakeRequest("GET", "/votes", nil, nil))
	var records []models.VoteRecord
	testutil.AssertJSON(t, w, &records)
	if len(records) != 1 || records[0] != (models.VoteRecord{Voter: testutil.VoterAddress, CandidateID: 1, CID: "cidX"}) {
		t.Errorf("Step 6 - Unexpected vote records %+v", records)
	}
}

// TestTieGoesToLowestID checks that tied candidates resolve to the earliest added
func TestTieGoesToLowestID(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, nil)
	testutil.SeedElection(t, l, []string{"Alice", "Bob", "Carol"}, testutil.VoterAddress, testutil.VoterAddress2)
	resultsHandler := NewResultsHandler(l)

	if _, err := l.Vote(testutil.VoterAddress, 2, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Vote(testutil.VoterAddress2, 1, ""); err != nil {
		t.Fatal(err)
	}
	if err := l.EndVoting(testutil.AdminAddress); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	resultsHandler.GetWinner(w, testutil.MakeRequest("GET", "/results/winner", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.WinnerResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Winner.Name != "Bob" {
		t.Errorf("Expected tie to resolve to Bob, got %s", resp.Winner.Name)
	}
}

// TestWinnerWithNoVotes checks that an empty tally still names the first candidate
func TestWinnerWithNoVotes(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, nil)
	testutil.SeedElection(t, l, []string{"Alice", "Bob"})
	if err := l.EndVoting(testutil.AdminAddress); err != nil {
		t.Fatal(err)
	}
	resultsHandler := NewResultsHandler(l)

	w := httptest.NewRecorder()
	resultsHandler.GetWinner(w, testutil.MakeRequest("GET", "/results/winner", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.WinnerResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Winner.ID != 0 || resp.Winner.VoteCount != 0 {
		t.Errorf("Expected candidate 0 with no votes, got %+v", resp.Winner)
	}
}
