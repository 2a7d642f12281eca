// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Register creator and voters
// 2. Create poll
// 3. Voters cast votes
// 4. Results stay hidden from voters
// 5. Creator edits the poll
// 6. Creator reveals results and voting closes
// 7. Delete poll
func TestFullVotingWorkflow(t *testing.T) {
	env := newTestEnv(t)

	// Step 1: Register creator and three voters
	register := func(name, email string) (*http.Cookie, string) {
		t.Helper()
		w := serve(env.auth.Register, request("POST", "/auth/register", "",
			models.RegisterRequest{Name: name, Email: email, Password: "hunter2-" + name}, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Register %s failed: %d - %s", name, w.Code, w.Body.String())
		}
		var resp models.AuthResponse
		testutil.AssertJSON(t, w, &resp)
		return responseCookie(w), resp.User.ID
	}

	creatorCookie, creatorID := register("Creator", "creator@example.com")
	voterCookies := make([]*http.Cookie, 0, 3)
	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		c, _ := register(name, name+"@example.com")
		voterCookies = append(voterCookies, c)
	}
	t.Log("Step 1 - Registered creator and 3 voters")

	// Step 2: Create a poll
	w := serve(env.polls.CreatePoll, request("POST", "/polls", "",
		models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza", "Sushi", "Tacos"}}, creatorCookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create poll failed: %d - %s", w.Code, w.Body.String())
	}
	var createResp models.CreatePollResponse
	testutil.AssertJSON(t, w, &createResp)
	pollID := createResp.ID
	t.Logf("Step 2 - Created poll: %s", pollID)

	// Step 3: Alice and Bob pick Pizza, Charlie picks Tacos
	for i, idx := range []int{0, 0, 2} {
		w := serve(env.voting.CastVote, request("POST", "/polls/"+pollID+"/vote", pollID,
			models.CastVoteRequest{OptionIndex: intPtr(idx)}, voterCookies[i]))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 3 - Vote %d failed: %d - %s", i, w.Code, w.Body.String())
		}
	}
	t.Log("Step 3 - Cast 3 votes")

	// Step 4: Voters cannot see results yet, the creator can
	w = serve(env.polls.GetPoll, request("GET", "/polls/"+pollID, pollID, nil, voterCookies[0]))
	testutil.AssertStatus(t, w, http.StatusOK)
	var detail models.PollDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.ResultsVisible || detail.TotalVotes != 0 || !detail.HasVoted {
		t.Fatalf("Step 4 - Expected redacted detail with hasVoted, got %+v", detail)
	}
	for _, o := range detail.Options {
		if o.Votes != 0 {
			t.Fatalf("Step 4 - Voter saw counts: %+v", detail.Options)
		}
	}

	w = serve(env.results.GetResults, request("GET", "/polls/"+pollID+"/results", pollID, nil, creatorCookie))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 3 || results.Winner == nil || results.Winner.Text != "Pizza" || results.Winner.Percentage != 67 {
		t.Fatalf("Step 4 - Unexpected creator results: %+v winner=%+v", results, results.Winner)
	}
	t.Log("Step 4 - Results hidden from voters, visible to creator")

	// Step 5: Creator reorders and renames; counts follow positions
	w = serve(env.polls.UpdatePoll, request("PUT", "/polls/"+pollID, pollID,
		models.UpdatePollRequest{Question: "Lunch today?", Options: []string{"Pizza", "Burgers", "Tacos", "Salad"}}, creatorCookie))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Update failed: %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 5 - Poll updated")

	// Step 6: Reveal results; further votes are rejected
	w = serve(env.results.ToggleResults, request("POST", "/polls/"+pollID+"/toggle-results", pollID, nil, creatorCookie))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = serve(env.results.GetResults, request("GET", "/polls/"+pollID+"/results", pollID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	results = models.ResultsResponse{}
	testutil.AssertJSON(t, w, &results)

	want := []int{2, 0, 1, 0}
	if len(results.Options) != len(want) {
		t.Fatalf("Step 6 - Expected %d options, got %+v", len(want), results.Options)
	}
	for i, o := range results.Options {
		if o.Votes != want[i] {
			t.Errorf("Step 6 - Option %q has %d votes, want %d", o.Text, o.Votes, want[i])
		}
	}
	if results.Question != "Lunch today?" || results.TotalVotes != 3 {
		t.Errorf("Step 6 - Unexpected results: %+v", results)
	}

	_, lateCookie := env.user(t, "Late", "late@example.com")
	w = serve(env.voting.CastVote, request("POST", "/polls/"+pollID+"/vote", pollID,
		models.CastVoteRequest{OptionIndex: intPtr(1)}, lateCookie))
	testutil.AssertStatus(t, w, http.StatusConflict)
	t.Log("Step 6 - Results public, voting closed")

	// The creator's listing reports the poll
	w = serve(env.polls.ListPolls, request("GET", "/polls?userId="+creatorID, "", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var summaries []models.PollSummary
	testutil.AssertJSON(t, w, &summaries)
	if len(summaries) != 1 || summaries[0].ID != pollID || summaries[0].TotalVotes != 3 {
		t.Fatalf("Expected the poll in the creator's listing, got %+v", summaries)
	}

	// Step 7: Delete
	w = serve(env.polls.DeletePoll, request("DELETE", "/polls/"+pollID, pollID, nil, creatorCookie))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = serve(env.polls.GetPoll, request("GET", "/polls/"+pollID, pollID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.voting.VotedPolls, request("GET", "/user/voted-polls", "", nil, voterCookies[0]))
	testutil.AssertStatus(t, w, http.StatusOK)
	summaries = nil
	testutil.AssertJSON(t, w, &summaries)
	if len(summaries) != 0 {
		t.Errorf("Step 7 - Deleted poll still listed as voted: %+v", summaries)
	}
	t.Log("Step 7 - Poll deleted")
}
