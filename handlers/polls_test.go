// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
	"github.com/danielhkuo/quickly-poll/testutil"
)

func TestCreatePoll(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.user(t, "Owner", "owner@example.com")

	tests := []struct {
		name           string
		body           interface{}
		cookie         *http.Cookie
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "valid poll",
			body:           models.CreatePollRequest{Question: "  Lunch?  ", Options: []string{"Pizza", " Sushi "}},
			cookie:         cookie,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "not logged in",
			body:           models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza", "Sushi"}},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "You must be logged in",
		},
		{
			name:           "missing question",
			body:           models.CreatePollRequest{Options: []string{"Pizza", "Sushi"}},
			cookie:         cookie,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Question and at least two options are required",
		},
		{
			name:           "single option",
			body:           models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza"}},
			cookie:         cookie,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Question and at least two options are required",
		},
		{
			name:           "blank option",
			body:           models.CreatePollRequest{Question: "Lunch?", Options: []string{"Pizza", "  "}},
			cookie:         cookie,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Options cannot be blank",
		},
		{
			name:           "invalid JSON",
			body:           []int{1, 2},
			cookie:         cookie,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(env.polls.CreatePoll, request("POST", "/polls", "", tt.body, tt.cookie))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message != tt.expectedMsg {
					t.Errorf("Expected message %q, got %q", tt.expectedMsg, resp.Message)
				}
				return
			}

			var resp models.CreatePollResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ID == "" {
				t.Fatal("Expected poll ID")
			}

			poll, err := store.New(env.db).GetPoll(context.Background(), resp.ID)
			if err != nil {
				t.Fatalf("GetPoll() error = %v", err)
			}
			if poll.Question != "Lunch?" || poll.Options[1].Text != "Sushi" {
				t.Errorf("Input not trimmed: %+v", poll)
			}
			if poll.CreatedByName != "Owner" || poll.TotalVotes != 0 || poll.ShowResults {
				t.Errorf("Unexpected initial state: %+v", poll)
			}
		})
	}

	if got := prom.ToFloat64(env.metrics.PollsCreated); got != 1 {
		t.Errorf("PollsCreated = %v, want 1", got)
	}
}

func TestListPolls(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceCookie := env.user(t, "Alice", "alice@example.com")
	bob, _ := env.user(t, "Bob", "bob@example.com")

	s := store.New(env.db)
	base := time.Now().UTC().Add(-3 * time.Hour)
	for i, owner := range []models.User{alice, bob, alice} {
		at := base.Add(time.Duration(i) * time.Hour)
		s.WithClock(func() time.Time { return at })
		p, err := s.CreatePoll(context.Background(), models.Session{UserID: owner.ID, Name: owner.Name}, "Poll", []string{"A", "B"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.CastVote(context.Background(), p.ID, bob.ID, 0); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("all polls newest first", func(t *testing.T) {
		w := serve(env.polls.ListPolls, request("GET", "/polls", "", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var polls []models.PollSummary
		testutil.AssertJSON(t, w, &polls)
		if len(polls) != 3 {
			t.Fatalf("Expected 3 polls, got %d", len(polls))
		}
		for i := 1; i < len(polls); i++ {
			if polls[i].CreatedAt.After(polls[i-1].CreatedAt) {
				t.Errorf("Polls not ordered newest first: %v before %v", polls[i-1].CreatedAt, polls[i].CreatedAt)
			}
		}
		if polls[0].CreatedAgo != "1 hour ago" {
			t.Errorf("Expected CreatedAgo '1 hour ago', got %q", polls[0].CreatedAgo)
		}
		if polls[0].OptionCount != 2 {
			t.Errorf("Expected OptionCount 2, got %d", polls[0].OptionCount)
		}
		// Anonymous viewers get the participation total but no breakdown.
		for _, p := range polls {
			if p.ResultsVisible {
				t.Errorf("Expected hidden results for %s", p.ID)
			}
			if p.TotalVotes != 1 {
				t.Errorf("Expected total 1, got %d", p.TotalVotes)
			}
			if len(p.Options) != 2 || p.Options[0].Text != "A" || p.Options[1].Text != "B" {
				t.Fatalf("Expected option texts, got %+v", p.Options)
			}
			if p.Options[0].Votes != 0 || p.Options[1].Votes != 0 {
				t.Errorf("Option counts leaked: %+v", p.Options)
			}
		}
	})

	t.Run("filter by creator", func(t *testing.T) {
		w := serve(env.polls.ListPolls, request("GET", "/polls?userId="+alice.ID, "", nil, aliceCookie))
		testutil.AssertStatus(t, w, http.StatusOK)

		var polls []models.PollSummary
		testutil.AssertJSON(t, w, &polls)
		if len(polls) != 2 {
			t.Fatalf("Expected 2 polls, got %d", len(polls))
		}
		for _, p := range polls {
			if p.CreatedBy != alice.ID {
				t.Errorf("Unexpected creator %s", p.CreatedBy)
			}
			// The creator always sees their own breakdown.
			if !p.ResultsVisible || p.TotalVotes != 1 || p.Options[0].Votes != 1 {
				t.Errorf("Expected owner to see counts, got %+v", p)
			}
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := serve(env.polls.ListPolls, request("GET", "/polls?userId=nobody", "", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		if body := w.Body.String(); body != "[]\n" {
			t.Errorf("Expected empty JSON array, got %q", body)
		}
	})
}

func TestGetPoll(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerCookie := env.user(t, "Owner", "owner@example.com")
	voter, voterCookie := env.user(t, "Voter", "voter@example.com")
	other, _ := env.user(t, "Other", "other@example.com")

	poll := testutil.CreateTestPoll(t, env.db, owner, "Best color?", "Red", "Blue")
	testutil.CastTestVote(t, env.db, poll.ID, voter.ID, 1)
	testutil.CastTestVote(t, env.db, poll.ID, other.ID, 1)
	testutil.CastTestVote(t, env.db, poll.ID, owner.ID, 0)

	get := func(cookie *http.Cookie) models.PollDetail {
		t.Helper()
		w := serve(env.polls.GetPoll, request("GET", "/polls/"+poll.ID, poll.ID, nil, cookie))
		testutil.AssertStatus(t, w, http.StatusOK)
		var detail models.PollDetail
		testutil.AssertJSON(t, w, &detail)
		return detail
	}

	t.Run("not found", func(t *testing.T) {
		w := serve(env.polls.GetPoll, request("GET", "/polls/missing", "missing", nil, nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("hidden from voter", func(t *testing.T) {
		d := get(voterCookie)
		if d.ResultsVisible {
			t.Error("Expected results hidden")
		}
		if !d.HasVoted {
			t.Error("Expected HasVoted for voter")
		}
		if d.TotalVotes != 0 || d.Options[0].Votes != 0 || d.Options[1].Votes != 0 || d.Winner != nil {
			t.Errorf("Counts leaked: %+v", d)
		}
		if d.Options[1].Text != "Blue" {
			t.Errorf("Option texts should stay visible: %+v", d.Options)
		}
	})

	t.Run("visible to owner", func(t *testing.T) {
		d := get(ownerCookie)
		if !d.ResultsVisible || d.TotalVotes != 3 {
			t.Errorf("Expected owner to see results: %+v", d)
		}
		if d.Winner == nil || d.Winner.Text != "Blue" || d.Winner.Percentage != 67 {
			t.Errorf("Unexpected winner: %+v", d.Winner)
		}
	})

	t.Run("anonymous after results shown", func(t *testing.T) {
		if _, err := store.New(env.db).ToggleResults(context.Background(), owner.ID, poll.ID); err != nil {
			t.Fatal(err)
		}
		d := get(nil)
		if !d.ResultsVisible || d.HasVoted || d.Options[1].Votes != 2 {
			t.Errorf("Expected public results: %+v", d)
		}
	})
}

func TestUpdatePoll(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerCookie := env.user(t, "Owner", "owner@example.com")
	_, otherCookie := env.user(t, "Other", "other@example.com")

	poll := testutil.CreateTestPoll(t, env.db, owner, "A or B?", "A", "B")
	for i, idx := range []int{0, 0, 0, 1, 1} {
		u := testutil.CreateTestUser(t, env.db, "V", "v"+string(rune('0'+i))+"@example.com")
		testutil.CastTestVote(t, env.db, poll.ID, u.ID, idx)
	}

	update := models.UpdatePollRequest{Question: "A, C or B?", Options: []string{"A", "C", "B"}}

	tests := []struct {
		name           string
		pollID         string
		body           interface{}
		cookie         *http.Cookie
		expectedStatus int
	}{
		{"not logged in", poll.ID, update, nil, http.StatusUnauthorized},
		{"not the owner", poll.ID, update, otherCookie, http.StatusForbidden},
		{"unknown poll", "missing", update, ownerCookie, http.StatusNotFound},
		{"too few options", poll.ID, models.UpdatePollRequest{Question: "Q", Options: []string{"A"}}, ownerCookie, http.StatusBadRequest},
		{"owner", poll.ID, update, ownerCookie, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(env.polls.UpdatePoll, request("PUT", "/polls/"+tt.pollID, tt.pollID, tt.body, tt.cookie))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	got, err := store.New(env.db).GetPoll(context.Background(), poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Option{{Text: "A", Votes: 3}, {Text: "C", Votes: 2}, {Text: "B", Votes: 0}}
	for i, o := range want {
		if got.Options[i] != o {
			t.Errorf("option %d = %+v, want %+v", i, got.Options[i], o)
		}
	}
	if got.TotalVotes != 5 || got.UpdatedAt == nil {
		t.Errorf("TotalVotes = %d, UpdatedAt = %v", got.TotalVotes, got.UpdatedAt)
	}
}

func TestDeletePoll(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerCookie := env.user(t, "Owner", "owner@example.com")
	other, otherCookie := env.user(t, "Other", "other@example.com")

	poll := testutil.CreateTestPoll(t, env.db, owner, "Delete me?", "Yes", "No")
	testutil.CastTestVote(t, env.db, poll.ID, other.ID, 0)

	w := serve(env.polls.DeletePoll, request("DELETE", "/polls/"+poll.ID, poll.ID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = serve(env.polls.DeletePoll, request("DELETE", "/polls/"+poll.ID, poll.ID, nil, otherCookie))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = serve(env.polls.DeletePoll, request("DELETE", "/polls/"+poll.ID, poll.ID, nil, ownerCookie))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = serve(env.polls.GetPoll, request("GET", "/polls/"+poll.ID, poll.ID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(env.polls.DeletePoll, request("DELETE", "/polls/"+poll.ID, poll.ID, nil, ownerCookie))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	if got := prom.ToFloat64(env.metrics.PollsDeleted); got != 1 {
		t.Errorf("PollsDeleted = %v, want 1", got)
	}
}
