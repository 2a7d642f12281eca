// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

// TestDBURL is an in-memory SQLite database private to one connection
const TestDBURL = "file::memory:"

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "correct-horse-battery"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          cliparse.DefaultPort,
		DatabaseURL:   TestDBURL,
		DatabaseType:  "sqlite",
		JWTSecret:     "test-jwt-secret",
		SessionTTL:    cliparse.DefaultSessionTTL,
		Environment:   cliparse.EnvDevelopment,
		BcryptCost:    bcrypt.MinCost,
		AuthRateLimit: 1000,
	}
}

// CreateTestUser registers a user whose password is TestPassword
func CreateTestUser(t *testing.T, conn *sql.DB, name, email string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user, err := store.New(conn).CreateUser(context.Background(), name, auth.NormalizeEmail(email), hash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SessionCookie returns a valid session cookie for user
func SessionCookie(t *testing.T, cfg cliparse.Config, user models.User) *http.Cookie {
	t.Helper()

	token, _, err := auth.NewSessionIssuer(cfg).Sign(user.Public())
	if err != nil {
		t.Fatalf("Failed to sign session: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// CreateTestPoll creates a poll owned by owner with the given option texts
func CreateTestPoll(t *testing.T, conn *sql.DB, owner models.User, question string, options ...string) models.Poll {
	t.Helper()

	session := models.Session{UserID: owner.ID, Name: owner.Name, Email: owner.Email}
	poll, err := store.New(conn).CreatePoll(context.Background(), session, question, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// CastTestVote records a vote directly through the store
func CastTestVote(t *testing.T, conn *sql.DB, pollID, userID string, optionIndex int) {
	t.Helper()

	if _, err := store.New(conn).CastVote(context.Background(), pollID, userID, optionIndex); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeAuthRequest creates an HTTP test request carrying a session cookie
func MakeAuthRequest(method, path string, body interface{}, cookie *http.Cookie) *http.Request {
	req := MakeRequest(method, path, body, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
