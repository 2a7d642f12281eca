// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/models"
)

// CookieName is the session cookie set on login and registration.
const CookieName = "auth-token"

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionIssuer signs, verifies and stores session tokens. Sessions are
// stateless: nothing is kept server-side, so a token stays valid until it
// expires even after the cookie is cleared.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionIssuer(cfg cliparse.Config) *SessionIssuer {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = cliparse.DefaultSessionTTL
	}
	return &SessionIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		secure: cfg.SecureCookies(),
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	s.now = now
	return s
}

// Sign creates an HS256 token for user.
func (s *SessionIssuer) Sign(user models.PublicUser) (string, time.Time, error) {
	issued := s.now()
	expires := issued.Add(s.ttl)

	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, expires, nil
}

// Verify checks signature, algorithm and expiry of token.
func (s *SessionIssuer) Verify(token string) (*models.Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	session := &models.Session{
		UserID:    claims.UserID,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}

// Issue signs a session for user and sets it as the session cookie.
func (s *SessionIssuer) Issue(w http.ResponseWriter, user models.PublicUser) error {
	token, _, err := s.Sign(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(token, int(s.ttl/time.Second)))
	return nil
}

// Current returns the session carried by the request, or nil. A cookie that
// fails verification is cleared and treated as logged out.
func (s *SessionIssuer) Current(w http.ResponseWriter, r *http.Request) *models.Session {
	c, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return nil
	}
	if err != nil {
		s.Clear(w)
		return nil
	}

	session, err := s.Verify(c.Value)
	if err != nil {
		slog.Warn("rejected session cookie", "error", err)
		s.Clear(w)
		return nil
	}
	return session
}

// Clear deletes the session cookie.
func (s *SessionIssuer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *SessionIssuer) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
