// Package auth manages Strava OAuth tokens: acquiring them from an
// authorization code, refreshing them before reuse, and caching them per
// athlete.
package auth

import (
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/kwoodhouse93/go-strava/strava"
)

var (
	ErrInvalidArgument = errors.New("auth: invalid argument")
	ErrTokenNotFound   = errors.New("auth: token not found")
)

// Scope is a permission granted to the application by an athlete.
type Scope string

const (
	ScopeRead            Scope = "read"
	ScopeReadAll         Scope = "read_all"
	ScopeProfileReadAll  Scope = "profile:read_all"
	ScopeProfileWrite    Scope = "profile:write"
	ScopeActivityRead    Scope = "activity:read"
	ScopeActivityReadAll Scope = "activity:read_all"
	ScopeActivityWrite   Scope = "activity:write"
)

// ParseScopes splits the comma separated scope list Strava returns with the
// authorization redirect.
func ParseScopes(s string) []Scope {
	scopes := []Scope{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			scopes = append(scopes, Scope(part))
		}
	}
	return scopes
}

func JoinScopes(scopes []Scope) string {
	parts := make([]string, 0, len(scopes))
	for _, s := range scopes {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

// Token is an athlete's credential together with the scopes it was granted.
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	// ExpiresAt is in seconds since the epoch.
	ExpiresAt int64
	Athlete   *strava.SummaryAthlete
	Scopes    []Scope
}

// NewToken builds a token from a token endpoint response. Scopes is never
// nil on the result.
func NewToken(resp *strava.TokenResponse, scopes ...Scope) *Token {
	return &Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresAt:    resp.ExpiresAt,
		Athlete:      resp.Athlete,
		Scopes:       append([]Scope{}, scopes...),
	}
}

// AthleteID is the id of the athlete the token belongs to, or 0.
func (t *Token) AthleteID() int64 {
	if t == nil || t.Athlete == nil {
		return 0
	}
	return t.Athlete.ID
}

func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt < now.Unix()
}

func (t *Token) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// HasScopes reports whether every scope in scopes was granted.
func (t *Token) HasScopes(scopes ...Scope) bool {
	for _, s := range scopes {
		if !slices.Contains(t.Scopes, s) {
			return false
		}
	}
	return true
}

// HasExactScopes reports whether the granted scopes are exactly scopes,
// ignoring order.
func (t *Token) HasExactScopes(scopes ...Scope) bool {
	if !t.HasScopes(scopes...) {
		return false
	}
	for _, s := range t.Scopes {
		if !slices.Contains(scopes, s) {
			return false
		}
	}
	return true
}

func (t *Token) OAuth2() *oauth2.Token {
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    tokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry(),
	}
}
