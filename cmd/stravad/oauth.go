package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kwoodhouse93/go-strava/auth"
)

// Exchanger turns an authorization code into a stored token.
type Exchanger interface {
	AuthCodeURL(state string, force bool, scopes ...auth.Scope) string
	Exchange(ctx context.Context, code string, scopes ...auth.Scope) (*auth.Token, error)
}

// stateTTL bounds how long an athlete may take on Strava's authorization
// page.
const stateTTL = 10 * time.Minute

// oauthHandlers sends athletes to Strava to authorize the worker and
// receives the redirect back. Each state is accepted once, within stateTTL
// of being issued.
type oauthHandlers struct {
	tokens Exchanger
	scopes []auth.Scope
	now    func() time.Time

	mu     sync.Mutex
	states map[string]time.Time
}

func newOAuthHandlers(tokens Exchanger, scopes ...auth.Scope) *oauthHandlers {
	return &oauthHandlers{
		tokens: tokens,
		scopes: scopes,
		now:    time.Now,
		states: map[string]time.Time{},
	}
}

// issue records a new state, dropping any that have expired.
func (o *oauthHandlers) issue() string {
	state := uuid.NewString()
	now := o.now()
	o.mu.Lock()
	defer o.mu.Unlock()
	for s, issued := range o.states {
		if now.Sub(issued) > stateTTL {
			delete(o.states, s)
		}
	}
	o.states[state] = now
	return state
}

// consume reports whether state was issued and has not expired. A state
// can only be consumed once.
func (o *oauthHandlers) consume(state string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	issued, ok := o.states[state]
	delete(o.states, state)
	return ok && o.now().Sub(issued) <= stateTTL
}

func (o *oauthHandlers) authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := o.issue()
		force := r.URL.Query().Get("force") == "true"
		http.Redirect(w, r, o.tokens.AuthCodeURL(state, force, o.scopes...), http.StatusFound)
	}
}

func (o *oauthHandlers) exchange() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if !o.consume(q.Get("state")) {
			log.Println("stravad: received authorization redirect with unknown or expired state")
			http.Error(w, "unknown state", http.StatusBadRequest)
			return
		}
		if errMsg := q.Get("error"); errMsg != "" {
			log.Println("stravad: authorization declined:", errMsg)
			http.Error(w, "authorization declined", http.StatusForbidden)
			return
		}

		token, err := o.tokens.Exchange(r.Context(), q.Get("code"), auth.ParseScopes(q.Get("scope"))...)
		if err != nil {
			log.Println("stravad: error exchanging code:", err)
			http.Error(w, "authorization failed", http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, "authorized athlete %d\n", token.AthleteID())
	}
}
