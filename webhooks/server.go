// Package webhooks serves the callback Strava pushes subscription events to.
package webhooks

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/strava"
)

// EventHandler receives each event pushed to the callback. Strava expects
// the callback to answer within two seconds, so handlers must not block.
type EventHandler func(event strava.Event)

type Server struct {
	server      *http.Server
	mux         *http.ServeMux
	verifyToken string
	onEvent     EventHandler
}

// NewServer creates a callback server listening on addr. Events are
// accepted on every path not claimed with Handle.
func NewServer(addr string, onEvent EventHandler) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		verifyToken: uuid.NewString(),
		onEvent:     onEvent,
	}
	s.mux.HandleFunc("/", s.handleWebhooks())
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s
}

// VerifyToken is the token Strava must echo when validating the callback.
func (s *Server) VerifyToken() string {
	return s.verifyToken
}

// Handle registers another handler on the server, e.g. the OAuth redirect.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve listens until Shutdown is called.
func (s *Server) Serve() error {
	log.Println("webhooks: starting webhook server on", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "webhooks: server failed")
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleWebhooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleSubscriptionValidation()(w, r)
		case http.MethodPost:
			s.handleEvent()(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

type subscriptionValidationResponse struct {
	Challenge string `json:"hub.challenge"`
}

func (s *Server) handleSubscriptionValidation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// GET https://mycallbackurl.com?hub.verify_token=STRAVA&hub.challenge=15f7d1a91c1f40f8a748fd134752feb3&hub.mode=subscribe
		q := r.URL.Query()
		if q.Get("hub.mode") != "subscribe" {
			w.WriteHeader(http.StatusBadRequest)
			log.Println("webhooks: received subscription validation request with invalid hub.mode")
			return
		}
		if q.Get("hub.verify_token") != s.verifyToken {
			w.WriteHeader(http.StatusBadRequest)
			log.Println("webhooks: received subscription validation request with incorrect hub.verify_token:", q.Get("hub.verify_token"))
			return
		}
		if !q.Has("hub.challenge") {
			w.WriteHeader(http.StatusBadRequest)
			log.Println("webhooks: received subscription validation request with no hub.challenge")
			return
		}

		resp := subscriptionValidationResponse{
			Challenge: q.Get("hub.challenge"),
		}
		respBody, err := json.Marshal(resp)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Printf("webhooks: failed to marshal subscription validation response: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(respBody)
	}
}

func (s *Server) handleEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event strava.Event
		err := json.NewDecoder(r.Body).Decode(&event)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			log.Printf("webhooks: failed to decode event: %v", err)
			return
		}
		if event.ObjectType == "" || event.AspectType == "" {
			w.WriteHeader(http.StatusBadRequest)
			log.Printf("webhooks: received incomplete event: %+v", event)
			return
		}
		log.Printf("webhooks: received %s %s event for object %d", event.ObjectType, event.AspectType, event.ObjectID)
		if s.onEvent != nil {
			s.onEvent(event)
		}
		w.WriteHeader(http.StatusOK)
	}
}
