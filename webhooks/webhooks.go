package webhooks

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/strava"
)

// Subscription is the application's push subscription. An application may
// only have one, so creating it removes any left over from earlier runs.
type Subscription struct {
	id int64

	server *Server
	api    *strava.API
}

// Subscribe registers callbackURL for push events, validated against
// server's verify token. The server must already be reachable at
// callbackURL. Call Close on the returned Subscription to remove it.
func Subscribe(ctx context.Context, api *strava.API, server *Server, callbackURL string) (*Subscription, error) {
	viewResp, err := api.ViewSubscription(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "webhooks: error listing subscriptions")
	}
	log.Println("webhooks: current subscriptions", viewResp)
	for _, existing := range viewResp {
		log.Println("webhooks: deleting existing subscription", existing.ID)
		err = api.DeleteSubscription(ctx, strava.DeleteSubscriptionRequest{
			ID: existing.ID,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "webhooks: error deleting subscription %d", existing.ID)
		}
	}

	createResp, err := api.CreateSubscription(ctx, strava.CreateSubscriptionRequest{
		CallbackURL: callbackURL,
		VerifyToken: server.VerifyToken(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "webhooks: error creating subscription")
	}
	log.Println("webhooks: subscription created with id", createResp.ID)

	return &Subscription{
		id:     createResp.ID,
		server: server,
		api:    api,
	}, nil
}

func (s *Subscription) ID() int64 {
	return s.id
}

// Close deletes the subscription and shuts the callback server down.
func (s *Subscription) Close(ctx context.Context) error {
	log.Println("webhooks: deleting subscription")
	err := s.api.DeleteSubscription(ctx, strava.DeleteSubscriptionRequest{
		ID: s.id,
	})
	if err != nil {
		log.Println("webhooks: error while deleting subscription:", err)
	}

	err = s.server.Shutdown(ctx)
	if err != nil {
		return errors.Wrap(err, "webhooks: error shutting down server")
	}
	return nil
}
