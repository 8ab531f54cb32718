package strava

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

const (
	subscriptionPath = "/push_subscriptions"
)

type CreateSubscriptionRequest struct {
	CallbackURL string
	VerifyToken string
}

type CreateSubscriptionResponse struct {
	ID int64 `json:"id"`
}

func (s *API) credentials() url.Values {
	return url.Values{
		"client_id":     {strconv.Itoa(s.clientID)},
		"client_secret": {s.clientSecret},
	}
}

// CreateSubscription registers the callback URL for push events. Strava
// validates the callback before it responds, so the callback server must
// already be serving.
func (s *API) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*CreateSubscriptionResponse, error) {
	log.Println("strava: creating strava webhooks subscription")
	form := s.credentials()
	form.Set("callback_url", req.CallbackURL)
	form.Set("verify_token", req.VerifyToken)

	respBody, err := s.send(ctx, s.client, http.MethodPost, s.baseURL+subscriptionPath, nil, form)
	if err != nil {
		return nil, errors.Wrap(err, "strava: failed to create subscription")
	}
	var response CreateSubscriptionResponse
	err = decode(respBody, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

type ViewSubscriptionResponse struct {
	ID            int64         `json:"id"`
	ResourceState ResourceState `json:"resource_state"`
	ApplicationID int64         `json:"application_id"`
	CallbackURL   string        `json:"callback_url"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

func (s *API) ViewSubscription(ctx context.Context) ([]ViewSubscriptionResponse, error) {
	respBody, err := s.send(ctx, s.client, http.MethodGet, s.baseURL+subscriptionPath, s.credentials(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "strava: failed to get subscription")
	}
	var response []ViewSubscriptionResponse
	err = decode(respBody, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

type DeleteSubscriptionRequest struct {
	ID int64
}

func (s *API) DeleteSubscription(ctx context.Context, req DeleteSubscriptionRequest) error {
	path := subscriptionPath + "/" + strconv.FormatInt(req.ID, 10)
	_, err := s.send(ctx, s.client, http.MethodDelete, s.baseURL+path, s.credentials(), nil)
	if err != nil {
		return errors.Wrap(err, "strava: failed to delete subscription")
	}
	return nil
}

const (
	ObjectTypeActivity = "activity"
	ObjectTypeAthlete  = "athlete"

	AspectTypeCreate = "create"
	AspectTypeUpdate = "update"
	AspectTypeDelete = "delete"
)

// Event is a push notification delivered to the subscription callback.
type Event struct {
	ObjectType     string            `json:"object_type"`
	ObjectID       int64             `json:"object_id"`
	AspectType     string            `json:"aspect_type"`
	Updates        map[string]string `json:"updates"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
}

// Deauthorized reports whether the event tells us the athlete revoked the
// application's access.
func (e Event) Deauthorized() bool {
	return e.ObjectType == ObjectTypeAthlete &&
		e.AspectType == AspectTypeUpdate &&
		e.Updates["authorized"] == "false"
}
