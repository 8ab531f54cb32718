package processor

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/kwoodhouse93/go-strava/strava"
)

type TokenSources interface {
	TokenSource(ctx context.Context, athleteID int64) oauth2.TokenSource
}

// StravaActivities fetches activities with each owner's own token.
type StravaActivities struct {
	api    *strava.API
	tokens TokenSources
}

func NewStravaActivities(api *strava.API, tokens TokenSources) *StravaActivities {
	return &StravaActivities{
		api:    api,
		tokens: tokens,
	}
}

func (a *StravaActivities) GetActivity(ctx context.Context, athleteID, activityID int64) (*strava.DetailedActivity, error) {
	client := a.api.Authenticated(a.tokens.TokenSource(ctx, athleteID))
	return client.GetActivity(ctx, strava.GetActivityRequest{ID: activityID})
}
