// Package processor applies webhook events to the store, fetching activities
// from Strava on behalf of their owners.
package processor

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/auth"
	"github.com/kwoodhouse93/go-strava/strava"
)

type Activities interface {
	GetActivity(ctx context.Context, athleteID, activityID int64) (*strava.DetailedActivity, error)
}

type Store interface {
	SaveActivity(ctx context.Context, activity *strava.DetailedActivity) error
	UpdateActivity(ctx context.Context, athleteID, activityID int64, title, activityType *string, private *bool) error
	DeleteActivity(ctx context.Context, athleteID, activityID int64) error
}

type Tokens interface {
	Forget(ctx context.Context, athleteID int64) error
}

type RateLimiter interface {
	RateLimit() strava.RateUsage
}

type Processor struct {
	activities Activities
	store      Store
	tokens     Tokens
	limits     RateLimiter
	events     <-chan strava.Event
	interval   time.Duration
	retryDelay time.Duration
	maxRetries int
}

type Option func(*Processor)

// WithRetry sets how often and after how long a rate limited fetch is
// retried.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(p *Processor) {
		p.maxRetries = maxRetries
		p.retryDelay = delay
	}
}

// WithRateLimiter reports limits' usage every interval.
func WithRateLimiter(limits RateLimiter) Option {
	return func(p *Processor) {
		p.limits = limits
	}
}

func New(activities Activities, store Store, tokens Tokens, events <-chan strava.Event, interval time.Duration, opts ...Option) *Processor {
	p := &Processor{
		activities: activities,
		store:      store,
		tokens:     tokens,
		events:     events,
		interval:   interval,
		retryDelay: time.Minute,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Serve processes events until ctx is done or the store fails.
func (p *Processor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-p.events:
			if !ok {
				log.Println("processor: event queue closed")
				return nil
			}
			err := p.process(ctx, event)
			if err != nil {
				return err
			}

		// Report rate limit usage on a regular interval.
		case <-ticker.C:
			if p.limits != nil {
				usage := p.limits.RateLimit()
				log.Printf("processor: rate limit usage %d/%d (15 min), %d/%d (daily)",
					usage.ShortTermUsage, usage.ShortTermLimit, usage.DailyUsage, usage.DailyLimit)
			}
		}
	}
}

// process applies one event. Errors talking to Strava are logged and the
// event dropped; store errors are returned.
func (p *Processor) process(ctx context.Context, event strava.Event) error {
	switch event.ObjectType {
	case strava.ObjectTypeAthlete:
		if !event.Deauthorized() {
			return nil
		}
		log.Printf("processor: athlete %d deauthorized", event.OwnerID)
		return p.tokens.Forget(ctx, event.OwnerID)

	case strava.ObjectTypeActivity:
		switch event.AspectType {
		case strava.AspectTypeCreate:
			return p.fetch(ctx, event)
		case strava.AspectTypeUpdate:
			title, activityType, private := updatedFields(event.Updates)
			log.Printf("processor: updating activity %d", event.ObjectID)
			return p.store.UpdateActivity(ctx, event.OwnerID, event.ObjectID, title, activityType, private)
		case strava.AspectTypeDelete:
			log.Printf("processor: deleting activity %d", event.ObjectID)
			return p.store.DeleteActivity(ctx, event.OwnerID, event.ObjectID)
		}
	}
	log.Printf("processor: ignoring %s %s event", event.ObjectType, event.AspectType)
	return nil
}

func (p *Processor) fetch(ctx context.Context, event strava.Event) error {
	retries := 0
	for {
		activity, err := p.activities.GetActivity(ctx, event.OwnerID, event.ObjectID)
		if err == nil {
			log.Printf("processor: fetched activity %d %q (%s, %.0fm)", activity.ID, activity.Name, activity.SportType, activity.Distance)
			return p.store.SaveActivity(ctx, activity)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch {
		case errors.Is(err, strava.ErrRateLimited) && retries < p.maxRetries:
			retries++
			log.Printf("processor: rate limited fetching activity %d, retrying in %s", event.ObjectID, p.retryDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		case errors.Is(err, auth.ErrTokenNotFound):
			log.Printf("processor: no token for athlete %d, skipping activity %d", event.OwnerID, event.ObjectID)
			return nil
		default:
			log.Printf("processor: error fetching activity %d: %v", event.ObjectID, err)
			return nil
		}
	}
}

// updatedFields picks the fields an activity update event can carry. The
// type reported is the legacy activity type, not the sport type.
func updatedFields(updates map[string]string) (title, activityType *string, private *bool) {
	if v, ok := updates["title"]; ok {
		title = &v
	}
	if v, ok := updates["type"]; ok {
		activityType = &v
	}
	if v, ok := updates["private"]; ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			private = &b
		}
	}
	return title, activityType, private
}
