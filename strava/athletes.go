package strava

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kwoodhouse93/go-strava/paging"
)

const (
	athletePath  = "/athlete"
	athletesPath = "/athletes"
)

func athleteByIDPath(id int64, part string) string {
	path := athletesPath + "/" + strconv.FormatInt(id, 10)
	if part != "" {
		path += "/" + part
	}
	return path
}

func (c *Client) GetAuthenticatedAthlete(ctx context.Context) (*DetailedAthlete, error) {
	var response DetailedAthlete
	err := c.get(ctx, athletePath, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) GetAthlete(ctx context.Context, id int64) (*DetailedAthlete, error) {
	var response DetailedAthlete
	err := c.get(ctx, athleteByIDPath(id, ""), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateAthlete holds the profile fields that may be changed. Nil fields are
// not sent.
type UpdateAthlete struct {
	City    *string
	State   *string
	Country *string
	Sex     *Gender
	Weight  *float64
}

func (u UpdateAthlete) values() url.Values {
	q := url.Values{}
	if u.City != nil {
		q.Set("city", *u.City)
	}
	if u.State != nil {
		q.Set("state", *u.State)
	}
	if u.Country != nil {
		q.Set("country", *u.Country)
	}
	if u.Sex != nil {
		q.Set("sex", string(*u.Sex))
	}
	if u.Weight != nil {
		q.Set("weight", strconv.FormatFloat(*u.Weight, 'f', -1, 64))
	}
	return q
}

func (c *Client) UpdateAuthenticatedAthlete(ctx context.Context, update UpdateAthlete) (*DetailedAthlete, error) {
	var response DetailedAthlete
	err := c.call(ctx, http.MethodPut, athletePath, update.values(), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) GetAuthenticatedAthleteZones(ctx context.Context) (*Zones, error) {
	var response Zones
	err := c.get(ctx, athletePath+"/zones", nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) GetAthleteStats(ctx context.Context, id int64) (*ActivityStats, error) {
	var response ActivityStats
	err := c.get(ctx, athleteByIDPath(id, "stats"), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) ListAuthenticatedAthleteFriends(ctx context.Context, p *paging.Paging) ([]SummaryAthlete, error) {
	return list[SummaryAthlete](ctx, c, athletePath+"/friends", nil, p)
}

func (c *Client) ListAthleteFriends(ctx context.Context, id int64, p *paging.Paging) ([]SummaryAthlete, error) {
	return list[SummaryAthlete](ctx, c, athleteByIDPath(id, "friends"), nil, p)
}

// ListAthletesBothFollowing lists athletes followed by both the authenticated
// athlete and athlete id.
func (c *Client) ListAthletesBothFollowing(ctx context.Context, id int64, p *paging.Paging) ([]SummaryAthlete, error) {
	return list[SummaryAthlete](ctx, c, athleteByIDPath(id, "both-following"), nil, p)
}

func (c *Client) ListAthleteKOMs(ctx context.Context, id int64, p *paging.Paging) ([]SegmentEffort, error) {
	return list[SegmentEffort](ctx, c, athleteByIDPath(id, "koms"), nil, p)
}
