package strava

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kwoodhouse93/go-strava/paging"
)

const (
	activitiesPath        = "/activities"
	athleteActivitiesPath = "/athlete/activities"
	followingPath         = "/activities/following"
)

func activityPath(id int64, parts ...string) string {
	path := activitiesPath + "/" + strconv.FormatInt(id, 10)
	if len(parts) > 0 {
		path += "/" + strings.Join(parts, "/")
	}
	return path
}

type GetActivityRequest struct {
	ID                int64
	IncludeAllEfforts bool
}

func (c *Client) GetActivity(ctx context.Context, req GetActivityRequest) (*DetailedActivity, error) {
	q := url.Values{}
	if req.IncludeAllEfforts {
		q.Set("include_all_efforts", "true")
	}
	var response DetailedActivity
	err := c.get(ctx, activityPath(req.ID), q, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateActivity is the body of a manual activity upload.
type CreateActivity struct {
	Name           string    `json:"name"`
	SportType      SportType `json:"sport_type"`
	StartDateLocal time.Time `json:"start_date_local"`
	ElapsedTime    int       `json:"elapsed_time"`
	Description    string    `json:"description,omitempty"`
	Distance       float64   `json:"distance,omitempty"`
	Trainer        bool      `json:"trainer,omitempty"`
	Commute        bool      `json:"commute,omitempty"`
}

func (c *Client) CreateActivity(ctx context.Context, req CreateActivity) (*DetailedActivity, error) {
	var response DetailedActivity
	err := c.call(ctx, http.MethodPost, activitiesPath, nil, req, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateActivity holds the fields that may be changed on an activity. Nil
// fields are left as they are.
type UpdateActivity struct {
	Name         *string    `json:"name,omitempty"`
	SportType    *SportType `json:"sport_type,omitempty"`
	Description  *string    `json:"description,omitempty"`
	GearID       *string    `json:"gear_id,omitempty"`
	Commute      *bool      `json:"commute,omitempty"`
	Trainer      *bool      `json:"trainer,omitempty"`
	HideFromHome *bool      `json:"hide_from_home,omitempty"`
}

func (c *Client) UpdateActivity(ctx context.Context, id int64, update UpdateActivity) (*DetailedActivity, error) {
	var response DetailedActivity
	err := c.call(ctx, http.MethodPut, activityPath(id), nil, update, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, activityPath(id), nil, nil, nil)
}

// ListActivitiesRequest filters the authenticated athlete's activities by
// start time. Zero times are not sent.
type ListActivitiesRequest struct {
	Before time.Time
	After  time.Time
	Paging *paging.Paging
}

func (c *Client) ListAthleteActivities(ctx context.Context, req ListActivitiesRequest) ([]SummaryActivity, error) {
	q := url.Values{}
	if !req.Before.IsZero() {
		q.Set("before", strconv.FormatInt(req.Before.Unix(), 10))
	}
	if !req.After.IsZero() {
		q.Set("after", strconv.FormatInt(req.After.Unix(), 10))
	}
	return list[SummaryActivity](ctx, c, athleteActivitiesPath, q, req.Paging)
}

// ListFriendsActivities lists recent activities of athletes the
// authenticated athlete follows.
func (c *Client) ListFriendsActivities(ctx context.Context, p *paging.Paging) ([]SummaryActivity, error) {
	return list[SummaryActivity](ctx, c, followingPath, nil, p)
}

func (c *Client) ListRelatedActivities(ctx context.Context, id int64, p *paging.Paging) ([]SummaryActivity, error) {
	return list[SummaryActivity](ctx, c, activityPath(id, "related"), nil, p)
}

type ListCommentsRequest struct {
	ActivityID int64
	Markdown   bool
	Paging     *paging.Paging
}

func (c *Client) ListActivityComments(ctx context.Context, req ListCommentsRequest) ([]Comment, error) {
	q := url.Values{}
	if req.Markdown {
		q.Set("markdown", "true")
	}
	return list[Comment](ctx, c, activityPath(req.ActivityID, "comments"), q, req.Paging)
}

func (c *Client) CreateComment(ctx context.Context, activityID int64, text string) (*Comment, error) {
	q := url.Values{"text": {text}}
	var response Comment
	err := c.call(ctx, http.MethodPost, activityPath(activityID, "comments"), q, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) DeleteComment(ctx context.Context, activityID, commentID int64) error {
	path := activityPath(activityID, "comments", strconv.FormatInt(commentID, 10))
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) GiveKudos(ctx context.Context, activityID int64) error {
	return c.call(ctx, http.MethodPost, activityPath(activityID, "kudos"), nil, nil, nil)
}

func (c *Client) ListActivityKudoers(ctx context.Context, activityID int64, p *paging.Paging) ([]SummaryAthlete, error) {
	return list[SummaryAthlete](ctx, c, activityPath(activityID, "kudos"), nil, p)
}

func (c *Client) ListActivityLaps(ctx context.Context, activityID int64) ([]Lap, error) {
	var response []Lap
	err := c.get(ctx, activityPath(activityID, "laps"), nil, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) ListActivityPhotos(ctx context.Context, activityID int64) ([]Photo, error) {
	var response []Photo
	err := c.get(ctx, activityPath(activityID, "photos"), nil, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) ListActivityZones(ctx context.Context, activityID int64) ([]ActivityZone, error) {
	var response []ActivityZone
	err := c.get(ctx, activityPath(activityID, "zones"), nil, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetActivityStreams fetches the requested streams keyed by type. Strava
// always includes distance and time alongside the requested keys.
func (c *Client) GetActivityStreams(ctx context.Context, activityID int64, types ...StreamType) (map[StreamType]Stream, error) {
	keys := make([]string, 0, len(types))
	for _, t := range types {
		keys = append(keys, string(t))
	}
	q := url.Values{"key_by_type": {"true"}}
	if len(keys) > 0 {
		q.Set("keys", strings.Join(keys, ","))
	}
	response := map[StreamType]Stream{}
	err := c.get(ctx, activityPath(activityID, "streams"), q, &response)
	if err != nil {
		return nil, err
	}
	for t, s := range response {
		s.Type = t
		response[t] = s
	}
	return response, nil
}

// list serves a paged collection endpoint, splitting requests larger than
// Strava's page size limit.
func list[T any](ctx context.Context, c *Client, path string, query url.Values, p *paging.Paging) ([]T, error) {
	return paging.Collect(ctx, p, func(ctx context.Context, page, perPage int) ([]T, error) {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(perPage))

		var response []T
		err := c.get(ctx, path, q, &response)
		if err != nil {
			return nil, err
		}
		return response, nil
	})
}
