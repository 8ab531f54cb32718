package strava

import (
	"context"
	"net/http"
	"strconv"
)

const challengesPath = "/challenges"

func challengePath(id int64, part string) string {
	path := challengesPath + "/" + strconv.FormatInt(id, 10)
	if part != "" {
		path += "/" + part
	}
	return path
}

func (c *Client) GetChallenge(ctx context.Context, id int64) (*Challenge, error) {
	var response Challenge
	err := c.get(ctx, challengePath(id, ""), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) JoinChallenge(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodPost, challengePath(id, "join"), nil, nil, nil)
}

func (c *Client) LeaveChallenge(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodPost, challengePath(id, "leave"), nil, nil, nil)
}

func (c *Client) ListJoinedChallenges(ctx context.Context) ([]Challenge, error) {
	var response []Challenge
	err := c.get(ctx, athletePath+"/challenges", nil, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}
