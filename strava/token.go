package strava

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

const (
	tokenPath       = "/token"
	deauthorizePath = "/deauthorize"

	grantTypeAuthorizationCode = "authorization_code"
	grantTypeRefreshToken      = "refresh_token"
)

// TokenResponse is returned by the token endpoint. Athlete is only present
// when exchanging an authorization code.
type TokenResponse struct {
	TokenType    string          `json:"token_type"`
	AccessToken  string          `json:"access_token"`
	ExpiresAt    int64           `json:"expires_at"`
	ExpiresIn    int             `json:"expires_in"`
	RefreshToken string          `json:"refresh_token"`
	Athlete      *SummaryAthlete `json:"athlete"`
}

// ExchangeToken trades an authorization code from the OAuth redirect for a
// token.
func (s *API) ExchangeToken(ctx context.Context, code string) (*TokenResponse, error) {
	return s.requestToken(ctx, url.Values{
		"code":       {code},
		"grant_type": {grantTypeAuthorizationCode},
	})
}

func (s *API) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return s.requestToken(ctx, url.Values{
		"refresh_token": {refreshToken},
		"grant_type":    {grantTypeRefreshToken},
	})
}

func (s *API) requestToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	form.Set("client_id", strconv.Itoa(s.clientID))
	form.Set("client_secret", s.clientSecret)

	respBody, err := s.send(ctx, s.client, http.MethodPost, s.oauthURL+tokenPath, nil, form)
	if err != nil {
		return nil, err
	}
	var response TokenResponse
	err = decode(respBody, &response)
	if err != nil {
		return nil, err
	}
	if response.AccessToken == "" {
		return nil, errors.New("strava: token response has no access token")
	}
	return &response, nil
}

// Deauthorize revokes the application's access to the athlete owning
// accessToken.
func (s *API) Deauthorize(ctx context.Context, accessToken string) error {
	form := url.Values{"access_token": {accessToken}}
	_, err := s.send(ctx, s.client, http.MethodPost, s.oauthURL+deauthorizePath, nil, form)
	return err
}
