package auth

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/kwoodhouse93/go-strava/strava"
)

// Logger is an interface for optional logging of token events.
type Logger interface {
	Printf(format string, args ...any)
}

// Persister stores tokens beyond the life of the process. LoadToken returns
// ErrTokenNotFound for unknown athletes.
type Persister interface {
	LoadToken(ctx context.Context, athleteID int64) (*Token, error)
	SaveToken(ctx context.Context, token *Token) error
	DeleteToken(ctx context.Context, athleteID int64) error
}

// Service obtains tokens from Strava and keeps them in a Manager.
type Service struct {
	api         *strava.API
	tokens      *Manager
	persister   Persister
	logger      Logger
	now         func() time.Time
	redirectURL string

	// refreshMu serialises refreshes so concurrent callers for one athlete
	// do not spend the same refresh token twice.
	refreshMu sync.Mutex
}

type Option func(*Service)

// WithManager shares a token cache between services.
func WithManager(m *Manager) Option {
	return func(s *Service) {
		s.tokens = m
	}
}

func WithPersister(p Persister) Option {
	return func(s *Service) {
		s.persister = p
	}
}

func WithLogger(logger Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRedirectURL sets the redirect_uri sent with authorization requests.
func WithRedirectURL(u string) Option {
	return func(s *Service) {
		s.redirectURL = u
	}
}

func NewService(api *strava.API, opts ...Option) *Service {
	s := &Service{
		api:    api,
		tokens: NewManager(),
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Manager() *Manager {
	return s.tokens
}

// AuthCodeURL is the page athletes are sent to in order to grant scopes.
// Force asks Strava to show the approval screen even if the athlete has
// already authorized the application.
func (s *Service) AuthCodeURL(state string, force bool, scopes ...Scope) string {
	config := &oauth2.Config{
		ClientID:    strconv.Itoa(s.api.ClientID()),
		RedirectURL: s.redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.api.OAuthURL() + "/authorize",
			TokenURL:  s.api.OAuthURL() + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	prompt := "auto"
	if force {
		prompt = "force"
	}
	// Strava separates scopes with commas, so they are set directly rather
	// than through Config.Scopes.
	return config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", JoinScopes(scopes)),
		oauth2.SetAuthURLParam("approval_prompt", prompt),
	)
}

// Exchange trades the authorization code for a token and caches it. Scopes
// are the scopes the athlete granted, as reported on the redirect.
func (s *Service) Exchange(ctx context.Context, code string, scopes ...Scope) (*Token, error) {
	resp, err := s.api.ExchangeToken(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "auth: error exchanging authorization code")
	}
	token := NewToken(resp, scopes...)
	err = s.tokens.Store(token)
	if err != nil {
		return nil, err
	}
	err = s.persist(ctx, token)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("auth: authorized athlete %d with scopes %q", token.AthleteID(), JoinScopes(token.Scopes))
	return token, nil
}

// TokenForAuthorizedUser returns the cached token for the athlete if it has
// not expired. Otherwise it refreshes with refreshToken, or with the cached
// token's refresh token when refreshToken is empty.
func (s *Service) TokenForAuthorizedUser(ctx context.Context, userID int64, refreshToken string) (*Token, error) {
	if cached := s.valid(userID); cached != nil {
		return cached, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	cached := s.tokens.Retrieve(userID)
	if cached != nil && !cached.Expired(s.now()) {
		return cached, nil
	}
	return s.refresh(ctx, userID, cached, refreshToken)
}

// valid returns the cached token if it has not expired. It does not take
// refreshMu, so a refresh in progress for one athlete does not hold up
// requests for the others.
func (s *Service) valid(userID int64) *Token {
	cached := s.tokens.Retrieve(userID)
	if cached == nil || cached.Expired(s.now()) {
		return nil
	}
	return cached
}

// Token returns a usable token for the athlete, consulting the cache, then
// the persister, and refreshing when the token found has expired.
func (s *Service) Token(ctx context.Context, userID int64) (*Token, error) {
	if cached := s.valid(userID); cached != nil {
		return cached, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	cached := s.tokens.Retrieve(userID)
	if cached == nil && s.persister != nil {
		stored, err := s.persister.LoadToken(ctx, userID)
		if err != nil {
			return nil, errors.Wrapf(err, "auth: error loading token for athlete %d", userID)
		}
		err = s.tokens.Store(stored)
		if err != nil {
			return nil, err
		}
		cached = stored
	}
	if cached == nil {
		return nil, errors.Wrapf(ErrTokenNotFound, "athlete %d", userID)
	}
	if !cached.Expired(s.now()) {
		return cached, nil
	}
	return s.refresh(ctx, userID, cached, "")
}

// refresh must be called with refreshMu held.
func (s *Service) refresh(ctx context.Context, userID int64, cached *Token, refreshToken string) (*Token, error) {
	if refreshToken == "" && cached != nil {
		refreshToken = cached.RefreshToken
	}
	if refreshToken == "" {
		return nil, errors.Wrapf(ErrInvalidArgument, "no refresh token for athlete %d", userID)
	}

	resp, err := s.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.Wrapf(err, "auth: error refreshing token for athlete %d", userID)
	}

	var token *Token
	if cached == nil {
		// Refresh responses carry no athlete or scopes.
		token = NewToken(resp)
		if token.Athlete == nil {
			token.Athlete = &strava.SummaryAthlete{ID: userID}
		}
	} else {
		updated := *cached
		updated.AccessToken = resp.AccessToken
		updated.RefreshToken = resp.RefreshToken
		updated.ExpiresAt = resp.ExpiresAt
		if resp.TokenType != "" {
			updated.TokenType = resp.TokenType
		}
		token = &updated
	}

	err = s.tokens.Store(token)
	if err != nil {
		return nil, err
	}
	err = s.persist(ctx, token)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("auth: refreshed token for athlete %d (expires: %s)", userID, token.Expiry().Format(time.RFC3339))
	return token, nil
}

func (s *Service) persist(ctx context.Context, token *Token) error {
	if s.persister == nil {
		return nil
	}
	err := s.persister.SaveToken(ctx, token)
	if err != nil {
		return errors.Wrapf(err, "auth: error saving token for athlete %d", token.AthleteID())
	}
	return nil
}

// Deauthorize revokes the application's access on Strava and forgets the
// token.
func (s *Service) Deauthorize(ctx context.Context, token *Token) error {
	err := s.api.Deauthorize(ctx, token.AccessToken)
	if err != nil {
		return errors.Wrapf(err, "auth: error deauthorizing athlete %d", token.AthleteID())
	}
	return s.Forget(ctx, token.AthleteID())
}

// Forget drops the athlete's token from the cache and the persister, e.g.
// after Strava reports the athlete revoked access.
func (s *Service) Forget(ctx context.Context, athleteID int64) error {
	s.tokens.Revoke(&Token{Athlete: &strava.SummaryAthlete{ID: athleteID}})
	if s.persister == nil {
		return nil
	}
	err := s.persister.DeleteToken(ctx, athleteID)
	if err != nil {
		return errors.Wrapf(err, "auth: error deleting token for athlete %d", athleteID)
	}
	s.logger.Printf("auth: forgot athlete %d", athleteID)
	return nil
}

// TokenSource returns an oauth2.TokenSource serving the athlete's token,
// refreshed as needed, for use with strava.API.Authenticated.
func (s *Service) TokenSource(ctx context.Context, athleteID int64) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, service: s, athleteID: athleteID}
}

type tokenSource struct {
	ctx       context.Context
	service   *Service
	athleteID int64
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.service.Token(ts.ctx, ts.athleteID)
	if err != nil {
		return nil, err
	}
	return token.OAuth2(), nil
}
