package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/strava"
)

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func athleteToken(id int64, access string, scopes ...Scope) *Token {
	return &Token{
		AccessToken:  access,
		RefreshToken: "refresh-" + access,
		TokenType:    "Bearer",
		ExpiresAt:    2000,
		Athlete:      &strava.SummaryAthlete{ID: id},
		Scopes:       append([]Scope{}, scopes...),
	}
}

func TestManagerRetrieve(t *testing.T) {
	m := NewManager()
	token := athleteToken(1, "a", ScopeRead, ScopeActivityRead)
	if err := m.Store(token); err != nil {
		t.Fatalf("Store() = %v", err)
	}

	tests := []struct {
		name   string
		lookup func() *Token
		want   *Token
	}{
		{"retrieve", func() *Token { return m.Retrieve(1) }, token},
		{"retrieve unknown", func() *Token { return m.Retrieve(2) }, nil},
		{"subset", func() *Token { return m.RetrieveWithScope(1, ScopeRead) }, token},
		{"no scopes requested", func() *Token { return m.RetrieveWithScope(1) }, token},
		{"missing scope", func() *Token { return m.RetrieveWithScope(1, ScopeActivityWrite) }, nil},
		{"exact", func() *Token { return m.RetrieveWithExactScope(1, ScopeActivityRead, ScopeRead) }, token},
		{"exact subset", func() *Token { return m.RetrieveWithExactScope(1, ScopeRead) }, nil},
		{"exact superset", func() *Token {
			return m.RetrieveWithExactScope(1, ScopeRead, ScopeActivityRead, ScopeProfileWrite)
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lookup(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManagerStoreRejects(t *testing.T) {
	tests := []struct {
		name  string
		token *Token
	}{
		{"nil token", nil},
		{"no athlete", &Token{AccessToken: "a", Scopes: []Scope{}}},
		{"zero athlete id", &Token{AccessToken: "a", Athlete: &strava.SummaryAthlete{}, Scopes: []Scope{}}},
		{"nil scopes", &Token{AccessToken: "a", Athlete: &strava.SummaryAthlete{ID: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			err := m.Store(tt.token)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Store() = %v, want ErrInvalidArgument", err)
			}
			if got := m.Retrieve(1); got != nil {
				t.Errorf("Retrieve() = %v after rejected store", got)
			}
		})
	}
}

func TestManagerStoreReplaces(t *testing.T) {
	m := NewManager()
	first := athleteToken(1, "a")
	second := athleteToken(1, "b")
	_ = m.Store(first)
	_ = m.Store(second)
	if got := m.Retrieve(1); got != second {
		t.Errorf("Retrieve() = %v, want the second token", got)
	}
	if first.AccessToken != "a" {
		t.Errorf("first token was modified: %v", first)
	}
}

func TestManagerRevokeAndClear(t *testing.T) {
	m := NewManager()
	_ = m.Store(athleteToken(1, "a"))
	_ = m.Store(athleteToken(2, "b"))

	m.Revoke(nil)
	m.Revoke(&Token{})
	m.Revoke(athleteToken(1, "other"))
	if got := m.Retrieve(1); got != nil {
		t.Errorf("Retrieve(1) = %v after Revoke", got)
	}
	if got := m.Retrieve(2); got == nil {
		t.Error("Retrieve(2) = nil, want token")
	}

	m.Clear()
	if got := m.Retrieve(2); got != nil {
		t.Errorf("Retrieve(2) = %v after Clear", got)
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Store(athleteToken(i, "a", ScopeRead))
		}()
		go func() {
			defer wg.Done()
			m.RetrieveWithScope(i, ScopeRead)
		}()
	}
	wg.Wait()
	for i := int64(1); i <= 20; i++ {
		if m.Retrieve(i) == nil {
			t.Errorf("Retrieve(%d) = nil", i)
		}
	}
}

func TestScopes(t *testing.T) {
	got := ParseScopes("read, activity:read_all,,profile:write")
	want := []Scope{ScopeRead, ScopeActivityReadAll, ScopeProfileWrite}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseScopes() mismatch (-want +got):\n%s", diff)
	}
	if got := ParseScopes(""); got == nil || len(got) != 0 {
		t.Errorf("ParseScopes(\"\") = %#v, want empty slice", got)
	}
	if got := JoinScopes(want); got != "read,activity:read_all,profile:write" {
		t.Errorf("JoinScopes() = %q", got)
	}
}

func TestTokenExpiry(t *testing.T) {
	token := &Token{ExpiresAt: 1000}
	if token.Expired(time.Unix(1000, 0)) {
		t.Error("token expired at its expiry second")
	}
	if !token.Expired(time.Unix(1001, 0)) {
		t.Error("token not expired after expiry")
	}
	o := token.OAuth2()
	if o.TokenType != "Bearer" || !o.Expiry.Equal(time.Unix(1000, 0)) {
		t.Errorf("OAuth2() = %+v", o)
	}
}

type memoryPersister struct {
	mu      sync.Mutex
	tokens  map[int64]*Token
	saves   int
	deletes int
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{tokens: map[int64]*Token{}}
}

func (p *memoryPersister) LoadToken(_ context.Context, athleteID int64) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	token, ok := p.tokens[athleteID]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return token, nil
}

func (p *memoryPersister) SaveToken(_ context.Context, token *Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[token.AthleteID()] = token
	p.saves++
	return nil
}

func (p *memoryPersister) DeleteToken(_ context.Context, athleteID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tokens, athleteID)
	p.deletes++
	return nil
}

// tokenServer fakes the Strava OAuth endpoints. Every refresh hands out a
// new access token named after the count of refreshes so far.
type tokenServer struct {
	mu          sync.Mutex
	refreshes   int
	exchanges   int
	deauthorize []string
	lastForm    url.Values
}

func (ts *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.lastForm = r.PostForm

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/oauth/token":
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			ts.exchanges++
			if r.PostForm.Get("code") != "good" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"Bad Request","errors":[{"resource":"AuthorizationCode","field":"code","code":"invalid"}]}`))
				return
			}
			_ = json.NewEncoder(w).Encode(strava.TokenResponse{
				TokenType:    "Bearer",
				AccessToken:  "exchanged",
				RefreshToken: "refresh-exchanged",
				ExpiresAt:    5000,
				Athlete:      &strava.SummaryAthlete{ID: 7, Firstname: "Ada"},
			})
		case "refresh_token":
			ts.refreshes++
			_ = json.NewEncoder(w).Encode(strava.TokenResponse{
				TokenType:    "Bearer",
				AccessToken:  "refreshed-" + string(rune('0'+ts.refreshes)),
				RefreshToken: "refresh-next",
				ExpiresAt:    9000,
			})
		}
	case "/oauth/deauthorize":
		ts.deauthorize = append(ts.deauthorize, r.PostForm.Get("access_token"))
		_, _ = w.Write([]byte(`{"access_token":"` + r.PostForm.Get("access_token") + `"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (ts *tokenServer) form() url.Values {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.lastForm
}

func (ts *tokenServer) refreshCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.refreshes
}

func (ts *tokenServer) deauthorized() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string{}, ts.deauthorize...)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *tokenServer) {
	t.Helper()
	ts := &tokenServer{}
	server := httptest.NewServer(ts)
	t.Cleanup(server.Close)
	api := strava.NewAPI(5, "secret",
		strava.WithOAuthURL(server.URL+"/oauth"),
		strava.WithBaseURL(server.URL+"/api/v3"),
		strava.WithLogger(discardLogger{}),
	)
	opts = append([]Option{
		WithLogger(discardLogger{}),
		WithClock(func() time.Time { return time.Unix(3000, 0) }),
	}, opts...)
	return NewService(api, opts...), ts
}

func TestAuthCodeURL(t *testing.T) {
	s, _ := newTestService(t, WithRedirectURL("https://example.com/callback"))

	tests := []struct {
		force      bool
		wantPrompt string
	}{
		{false, "auto"},
		{true, "force"},
	}
	for _, tt := range tests {
		raw := s.AuthCodeURL("xyz", tt.force, ScopeRead, ScopeActivityRead)
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("url.Parse(%q) = %v", raw, err)
		}
		if u.Path != "/oauth/authorize" {
			t.Errorf("path = %q", u.Path)
		}
		want := url.Values{
			"client_id":       {"5"},
			"redirect_uri":    {"https://example.com/callback"},
			"response_type":   {"code"},
			"scope":           {"read,activity:read"},
			"state":           {"xyz"},
			"approval_prompt": {tt.wantPrompt},
		}
		if diff := cmp.Diff(want, u.Query()); diff != "" {
			t.Errorf("query mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestExchange(t *testing.T) {
	p := newMemoryPersister()
	s, ts := newTestService(t, WithPersister(p))

	token, err := s.Exchange(context.Background(), "good", ScopeRead, ScopeActivityReadAll)
	if err != nil {
		t.Fatalf("Exchange() = %v", err)
	}
	if token.AthleteID() != 7 || token.AccessToken != "exchanged" {
		t.Errorf("Exchange() = %+v", token)
	}
	if got := s.Manager().RetrieveWithExactScope(7, ScopeActivityReadAll, ScopeRead); got != token {
		t.Errorf("cached token = %v, want %v", got, token)
	}
	if p.tokens[7] != token {
		t.Error("token was not persisted")
	}
	if ts.form().Get("client_secret") != "secret" || ts.form().Get("client_id") != "5" {
		t.Errorf("token request form = %v", ts.form())
	}
}

func TestExchangeBadCode(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Exchange(context.Background(), "bad")
	if !errors.Is(err, strava.ErrBadRequest) {
		t.Fatalf("Exchange() = %v, want ErrBadRequest", err)
	}
	if s.Manager().Retrieve(7) != nil {
		t.Error("token cached after failed exchange")
	}
}

func TestTokenForAuthorizedUser(t *testing.T) {
	t.Run("cached and valid", func(t *testing.T) {
		s, ts := newTestService(t)
		cached := athleteToken(1, "a", ScopeRead)
		cached.ExpiresAt = 4000
		_ = s.Manager().Store(cached)

		got, err := s.TokenForAuthorizedUser(context.Background(), 1, "ignored")
		if err != nil {
			t.Fatal(err)
		}
		if got != cached || ts.refreshCount() != 0 {
			t.Errorf("got %v after %d refreshes, want cached token without refresh", got, ts.refreshCount())
		}
	})

	t.Run("cached and expired", func(t *testing.T) {
		p := newMemoryPersister()
		s, ts := newTestService(t, WithPersister(p))
		cached := athleteToken(1, "a", ScopeRead, ScopeActivityRead)
		_ = s.Manager().Store(cached)

		got, err := s.TokenForAuthorizedUser(context.Background(), 1, "")
		if err != nil {
			t.Fatal(err)
		}
		want := &Token{
			AccessToken:  "refreshed-1",
			RefreshToken: "refresh-next",
			TokenType:    "Bearer",
			ExpiresAt:    9000,
			Athlete:      &strava.SummaryAthlete{ID: 1},
			Scopes:       []Scope{ScopeRead, ScopeActivityRead},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("token mismatch (-want +got):\n%s", diff)
		}
		if ts.form().Get("refresh_token") != "refresh-a" {
			t.Errorf("refreshed with %q, want the cached refresh token", ts.form().Get("refresh_token"))
		}
		if s.Manager().Retrieve(1) != got || p.tokens[1] != got {
			t.Error("refreshed token was not cached and persisted")
		}
		if cached.AccessToken != "a" {
			t.Error("cached token was modified in place")
		}
	})

	t.Run("not cached", func(t *testing.T) {
		s, _ := newTestService(t)
		got, err := s.TokenForAuthorizedUser(context.Background(), 9, "refresh-stored")
		if err != nil {
			t.Fatal(err)
		}
		if got.AthleteID() != 9 || got.AccessToken != "refreshed-1" {
			t.Errorf("got %+v", got)
		}
		if got.Scopes == nil || len(got.Scopes) != 0 {
			t.Errorf("Scopes = %#v, want empty", got.Scopes)
		}
		if s.Manager().Retrieve(9) != got {
			t.Error("refreshed token was not cached")
		}
	})

	t.Run("no refresh token", func(t *testing.T) {
		s, ts := newTestService(t)
		_, err := s.TokenForAuthorizedUser(context.Background(), 9, "")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("err = %v, want ErrInvalidArgument", err)
		}
		if ts.refreshCount() != 0 {
			t.Error("refresh attempted without a refresh token")
		}
	})
}

func TestTokenLoadsFromPersister(t *testing.T) {
	p := newMemoryPersister()
	stored := athleteToken(3, "stored", ScopeRead)
	stored.ExpiresAt = 4000
	p.tokens[3] = stored
	s, ts := newTestService(t, WithPersister(p))

	got, err := s.Token(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != stored || ts.refreshCount() != 0 {
		t.Errorf("got %v, want stored token", got)
	}
	if s.Manager().Retrieve(3) != stored {
		t.Error("loaded token was not cached")
	}

	_, err = s.Token(context.Background(), 4)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Token(4) = %v, want ErrTokenNotFound", err)
	}
}

func TestTokenSourceRefreshesOnce(t *testing.T) {
	s, ts := newTestService(t)
	_ = s.Manager().Store(athleteToken(1, "a", ScopeRead))

	source := s.TokenSource(context.Background(), 1)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := source.Token()
			if err != nil {
				t.Error(err)
				return
			}
			if token.AccessToken != "refreshed-1" {
				t.Errorf("AccessToken = %q", token.AccessToken)
			}
		}()
	}
	wg.Wait()
	if ts.refreshCount() != 1 {
		t.Errorf("refreshes = %d, want 1", ts.refreshCount())
	}
}

func TestDeauthorize(t *testing.T) {
	p := newMemoryPersister()
	s, ts := newTestService(t, WithPersister(p))
	token := athleteToken(1, "a", ScopeRead)
	_ = s.Manager().Store(token)
	p.tokens[1] = token

	if err := s.Deauthorize(context.Background(), token); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, ts.deauthorized()); diff != "" {
		t.Errorf("deauthorize calls mismatch (-want +got):\n%s", diff)
	}
	if s.Manager().Retrieve(1) != nil {
		t.Error("token still cached")
	}
	if _, ok := p.tokens[1]; ok {
		t.Error("token still persisted")
	}
}

func TestForget(t *testing.T) {
	p := newMemoryPersister()
	s, ts := newTestService(t, WithPersister(p))
	_ = s.Manager().Store(athleteToken(1, "a", ScopeRead))

	if err := s.Forget(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if s.Manager().Retrieve(1) != nil || p.deletes != 1 || len(ts.deauthorized()) != 0 {
		t.Errorf("cached=%v deletes=%d deauthorize=%v", s.Manager().Retrieve(1), p.deletes, ts.deauthorized())
	}
}

func TestCachedTokenDoesNotWaitForRefresh(t *testing.T) {
	s, _ := newTestService(t)
	valid := athleteToken(1, "a", ScopeRead)
	valid.ExpiresAt = 4000
	_ = s.Manager().Store(valid)

	// Another athlete's refresh is in progress.
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	done := make(chan *Token, 2)
	go func() {
		token, _ := s.Token(context.Background(), 1)
		done <- token
	}()
	go func() {
		token, _ := s.TokenForAuthorizedUser(context.Background(), 1, "")
		done <- token
	}()
	for i := 0; i < 2; i++ {
		select {
		case got := <-done:
			if got != valid {
				t.Errorf("got %v, want cached token", got)
			}
		case <-time.After(time.Second):
			t.Fatal("cached token lookup blocked on a refresh in progress")
		}
	}
}
