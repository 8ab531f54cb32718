package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/auth"
	"github.com/kwoodhouse93/go-strava/strava"
)

func TestActivityUpdates(t *testing.T) {
	title := "Morning Run"
	activityType := "Ride"
	private := true

	tests := []struct {
		name        string
		title       *string
		activityType *string
		private     *bool
		wantUpdates []string
		wantValues  []any
	}{
		{"nothing", nil, nil, nil, []string{}, []any{}},
		{"title", &title, nil, nil, []string{"name = $3"}, []any{title}},
		{"activity type", nil, &activityType, nil, []string{"activity_type = $3"}, []any{activityType}},
		{"all", &title, &activityType, &private,
			[]string{"name = $3", "activity_type = $4", "private = $5"},
			[]any{title, activityType, private}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates, values := activityUpdates(tt.title, tt.activityType, tt.private)
			if diff := cmp.Diff(tt.wantUpdates, updates); diff != "" {
				t.Errorf("updates mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantValues, values); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// newTestStore connects to the database named by POSTGRES_TEST_URL, skipping
// the test when it is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	s, err := New(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Cleanup)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const athleteID = 900001
	t.Cleanup(func() { _ = s.DeleteAthlete(ctx, athleteID) })

	_, err := s.LoadToken(ctx, athleteID)
	if !errors.Is(err, auth.ErrTokenNotFound) {
		t.Fatalf("LoadToken() = %v, want ErrTokenNotFound", err)
	}

	token := &auth.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		Athlete:      &strava.SummaryAthlete{ID: athleteID, Firstname: "Ada", Lastname: "Lovelace"},
		Scopes:       []auth.Scope{auth.ScopeRead, auth.ScopeActivityRead},
	}
	if err := s.SaveToken(ctx, token); err != nil {
		t.Fatal(err)
	}

	// A refresh carries no names or scopes; the stored ones survive.
	refreshed := &auth.Token{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		ExpiresAt:    token.ExpiresAt + 3600,
		Athlete:      &strava.SummaryAthlete{ID: athleteID},
		Scopes:       []auth.Scope{},
	}
	if err := s.SaveToken(ctx, refreshed); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadToken(ctx, athleteID)
	if err != nil {
		t.Fatal(err)
	}
	want := &auth.Token{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		TokenType:    "Bearer",
		ExpiresAt:    refreshed.ExpiresAt,
		Athlete:      &strava.SummaryAthlete{ID: athleteID, Firstname: "Ada", Lastname: "Lovelace"},
		Scopes:       []auth.Scope{auth.ScopeRead, auth.ScopeActivityRead},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadToken() mismatch (-want +got):\n%s", diff)
	}

	if err := s.DeleteToken(ctx, athleteID); err != nil {
		t.Fatal(err)
	}
	_, err = s.LoadToken(ctx, athleteID)
	if !errors.Is(err, auth.ErrTokenNotFound) {
		t.Errorf("LoadToken() after delete = %v, want ErrTokenNotFound", err)
	}
}

func TestActivityLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const athleteID = 900002
	t.Cleanup(func() { _ = s.DeleteAthlete(ctx, athleteID) })

	err := s.SaveToken(ctx, &auth.Token{
		AccessToken: "a",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		Athlete:     &strava.SummaryAthlete{ID: athleteID},
		Scopes:      []auth.Scope{auth.ScopeActivityRead},
	})
	if err != nil {
		t.Fatal(err)
	}

	activity := &strava.DetailedActivity{}
	activity.ID = 77
	activity.Athlete.ID = athleteID
	activity.Name = "Lunch Ride"
	activity.Type = strava.ActivityType("Ride")
	activity.SportType = strava.SportType("MountainBikeRide")
	activity.StartDate = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	activity.Timezone = "(GMT+00:00) Europe/London"
	if err := s.SaveActivity(ctx, activity); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveActivity(ctx, activity); err != nil {
		t.Fatalf("second SaveActivity() = %v", err)
	}

	title := "Renamed"
	activityType := "Ride"
	if err := s.UpdateActivity(ctx, athleteID, 77, &title, &activityType, nil); err != nil {
		t.Fatal(err)
	}
	var name, gotType, gotSport string
	err = s.pool.QueryRow(ctx, "SELECT name, activity_type, sport_type FROM activities WHERE id = $1", 77).Scan(&name, &gotType, &gotSport)
	if err != nil {
		t.Fatal(err)
	}
	if name != title || gotType != activityType {
		t.Errorf("name, activity_type = %q, %q, want %q, %q", name, gotType, title, activityType)
	}
	// The legacy type in an update never coarsens the sport type.
	if gotSport != "MountainBikeRide" {
		t.Errorf("sport_type = %q, want MountainBikeRide", gotSport)
	}

	if err := s.DeleteActivity(ctx, athleteID, 77); err != nil {
		t.Fatal(err)
	}
	var count int
	err = s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM activities WHERE id = $1", 77).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d after delete", count)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&pgconn.PgError{Code: "40001"}, true},
		{errors.Wrap(&pgconn.PgError{Code: "40P01"}, "store: error saving athlete"), true},
		{&pgconn.PgError{Code: "23505"}, false},
		{errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := retryable(tt.err); got != tt.want {
			t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
