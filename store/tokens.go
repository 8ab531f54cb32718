package store

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/auth"
	"github.com/kwoodhouse93/go-strava/strava"
)

// LoadToken reads the athlete's tokens. It returns auth.ErrTokenNotFound if
// the athlete has none.
func (s Store) LoadToken(ctx context.Context, athleteID int64) (*auth.Token, error) {
	row := s.pool.QueryRow(ctx, loadTokenQuery, athleteID)

	var (
		athlete   strava.SummaryAthlete
		scopes    string
		token     auth.Token
		expiresAt time.Time
	)
	err := row.Scan(
		&athlete.ID,
		&athlete.Username,
		&athlete.Firstname,
		&athlete.Lastname,
		&scopes,
		&token.AccessToken,
		&token.TokenType,
		&expiresAt,
		&token.RefreshToken,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(auth.ErrTokenNotFound, "store: athlete %d", athleteID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: error loading token")
	}
	token.ExpiresAt = expiresAt.Unix()
	token.Athlete = &athlete
	token.Scopes = auth.ParseScopes(scopes)
	return &token, nil
}

const loadTokenQuery = `
SELECT
	athletes.athlete_id,
	athletes.username,
	athletes.firstname,
	athletes.lastname,
	athletes.scopes,
	access_tokens.access_token,
	access_tokens.token_type,
	access_tokens.expires_at,
	refresh_tokens.refresh_token
FROM athletes
JOIN access_tokens ON access_tokens.athlete_id = athletes.athlete_id
JOIN refresh_tokens ON refresh_tokens.athlete_id = athletes.athlete_id
WHERE athletes.athlete_id = $1
`

// SaveToken upserts the athlete and both of their tokens in one
// transaction, retried when it deadlocks with a concurrent save.
func (s Store) SaveToken(ctx context.Context, token *auth.Token) error {
	if token.AthleteID() == 0 {
		return errors.Wrap(auth.ErrInvalidArgument, "store: token has no athlete")
	}
	retries := 0
	for {
		err := s.saveToken(ctx, token)
		if err == nil || !retryable(err) || retries >= 3 {
			return err
		}
		retries++
		log.Printf("store: retrying token save for athlete %d: %v", token.AthleteID(), err)
	}
}

func (s Store) saveToken(ctx context.Context, token *auth.Token) error {
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "store: error beginning transaction")
	}
	defer tx.Rollback(ctx)

	athlete := token.Athlete
	_, err = tx.Exec(ctx, upsertAthleteQuery, athlete.ID, athlete.Username, athlete.Firstname, athlete.Lastname, auth.JoinScopes(token.Scopes))
	if err != nil {
		return errors.Wrap(err, "store: error saving athlete")
	}
	_, err = tx.Exec(ctx, upsertAccessTokenQuery, athlete.ID, token.AccessToken, tokenType, token.Expiry())
	if err != nil {
		return errors.Wrap(err, "store: error saving access token")
	}
	_, err = tx.Exec(ctx, upsertRefreshTokenQuery, athlete.ID, token.RefreshToken)
	if err != nil {
		return errors.Wrap(err, "store: error saving refresh token")
	}

	return errors.Wrap(tx.Commit(ctx), "store: error committing tokens")
}

// Refreshed tokens carry no athlete names, so blank names never overwrite
// stored ones.
const upsertAthleteQuery = `
INSERT INTO athletes (athlete_id, username, firstname, lastname, scopes)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (athlete_id) DO UPDATE SET
	username = COALESCE(NULLIF(EXCLUDED.username, ''), athletes.username),
	firstname = COALESCE(NULLIF(EXCLUDED.firstname, ''), athletes.firstname),
	lastname = COALESCE(NULLIF(EXCLUDED.lastname, ''), athletes.lastname),
	scopes = CASE WHEN EXCLUDED.scopes = '' THEN athletes.scopes ELSE EXCLUDED.scopes END
`

const upsertAccessTokenQuery = `
INSERT INTO access_tokens (athlete_id, access_token, token_type, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (athlete_id) DO UPDATE SET
	access_token = EXCLUDED.access_token,
	token_type = EXCLUDED.token_type,
	expires_at = EXCLUDED.expires_at
`

const upsertRefreshTokenQuery = `
INSERT INTO refresh_tokens (athlete_id, refresh_token)
VALUES ($1, $2)
ON CONFLICT (athlete_id) DO UPDATE SET
	refresh_token = EXCLUDED.refresh_token
`

// DeleteToken removes the athlete, cascading to their tokens and
// activities.
func (s Store) DeleteToken(ctx context.Context, athleteID int64) error {
	return s.DeleteAthlete(ctx, athleteID)
}

// retryable reports serialization failures and deadlocks.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}
