package store

import (
	"context"

	"github.com/pkg/errors"
)

func (s Store) DeleteAthlete(ctx context.Context, athleteID int64) error {
	_, err := s.pool.Exec(ctx, deleteAthleteQuery, athleteID)
	if err != nil {
		return errors.Wrap(err, "store: error deleting athlete")
	}
	return nil
}

const deleteAthleteQuery = `
DELETE FROM athletes
WHERE athlete_id = $1
`
