package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/go-strava/strava"
)

// SaveActivity records the activity, replacing any earlier copy.
func (s Store) SaveActivity(ctx context.Context, activity *strava.DetailedActivity) error {
	var summaryPolyline *string
	if activity.Map.SummaryPolyline != "" {
		summaryPolyline = &activity.Map.SummaryPolyline
	}
	_, err := s.pool.Exec(
		ctx,
		upsertActivityQuery,
		activity.ID,
		activity.Athlete.ID,
		activity.Name,
		string(activity.Type),
		string(activity.SportType),
		activity.Distance,
		activity.MovingTime,
		activity.ElapsedTime,
		activity.TotalElevationGain,
		activity.StartDate,
		activity.Timezone,
		summaryPolyline,
		activity.Private,
		activity.ExternalID,
	)
	if err != nil {
		return errors.Wrapf(err, "store: error saving activity %d", activity.ID)
	}
	return nil
}

const upsertActivityQuery = `
INSERT INTO activities (
	id,
	athlete_id,
	name,
	activity_type,
	sport_type,
	distance,
	moving_time,
	elapsed_time,
	total_elevation_gain,
	start_date,
	local_tz,
	summary_polyline,
	private,
	external_id
) VALUES (
	$1,
	$2,
	$3,
	$4,
	$5,
	$6,
	$7,
	$8,
	$9,
	$10,
	$11,
	$12,
	$13,
	$14
) ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	activity_type = EXCLUDED.activity_type,
	sport_type = EXCLUDED.sport_type,
	distance = EXCLUDED.distance,
	moving_time = EXCLUDED.moving_time,
	elapsed_time = EXCLUDED.elapsed_time,
	total_elevation_gain = EXCLUDED.total_elevation_gain,
	summary_polyline = EXCLUDED.summary_polyline,
	private = EXCLUDED.private`

// UpdateActivity applies the fields a webhook update event reports without
// fetching the whole activity. Nil fields are left unchanged. Update events
// carry the legacy activity type, so sport_type is never touched here.
func (s Store) UpdateActivity(ctx context.Context, athleteID, activityID int64, title, activityType *string, private *bool) error {
	updates, values := activityUpdates(title, activityType, private)
	if len(updates) == 0 {
		return nil
	}
	values = append([]any{athleteID, activityID}, values...)

	query := "UPDATE activities SET " + strings.Join(updates, ", ") + " WHERE athlete_id = $1 AND id = $2"
	_, err := s.pool.Exec(
		ctx,
		query,
		values...,
	)
	if err != nil {
		return errors.Wrapf(err, "store: error updating activity %d", activityID)
	}
	return nil
}

// activityUpdates builds the SET clauses for UpdateActivity. Parameters
// start at $3, after the athlete and activity ids.
func activityUpdates(title, activityType *string, private *bool) ([]string, []any) {
	paramCount := 3
	updates := []string{}
	values := []any{}
	if title != nil {
		updates = append(updates, "name = $"+strconv.Itoa(paramCount))
		values = append(values, *title)
		paramCount++
	}
	if activityType != nil {
		updates = append(updates, "activity_type = $"+strconv.Itoa(paramCount))
		values = append(values, *activityType)
		paramCount++
	}
	if private != nil {
		updates = append(updates, "private = $"+strconv.Itoa(paramCount))
		values = append(values, *private)
	}
	return updates, values
}

func (s Store) DeleteActivity(ctx context.Context, athleteID, activityID int64) error {
	_, err := s.pool.Exec(ctx, deleteActivityQuery, athleteID, activityID)
	if err != nil {
		return errors.Wrapf(err, "store: error deleting activity %d", activityID)
	}
	return nil
}

const deleteActivityQuery = `
DELETE FROM activities
WHERE athlete_id = $1
AND id = $2
`
