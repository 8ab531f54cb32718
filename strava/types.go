package strava

import "time"

type MetaAthlete struct {
	ID int64 `json:"id"`
}

type SummaryAthlete struct {
	ID            int64         `json:"id"`
	ResourceState ResourceState `json:"resource_state"`
	Username      string        `json:"username"`
	Firstname     string        `json:"firstname"`
	Lastname      string        `json:"lastname"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	Country       string        `json:"country"`
	Sex           Gender        `json:"sex"`
	Premium       bool          `json:"premium"`
	Summit        bool          `json:"summit"`
	Profile       string        `json:"profile"`
	ProfileMedium string        `json:"profile_medium"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type DetailedAthlete struct {
	SummaryAthlete
	FollowerCount         int           `json:"follower_count"`
	FriendCount           int           `json:"friend_count"`
	MeasurementPreference string        `json:"measurement_preference"`
	FTP                   int           `json:"ftp"`
	Weight                float64       `json:"weight"`
	Clubs                 []SummaryClub `json:"clubs"`
	Bikes                 []SummaryGear `json:"bikes"`
	Shoes                 []SummaryGear `json:"shoes"`
}

type SummaryClub struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Profile     string `json:"profile"`
	SportType   string `json:"sport_type"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Private     bool   `json:"private"`
	MemberCount int    `json:"member_count"`
	URL         string `json:"url"`
}

type SummaryGear struct {
	ID            string        `json:"id"`
	ResourceState ResourceState `json:"resource_state"`
	Primary       bool          `json:"primary"`
	Name          string        `json:"name"`
	Distance      float64       `json:"distance"`
}

// LatLong is a [latitude, longitude] pair.
type LatLong [2]float64

type PolylineMap struct {
	ID              string `json:"id"`
	Polyline        string `json:"polyline"`
	SummaryPolyline string `json:"summary_polyline"`
}

type SummaryActivity struct {
	ID                   int64         `json:"id"`
	ResourceState        ResourceState `json:"resource_state"`
	ExternalID           string        `json:"external_id"`
	UploadID             int64         `json:"upload_id"`
	Athlete              MetaAthlete   `json:"athlete"`
	Name                 string        `json:"name"`
	Distance             float64       `json:"distance"`
	MovingTime           int           `json:"moving_time"`
	ElapsedTime          int           `json:"elapsed_time"`
	TotalElevationGain   float64       `json:"total_elevation_gain"`
	ElevHigh             float64       `json:"elev_high"`
	ElevLow              float64       `json:"elev_low"`
	Type                 ActivityType  `json:"type"` // Deprecated
	SportType            SportType     `json:"sport_type"`
	StartDate            time.Time     `json:"start_date"`
	StartDateLocal       time.Time     `json:"start_date_local"`
	Timezone             string        `json:"timezone"`
	StartLatLong         LatLong       `json:"start_latlng"`
	EndLatLong           LatLong       `json:"end_latlng"`
	AchievementCount     int           `json:"achievement_count"`
	KudosCount           int           `json:"kudos_count"`
	CommentCount         int           `json:"comment_count"`
	AthleteCount         int           `json:"athlete_count"`
	PhotoCount           int           `json:"photo_count"`
	TotalPhotoCount      int           `json:"total_photo_count"`
	Map                  PolylineMap   `json:"map"`
	Trainer              bool          `json:"trainer"`
	Commute              bool          `json:"commute"`
	Manual               bool          `json:"manual"`
	Private              bool          `json:"private"`
	Flagged              bool          `json:"flagged"`
	WorkoutType          *WorkoutType  `json:"workout_type"`
	UploadIDStr          string        `json:"upload_id_str"`
	AverageSpeed         float64       `json:"average_speed"`
	MaxSpeed             float64       `json:"max_speed"`
	HasKudoed            bool          `json:"has_kudoed"`
	HideFromHome         bool          `json:"hide_from_home"`
	GearID               string        `json:"gear_id"`
	Kilojoules           float64       `json:"kilojoules"`
	AverageWatts         float64       `json:"average_watts"`
	DeviceWatts          bool          `json:"device_watts"`
	MaxWatts             int           `json:"max_watts"`
	WeightedAverageWatts int           `json:"weighted_average_watts"`
	HasHeartrate         bool          `json:"has_heartrate"`
	AverageHeartrate     float64       `json:"average_heartrate"`
	MaxHeartrate         float64       `json:"max_heartrate"`
	AverageCadence       float64       `json:"average_cadence"`
	AverageTemp          float64       `json:"average_temp"`
	SufferScore          int           `json:"suffer_score"`
	PRCount              int           `json:"pr_count"`
}

type DetailedActivity struct {
	SummaryActivity
	Description    string          `json:"description"`
	Photos         PhotosSummary   `json:"photos"`
	Gear           *SummaryGear    `json:"gear"`
	Calories       float64         `json:"calories"`
	SegmentEfforts []SegmentEffort `json:"segment_efforts"`
	DeviceName     string          `json:"device_name"`
	EmbedToken     string          `json:"embed_token"`
	SplitsMetric   []Split         `json:"splits_metric"`
	SplitsStandard []Split         `json:"splits_standard"`
	Laps           []Lap           `json:"laps"`
	BestEfforts    []SegmentEffort `json:"best_efforts"`
}

type PhotosSummary struct {
	Count   int `json:"count"`
	Primary *struct {
		ID       int64             `json:"id"`
		UniqueID string            `json:"unique_id"`
		Source   int               `json:"source"`
		URLs     map[string]string `json:"urls"`
	} `json:"primary"`
}

type Split struct {
	AverageSpeed        float64 `json:"average_speed"`
	Distance            float64 `json:"distance"`
	ElapsedTime         int     `json:"elapsed_time"`
	ElevationDifference float64 `json:"elevation_difference"`
	PaceZone            int     `json:"pace_zone"`
	MovingTime          int     `json:"moving_time"`
	Split               int     `json:"split"`
}

type Lap struct {
	ID                 int64         `json:"id"`
	ResourceState      ResourceState `json:"resource_state"`
	Name               string        `json:"name"`
	Activity           MetaActivity  `json:"activity"`
	Athlete            MetaAthlete   `json:"athlete"`
	ElapsedTime        int           `json:"elapsed_time"`
	MovingTime         int           `json:"moving_time"`
	StartDate          time.Time     `json:"start_date"`
	StartDateLocal     time.Time     `json:"start_date_local"`
	Distance           float64       `json:"distance"`
	StartIndex         int           `json:"start_index"`
	EndIndex           int           `json:"end_index"`
	TotalElevationGain float64       `json:"total_elevation_gain"`
	AverageSpeed       float64       `json:"average_speed"`
	MaxSpeed           float64       `json:"max_speed"`
	AverageCadence     float64       `json:"average_cadence"`
	AverageWatts       float64       `json:"average_watts"`
	LapIndex           int           `json:"lap_index"`
	Split              int           `json:"split"`
}

type MetaActivity struct {
	ID int64 `json:"id"`
}

type SummarySegment struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ActivityType  string  `json:"activity_type"`
	Distance      float64 `json:"distance"`
	AverageGrade  float64 `json:"average_grade"`
	MaximumGrade  float64 `json:"maximum_grade"`
	ElevationHigh float64 `json:"elevation_high"`
	ElevationLow  float64 `json:"elevation_low"`
	StartLatLong  LatLong `json:"start_latlng"`
	EndLatLong    LatLong `json:"end_latlng"`
	ClimbCategory int     `json:"climb_category"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Country       string  `json:"country"`
	Private       bool    `json:"private"`
}

type SegmentEffort struct {
	ID             int64          `json:"id"`
	ResourceState  ResourceState  `json:"resource_state"`
	Name           string         `json:"name"`
	Activity       MetaActivity   `json:"activity"`
	Athlete        MetaAthlete    `json:"athlete"`
	ElapsedTime    int            `json:"elapsed_time"`
	MovingTime     int            `json:"moving_time"`
	StartDate      time.Time      `json:"start_date"`
	StartDateLocal time.Time      `json:"start_date_local"`
	Distance       float64        `json:"distance"`
	StartIndex     int            `json:"start_index"`
	EndIndex       int            `json:"end_index"`
	AverageWatts   float64        `json:"average_watts"`
	Segment        SummarySegment `json:"segment"`
	KOMRank        *int           `json:"kom_rank"`
	PRRank         *int           `json:"pr_rank"`
	Hidden         bool           `json:"hidden"`
}

type Comment struct {
	ID            int64          `json:"id"`
	ResourceState ResourceState  `json:"resource_state"`
	ActivityID    int64          `json:"activity_id"`
	Text          string         `json:"text"`
	Athlete       SummaryAthlete `json:"athlete"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Photo struct {
	ID            int64             `json:"id"`
	UniqueID      string            `json:"unique_id"`
	ActivityID    int64             `json:"activity_id"`
	ResourceState ResourceState     `json:"resource_state"`
	Caption       string            `json:"caption"`
	Source        int               `json:"source"`
	URLs          map[string]string `json:"urls"`
	CreatedAt     time.Time         `json:"created_at"`
	Location      *LatLong          `json:"location"`
}

type DistributionBucket struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Time int     `json:"time"`
}

// ActivityZone is the time an activity spent in each heart rate or power zone.
type ActivityZone struct {
	Score              int                  `json:"score"`
	DistributionBucket []DistributionBucket `json:"distribution_buckets"`
	Type               string               `json:"type"`
	ResourceState      ResourceState        `json:"resource_state"`
	SensorBased        bool                 `json:"sensor_based"`
	Points             int                  `json:"points"`
	CustomZones        bool                 `json:"custom_zones"`
	Max                int                  `json:"max"`
}

type ZoneRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type HeartRateZones struct {
	CustomZones bool        `json:"custom_zones"`
	Zones       []ZoneRange `json:"zones"`
}

type PowerZones struct {
	Zones []ZoneRange `json:"zones"`
}

// Zones are the authenticated athlete's configured training zones.
type Zones struct {
	HeartRate *HeartRateZones `json:"heart_rate"`
	Power     *PowerZones     `json:"power"`
}

type ActivityTotal struct {
	Count            int     `json:"count"`
	Distance         float64 `json:"distance"`
	MovingTime       int     `json:"moving_time"`
	ElapsedTime      int     `json:"elapsed_time"`
	ElevationGain    float64 `json:"elevation_gain"`
	AchievementCount int     `json:"achievement_count"`
}

type ActivityStats struct {
	BiggestRideDistance       float64       `json:"biggest_ride_distance"`
	BiggestClimbElevationGain float64       `json:"biggest_climb_elevation_gain"`
	RecentRideTotals          ActivityTotal `json:"recent_ride_totals"`
	RecentRunTotals           ActivityTotal `json:"recent_run_totals"`
	RecentSwimTotals          ActivityTotal `json:"recent_swim_totals"`
	YTDRideTotals             ActivityTotal `json:"ytd_ride_totals"`
	YTDRunTotals              ActivityTotal `json:"ytd_run_totals"`
	YTDSwimTotals             ActivityTotal `json:"ytd_swim_totals"`
	AllRideTotals             ActivityTotal `json:"all_ride_totals"`
	AllRunTotals              ActivityTotal `json:"all_run_totals"`
	AllSwimTotals             ActivityTotal `json:"all_swim_totals"`
}

type Challenge struct {
	ID            int64         `json:"id"`
	ResourceState ResourceState `json:"resource_state"`
	Name          string        `json:"name"`
	Subtitle      string        `json:"subtitle"`
	Description   string        `json:"description"`
	URL           string        `json:"url"`
	Joined        bool          `json:"joined"`
	StartAt       time.Time     `json:"start_at"`
	EndAt         time.Time     `json:"end_at"`
}

// Stream is one channel of an activity's recorded data. Data holds numbers,
// booleans or [lat, lng] pairs depending on the stream type.
type Stream struct {
	Type         StreamType `json:"type"`
	OriginalSize int        `json:"original_size"`
	Resolution   string     `json:"resolution"`
	SeriesType   string     `json:"series_type"`
	Data         []any      `json:"data"`
}
