package strava

type ResourceState int

const (
	ResourceStateMeta     ResourceState = 1
	ResourceStateSummary  ResourceState = 2
	ResourceStateDetailed ResourceState = 3
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type ActivityType string

const (
	ActivityTypeAlpineSki       ActivityType = "AlpineSki"
	ActivityTypeBackcountrySki  ActivityType = "BackcountrySki"
	ActivityTypeCanoeing        ActivityType = "Canoeing"
	ActivityTypeCrossfit        ActivityType = "Crossfit"
	ActivityTypeEBikeRide       ActivityType = "EBikeRide"
	ActivityTypeElliptical      ActivityType = "Elliptical"
	ActivityTypeGolf            ActivityType = "Golf"
	ActivityTypeHandcycle       ActivityType = "Handcycle"
	ActivityTypeHike            ActivityType = "Hike"
	ActivityTypeIceSkate        ActivityType = "IceSkate"
	ActivityTypeInlineSkate     ActivityType = "InlineSkate"
	ActivityTypeKayaking        ActivityType = "Kayaking"
	ActivityTypeKitesurf        ActivityType = "Kitesurf"
	ActivityTypeNordicSki       ActivityType = "NordicSki"
	ActivityTypeRide            ActivityType = "Ride"
	ActivityTypeRockClimbing    ActivityType = "RockClimbing"
	ActivityTypeRollerSki       ActivityType = "RollerSki"
	ActivityTypeRowing          ActivityType = "Rowing"
	ActivityTypeRun             ActivityType = "Run"
	ActivityTypeSail            ActivityType = "Sail"
	ActivityTypeSkateboard      ActivityType = "Skateboard"
	ActivityTypeSnowboard       ActivityType = "Snowboard"
	ActivityTypeSnowshoe        ActivityType = "Snowshoe"
	ActivityTypeSoccer          ActivityType = "Soccer"
	ActivityTypeStairStepper    ActivityType = "StairStepper"
	ActivityTypeStandUpPaddling ActivityType = "StandUpPaddling"
	ActivityTypeSurfing         ActivityType = "Surfing"
	ActivityTypeSwim            ActivityType = "Swim"
	ActivityTypeVelomobile      ActivityType = "Velomobile"
	ActivityTypeVirtualRide     ActivityType = "VirtualRide"
	ActivityTypeVirtualRun      ActivityType = "VirtualRun"
	ActivityTypeWalk            ActivityType = "Walk"
	ActivityTypeWeightTraining  ActivityType = "WeightTraining"
	ActivityTypeWheelchair      ActivityType = "Wheelchair"
	ActivityTypeWindsurf        ActivityType = "Windsurf"
	ActivityTypeWorkout         ActivityType = "Workout"
	ActivityTypeYoga            ActivityType = "Yoga"
)

type SportType string

const (
	SportTypeAlpineSki         SportType = "AlpineSki"
	SportTypeBackcountrySki    SportType = "BackcountrySki"
	SportTypeCanoeing          SportType = "Canoeing"
	SportTypeCrossfit          SportType = "Crossfit"
	SportTypeEBikeRide         SportType = "EBikeRide"
	SportTypeElliptical        SportType = "Elliptical"
	SportTypeEMountainBikeRide SportType = "EMountainBikeRide"
	SportTypeGolf              SportType = "Golf"
	SportTypeGravelRide        SportType = "GravelRide"
	SportTypeHandcycle         SportType = "Handcycle"
	SportTypeHike              SportType = "Hike"
	SportTypeIceSkate          SportType = "IceSkate"
	SportTypeInlineSkate       SportType = "InlineSkate"
	SportTypeKayaking          SportType = "Kayaking"
	SportTypeKitesurf          SportType = "Kitesurf"
	SportTypeMountainBikeRide  SportType = "MountainBikeRide"
	SportTypeNordicSki         SportType = "NordicSki"
	SportTypeRide              SportType = "Ride"
	SportTypeRockClimbing      SportType = "RockClimbing"
	SportTypeRollerSki         SportType = "RollerSki"
	SportTypeRowing            SportType = "Rowing"
	SportTypeRun               SportType = "Run"
	SportTypeSail              SportType = "Sail"
	SportTypeSkateboard        SportType = "Skateboard"
	SportTypeSnowboard         SportType = "Snowboard"
	SportTypeSnowshoe          SportType = "Snowshoe"
	SportTypeSoccer            SportType = "Soccer"
	SportTypeStairStepper      SportType = "StairStepper"
	SportTypeStandUpPaddling   SportType = "StandUpPaddling"
	SportTypeSurfing           SportType = "Surfing"
	SportTypeSwim              SportType = "Swim"
	SportTypeTrailRun          SportType = "TrailRun"
	SportTypeVelomobile        SportType = "Velomobile"
	SportTypeVirtualRide       SportType = "VirtualRide"
	SportTypeVirtualRun        SportType = "VirtualRun"
	SportTypeWalk              SportType = "Walk"
	SportTypeWeightTraining    SportType = "WeightTraining"
	SportTypeWheelchair        SportType = "Wheelchair"
	SportTypeWindsurf          SportType = "Windsurf"
	SportTypeWorkout           SportType = "Workout"
	SportTypeYoga              SportType = "Yoga"
)

// WorkoutType tags runs and rides as races, long runs or workouts.
type WorkoutType int

const (
	WorkoutTypeDefaultRun  WorkoutType = 0
	WorkoutTypeRaceRun     WorkoutType = 1
	WorkoutTypeLongRun     WorkoutType = 2
	WorkoutTypeWorkoutRun  WorkoutType = 3
	WorkoutTypeDefaultRide WorkoutType = 10
	WorkoutTypeRaceRide    WorkoutType = 11
	WorkoutTypeWorkoutRide WorkoutType = 12
)

type StreamType string

const (
	StreamTypeTime        StreamType = "time"
	StreamTypeLatLng      StreamType = "latlng"
	StreamTypeDistance    StreamType = "distance"
	StreamTypeAltitude    StreamType = "altitude"
	StreamTypeVelocity    StreamType = "velocity_smooth"
	StreamTypeHeartrate   StreamType = "heartrate"
	StreamTypeCadence     StreamType = "cadence"
	StreamTypeWatts       StreamType = "watts"
	StreamTypeTemperature StreamType = "temp"
	StreamTypeMoving      StreamType = "moving"
	StreamTypeGrade       StreamType = "grade_smooth"
)

// TerrainType and EventFrequency describe club group events.
type TerrainType int

const (
	TerrainTypeMostlyFlat   TerrainType = 0
	TerrainTypeRollingHills TerrainType = 1
	TerrainTypeKillerClimbs TerrainType = 2
)

type EventFrequency string

const (
	EventFrequencyNoRepeat EventFrequency = "no_repeat"
	EventFrequencyWeekly   EventFrequency = "weekly"
	EventFrequencyMonthly  EventFrequency = "monthly"
)
