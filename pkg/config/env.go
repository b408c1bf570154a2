package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotStepMin      = "SLOT_STEP_MIN"
	EnvBookingLockTTL   = "BOOKING_LOCK_TTL"
	EnvLockSweepSpec    = "LOCK_SWEEP_CRON"
	EnvBookingTopic     = "BOOKING_EVENTS_TOPIC"
	EnvEventsEnabled    = "BOOKING_EVENTS_ENABLED"
	EnvEventPublishTime = "EVENT_PUBLISH_TIMEOUT"
)
