package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotwise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSlotStepMin         = 30
	DefaultBookingLockTTL      = 10 * time.Second
	DefaultLockSweepSpec       = "@every 1m"
	DefaultBookingTopic        = "booking-events"
	DefaultEventsEnabled       = false
	DefaultEventPublishTimeout = 5 * time.Second

	DefaultPaginationLimit = 100
)
