package model

import "time"

// BookingLock is an advisory lock document keyed by (resource or location,
// date), so any two requests whose intervals could overlap contend on the
// same _id. The unique _id constraint is what closes the validate-then-write
// race between concurrent booking requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
