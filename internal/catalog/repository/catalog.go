package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "slotwise/internal/catalog/errors"
	"slotwise/internal/scheduling"
	"slotwise/pkg/config"
	"slotwise/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LocationCollection = "Locations"
	StaffCollection    = "Staff"
	ServiceCollection  = "Services"
	ClientCollection   = "Clients"
	BlackoutCollection = "Blackouts"
)

// CatalogRepository is the read side of the catalog: entity lookups for the
// booking pipeline plus the schedule, blackout and staff sources the
// scheduling engine consumes. The catalog is owned elsewhere; nothing here
// writes.
type CatalogRepository interface {
	GetLocation(ctx context.Context, tenantID, id string) (*model.Location, error)
	GetStaff(ctx context.Context, tenantID, id string) (*model.Staff, error)
	GetService(ctx context.Context, tenantID, id string) (*model.Service, error)
	GetClient(ctx context.Context, tenantID, id string) (*model.Client, error)

	DaySchedule(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error)
	BlackoutsOn(ctx context.Context, staffID, date string) ([]model.Blackout, error)
	StaffByLocation(ctx context.Context, tenantID, locationID string) ([]*model.Staff, error)
}

type mongoCatalogRepository struct {
	cfg       *config.Config
	locations *mongo.Collection
	staff     *mongo.Collection
	services  *mongo.Collection
	clients   *mongo.Collection
	blackouts *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:       cfg,
		locations: db.Collection(LocationCollection),
		staff:     db.Collection(StaffCollection),
		services:  db.Collection(ServiceCollection),
		clients:   db.Collection(ClientCollection),
		blackouts: db.Collection(BlackoutCollection),
	}
}

// withTimeout wraps the context with a read timeout unless the caller already
// set a tighter deadline.
func (r *mongoCatalogRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < r.cfg.ReadTimeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoCatalogRepository) GetLocation(ctx context.Context, tenantID, id string) (*model.Location, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var location model.Location
	err := r.locations.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&location)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to find location: %w", err)
	}
	return &location, nil
}

func (r *mongoCatalogRepository) GetStaff(ctx context.Context, tenantID, id string) (*model.Staff, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var staff model.Staff
	err := r.staff.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to find staff member: %w", err)
	}
	return &staff, nil
}

func (r *mongoCatalogRepository) GetService(ctx context.Context, tenantID, id string) (*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var service model.Service
	err := r.services.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return &service, nil
}

func (r *mongoCatalogRepository) GetClient(ctx context.Context, tenantID, id string) (*model.Client, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var client model.Client
	err := r.clients.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &client, nil
}

// DaySchedule returns the owner's weekly entry for the given weekday, or nil
// when the owner has no entry for that day. An unknown owner surfaces
// scheduling.ErrOwnerNotFound so callers can distinguish "missing entity"
// from "closed that day".
func (r *mongoCatalogRepository) DaySchedule(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	collection := r.locations
	if kind == model.OwnerStaff {
		collection = r.staff
	}

	var doc struct {
		Week []model.DaySchedule `bson:"week"`
	}
	err := collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduling.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to load weekly schedule for %s %s: %w", kind, ownerID, err)
	}

	for i := range doc.Week {
		if doc.Week[i].Weekday == weekday {
			return &doc.Week[i], nil
		}
	}
	return nil, nil
}

// BlackoutsOn returns the staff member's blackout rows whose inclusive date
// range covers the given date.
func (r *mongoCatalogRepository) BlackoutsOn(ctx context.Context, staffID, date string) ([]model.Blackout, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"staff_id":   staffID,
		"start_date": bson.M{"$lte": date},
		"end_date":   bson.M{"$gte": date},
	}

	cursor, err := r.blackouts.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blackouts for staff %s: %w", staffID, err)
	}
	defer cursor.Close(ctx)

	var blackouts []model.Blackout
	if err = cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("failed to decode blackouts: %w", err)
	}
	return blackouts, nil
}

// StaffByLocation returns every staff member assigned to the location,
// active or not. Capacity evaluation filters on the active flag itself.
func (r *mongoCatalogRepository) StaffByLocation(ctx context.Context, tenantID, locationID string) ([]*model.Staff, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"tenant_id":    tenantID,
		"location_ids": locationID,
	}

	cursor, err := r.staff.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff for location %s: %w", locationID, err)
	}
	defer cursor.Close(ctx)

	var staff []*model.Staff
	if err = cursor.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}
	return staff, nil
}
