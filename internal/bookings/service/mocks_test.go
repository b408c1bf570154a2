package service

import (
	"context"
	"io"
	"time"

	"slotwise/internal/bookings/repository"
	catalogerrors "slotwise/internal/catalog/errors"
	catalogrepo "slotwise/internal/catalog/repository"
	"slotwise/pkg/config"
	mongotx "slotwise/pkg/db/mongo"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/timeofday"

	"go.mongodb.org/mongo-driver/mongo"
)

// Shared fixture IDs (valid ObjectID hex, as the validator requires).
const (
	tenantID   = "6651a1b2c3d4e5f6a7b8c9d0"
	locationID = "6651a1b2c3d4e5f6a7b8c9d1"
	serviceID  = "6651a1b2c3d4e5f6a7b8c9d2"
	clientID   = "6651a1b2c3d4e5f6a7b8c9d3"
	staffID    = "6651a1b2c3d4e5f6a7b8c9d4"
	bookingID  = "6651a1b2c3d4e5f6a7b8c9e1"
)

func tod(s string) timeofday.TimeOfDay {
	return timeofday.MustParse(s)
}

func ivp(start, end string) *timeofday.Interval {
	return &timeofday.Interval{Start: tod(start), End: tod(end)}
}

// mockCatalog starts from a healthy world (active entities, every day open
// 09:00-18:00) and lets each test override what it needs.
type mockCatalog struct {
	location *model.Location
	staff    *model.Staff
	service  *model.Service
	client   *model.Client

	dayScheduleFunc func(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error)
	blackoutsOnFunc func(ctx context.Context, staffID, date string) ([]model.Blackout, error)
}

var _ catalogrepo.CatalogRepository = (*mockCatalog)(nil)

func defaultCatalog() *mockCatalog {
	return &mockCatalog{
		location: &model.Location{ID: locationID, TenantID: tenantID, Name: "Downtown", Active: true},
		staff:    &model.Staff{ID: staffID, TenantID: tenantID, Name: "Dana", Active: true, LocationIDs: []string{locationID}},
		service:  &model.Service{ID: serviceID, TenantID: tenantID, Name: "Consultation", Active: true, DurationMin: 60, PriceCents: 5000},
		client:   &model.Client{ID: clientID, TenantID: tenantID, Name: "Avi"},
	}
}

func (m *mockCatalog) GetLocation(_ context.Context, _, id string) (*model.Location, error) {
	if m.location == nil || m.location.ID != id {
		return nil, catalogerrors.ErrLocationNotFound
	}
	return m.location, nil
}

func (m *mockCatalog) GetStaff(_ context.Context, _, id string) (*model.Staff, error) {
	if m.staff == nil || m.staff.ID != id {
		return nil, catalogerrors.ErrStaffNotFound
	}
	return m.staff, nil
}

func (m *mockCatalog) GetService(_ context.Context, _, id string) (*model.Service, error) {
	if m.service == nil || m.service.ID != id {
		return nil, catalogerrors.ErrServiceNotFound
	}
	return m.service, nil
}

func (m *mockCatalog) GetClient(_ context.Context, _, id string) (*model.Client, error) {
	if m.client == nil || m.client.ID != id {
		return nil, catalogerrors.ErrClientNotFound
	}
	return m.client, nil
}

func (m *mockCatalog) DaySchedule(ctx context.Context, kind model.OwnerKind, ownerID string, weekday int) (*model.DaySchedule, error) {
	if m.dayScheduleFunc != nil {
		return m.dayScheduleFunc(ctx, kind, ownerID, weekday)
	}
	return &model.DaySchedule{Weekday: weekday, Open: true, Hours: ivp("09:00", "18:00")}, nil
}

func (m *mockCatalog) BlackoutsOn(ctx context.Context, staffID, date string) ([]model.Blackout, error) {
	if m.blackoutsOnFunc != nil {
		return m.blackoutsOnFunc(ctx, staffID, date)
	}
	return nil, nil
}

func (m *mockCatalog) StaffByLocation(_ context.Context, _, locID string) ([]*model.Staff, error) {
	if m.staff != nil && m.staff.AssignedTo(locID) {
		return []*model.Staff{m.staff}, nil
	}
	return nil, nil
}

type mockBookingRepo struct {
	created         []*model.Booking
	findByIDFunc    func(ctx context.Context, tenantID, id string) (*model.Booking, error)
	activeByStaff   func(ctx context.Context, tenantID, staffID, date string) ([]*model.Booking, error)
	activeByLoc     func(ctx context.Context, tenantID, locationID, date string) ([]*model.Booking, error)
	updateFunc      func(ctx context.Context, id string, booking *model.Booking) error
	updateStatus    func(ctx context.Context, tenantID, id string, from, to model.BookingStatus, updatedBy string) error
	transactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

var _ repository.BookingRepository = (*mockBookingRepo)(nil)

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	booking.ID = bookingID
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, tenantID, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return nil, nil
}

func (m *mockBookingRepo) FindAll(context.Context, repository.ListFilter, int, int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) Count(context.Context, repository.ListFilter) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, id string, booking *model.Booking) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.BookingStatus, updatedBy string) error {
	if m.updateStatus != nil {
		return m.updateStatus(ctx, tenantID, id, from, to, updatedBy)
	}
	return nil
}

func (m *mockBookingRepo) ActiveByStaffAndDate(ctx context.Context, tenantID, staffID, date string) ([]*model.Booking, error) {
	if m.activeByStaff != nil {
		return m.activeByStaff(ctx, tenantID, staffID, date)
	}
	return nil, nil
}

func (m *mockBookingRepo) ActiveByLocationAndDate(ctx context.Context, tenantID, locationID, date string) ([]*model.Booking, error) {
	if m.activeByLoc != nil {
		return m.activeByLoc(ctx, tenantID, locationID, date)
	}
	return nil, nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.transactionFunc != nil {
		return m.transactionFunc(ctx, fn)
	}
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepo struct {
	acquired   []string
	released   []string
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
}

var _ repository.BookingLockRepository = (*mockLockRepo)(nil)

func (m *mockLockRepo) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	m.acquired = append(m.acquired, lock.ID)
	return lock, nil
}

func (m *mockLockRepo) Delete(_ context.Context, lockID string) error {
	m.released = append(m.released, lockID)
	return nil
}

func (m *mockLockRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

type publishedEvent struct {
	eventType  string
	booking    *model.Booking
	prevStatus model.BookingStatus
}

type mockPublisher struct {
	events []publishedEvent
}

func (m *mockPublisher) Publish(eventType string, booking *model.Booking, prevStatus model.BookingStatus) {
	m.events = append(m.events, publishedEvent{eventType: eventType, booking: booking, prevStatus: prevStatus})
}

func (m *mockPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		SlotStepMin:    30,
		BookingLockTTL: 10 * time.Second,
		Log:            logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}
