package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	catalogerrors "slotwise/internal/catalog/errors"

	bookingserrors "slotwise/internal/bookings/errors"
	"slotwise/internal/bookings/events"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/validator"
	catalogrepo "slotwise/internal/catalog/repository"
	"slotwise/internal/scheduling"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"slotwise/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Booking, error)
	GetAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, tenantID, id string, updates *model.BookingUpdate) (*model.Booking, error)
	ChangeStatus(ctx context.Context, tenantID, id string, next model.BookingStatus, updatedBy string) (*model.Booking, error)
	Cancel(ctx context.Context, tenantID, id, updatedBy string) error
	Availability(ctx context.Context, tenantID, locationID, serviceID, staffID, date string) ([]scheduling.Slot, error)
}

// Engine bundles the scheduling primitives the orchestrator sequences.
type Engine struct {
	resolver  *scheduling.CalendarResolver
	blackouts *scheduling.BlackoutChecker
	conflicts *scheduling.ConflictDetector
	capacity  *scheduling.CapacityEvaluator
	slots     *scheduling.SlotGenerator
}

func NewEngine(catalog catalogrepo.CatalogRepository, bookings repository.BookingRepository) *Engine {
	resolver := scheduling.NewCalendarResolver(catalog)
	blackouts := scheduling.NewBlackoutChecker(catalog)
	conflicts := scheduling.NewConflictDetector(bookings)
	capacity := scheduling.NewCapacityEvaluator(resolver, blackouts, catalog, bookings)
	return &Engine{
		resolver:  resolver,
		blackouts: blackouts,
		conflicts: conflicts,
		capacity:  capacity,
		slots:     scheduling.NewSlotGenerator(resolver, blackouts, conflicts, capacity),
	}
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	catalog   catalogrepo.CatalogRepository
	engine    *Engine
	validator *validator.BookingValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	catalog catalogrepo.CatalogRepository,
	engine *Engine,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		engine:    engine,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	svc, err := s.runPipeline(ctx, booking, "")
	if err != nil {
		return err
	}
	// Price is snapshotted at creation and never re-read from the catalog.
	booking.PriceCents = svc.PriceCents

	lockID, err := s.acquireSlotLock(ctx, booking)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.commitWithRetry(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.recheckAvailability(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tenant_id", booking.TenantID,
		"location_id", booking.LocationID,
		"staff_id", booking.StaffID,
		"date", booking.Date,
		"interval", booking.Interval().String(),
	)
	s.events.Publish(events.BookingCreated, booking, "")
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, tenantID, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, translateRepoError(err, id, "retrieve")
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter.TenantID == "" {
		return nil, 0, apperrors.InvalidInput("Tenant ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, tenantID, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, translateRepoError(err, id, "check")
	}
	if existing.Status.Terminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking in %s state cannot be modified", existing.Status))
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, translateValidatorError(err)
	}

	// The pipeline always re-runs against the fully merged target state;
	// skipping checks for unchanged fields would be an optimization, never a
	// correctness requirement.
	merged := mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}
	if _, err := s.runPipeline(ctx, merged, id); err != nil {
		return nil, err
	}

	lockID, err := s.acquireSlotLock(ctx, merged)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.commitWithRetry(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.recheckAvailability(sessCtx, merged, id); err != nil {
			return err
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "date", merged.Date, "interval", merged.Interval().String())
	s.events.Publish(events.BookingUpdated, merged, "")
	return merged, nil
}

func (s *bookingService) ChangeStatus(ctx context.Context, tenantID, id string, next model.BookingStatus, updatedBy string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !next.Known() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", next))
	}

	booking, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, translateRepoError(err, id, "check")
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.IllegalTransition(string(booking.Status), string(next))
	}

	// Conditional on the status just read, so two racing transitions cannot
	// both win and materialize an exit from a terminal state.
	if err := s.repo.UpdateStatus(ctx, tenantID, id, booking.Status, next, updatedBy); err != nil {
		if errors.Is(err, bookingserrors.ErrStaleStatus) {
			return nil, apperrors.Conflict("Booking status changed concurrently. Please re-read and retry.")
		}
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	prev := booking.Status
	booking.Status = next
	booking.UpdatedBy = updatedBy

	s.cfg.Log.Info("Booking status changed", "id", id, "from", prev, "to", next)
	eventType := events.BookingStatusChanged
	if next == model.StatusCancelled {
		eventType = events.BookingCancelled
	}
	s.events.Publish(eventType, booking, prev)
	return booking, nil
}

// Cancel is a status transition to cancelled; it never runs the validation
// pipeline.
func (s *bookingService) Cancel(ctx context.Context, tenantID, id, updatedBy string) error {
	_, err := s.ChangeStatus(ctx, tenantID, id, model.StatusCancelled, updatedBy)
	return err
}

func (s *bookingService) Availability(ctx context.Context, tenantID, locationID, serviceID, staffID, date string) ([]scheduling.Slot, error) {
	if tenantID == "" || locationID == "" || serviceID == "" || date == "" {
		return nil, apperrors.InvalidInput("tenant_id, location_id, service_id and date are required")
	}

	svc, err := s.catalog.GetService(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("Service", serviceID)
		}
		return nil, apperrors.Internal("Failed to load service", err)
	}
	if !svc.Active {
		return nil, apperrors.InactiveEntity("Service", serviceID)
	}

	slots, err := s.engine.slots.Generate(ctx, scheduling.SlotRequest{
		TenantID:    tenantID,
		LocationID:  locationID,
		StaffID:     staffID,
		Date:        date,
		DurationMin: svc.DurationMin,
		StepMin:     s.cfg.SlotStepMin,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrOwnerNotFound) {
			return nil, apperrors.NotFound("Schedule owner")
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to generate availability", "location_id", locationID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to generate availability", err)
	}
	return slots, nil
}

// --- Validation pipeline ---

// runPipeline applies the full short-circuiting validation sequence to the
// booking's target state and returns the referenced service so callers can
// snapshot its price. excludeID keeps a rescheduled booking from colliding
// with itself.
func (s *bookingService) runPipeline(ctx context.Context, b *model.Booking, excludeID string) (*model.Service, error) {
	if _, err := s.catalog.GetClient(ctx, b.TenantID, b.ClientID); err != nil {
		if errors.Is(err, catalogerrors.ErrClientNotFound) {
			return nil, apperrors.NotFoundWithID("Client", b.ClientID)
		}
		return nil, apperrors.Internal("Failed to load client", err)
	}

	svc, err := s.catalog.GetService(ctx, b.TenantID, b.ServiceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("Service", b.ServiceID)
		}
		return nil, apperrors.Internal("Failed to load service", err)
	}
	if !svc.Active {
		return nil, apperrors.InactiveEntity("Service", b.ServiceID)
	}

	location, err := s.catalog.GetLocation(ctx, b.TenantID, b.LocationID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrLocationNotFound) {
			return nil, apperrors.NotFoundWithID("Location", b.LocationID)
		}
		return nil, apperrors.Internal("Failed to load location", err)
	}
	if !location.Active {
		return nil, apperrors.InactiveEntity("Location", b.LocationID)
	}

	if err := s.checkWindow(ctx, model.OwnerLocation, b.LocationID, b); err != nil {
		return nil, err
	}

	if b.StaffID == "" {
		decision, err := s.engine.capacity.Evaluate(ctx, b.TenantID, b.LocationID, b.Date, b.Interval(), excludeID)
		if err != nil {
			return nil, apperrors.Internal("Failed to evaluate location capacity", err)
		}
		if !decision.Fits() {
			return nil, apperrors.CapacityExceeded("Location has no capacity for the requested interval", map[string]any{
				"location_id": b.LocationID,
				"date":        b.Date,
				"interval":    b.Interval().String(),
				"capacity":    decision.Capacity,
				"overlapping": decision.Overlapping,
			})
		}
		return svc, nil
	}

	staff, err := s.catalog.GetStaff(ctx, b.TenantID, b.StaffID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrStaffNotFound) {
			return nil, apperrors.NotFoundWithID("Staff", b.StaffID)
		}
		return nil, apperrors.Internal("Failed to load staff member", err)
	}
	if !staff.Active {
		return nil, apperrors.InactiveEntity("Staff", b.StaffID)
	}
	if !staff.AssignedTo(b.LocationID) {
		return nil, apperrors.Validation("Staff member is not assigned to the chosen location", map[string]any{
			"staff_id":    b.StaffID,
			"location_id": b.LocationID,
		})
	}

	if err := s.checkWindow(ctx, model.OwnerStaff, b.StaffID, b); err != nil {
		return nil, err
	}

	blackout, err := s.engine.blackouts.Check(ctx, b.StaffID, b.Date, b.Interval())
	if err != nil {
		return nil, apperrors.Internal("Failed to check staff blackouts", err)
	}
	if blackout.Blocked() {
		details := map[string]any{
			"staff_id": b.StaffID,
			"date":     b.Date,
		}
		if blackout.Blackout != nil {
			details["blackout_id"] = blackout.Blackout.ID
			if blackout.Blackout.Reason != "" {
				details["reason"] = blackout.Blackout.Reason
			}
		}
		return nil, apperrors.BlackoutConflict("Staff member is unavailable for the requested interval", details)
	}

	conflict, err := s.engine.conflicts.FindConflict(ctx, b.TenantID, b.StaffID, b.Date, b.Interval(), excludeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check booking conflicts", err)
	}
	if conflict != nil {
		return nil, apperrors.ResourceConflict("Requested interval overlaps an existing booking", map[string]any{
			"staff_id":            b.StaffID,
			"conflicting_booking": conflict.ID,
			"interval":            conflict.Interval().String(),
		})
	}

	return svc, nil
}

// checkWindow resolves the owner's window for the booking date and maps the
// admission verdict onto the error taxonomy.
func (s *bookingService) checkWindow(ctx context.Context, kind model.OwnerKind, ownerID string, b *model.Booking) error {
	window, err := s.engine.resolver.ResolveWindow(ctx, kind, ownerID, b.Date)
	if err != nil {
		if errors.Is(err, scheduling.ErrOwnerNotFound) {
			return apperrors.NotFoundWithID(string(kind), ownerID)
		}
		return apperrors.Internal("Failed to resolve working window", err)
	}

	switch window.Admits(b.Interval()) {
	case scheduling.AdmitOK:
		return nil
	case scheduling.AdmitClosed:
		return apperrors.OutOfHours(fmt.Sprintf("The %s is closed on %s", kind, b.Date), map[string]any{
			"owner":    ownerID,
			"date":     b.Date,
			"interval": b.Interval().String(),
		})
	case scheduling.AdmitBreakOverlap:
		return apperrors.OutOfHours("Requested interval overlaps a break", map[string]any{
			"owner":    ownerID,
			"date":     b.Date,
			"interval": b.Interval().String(),
			"break":    window.Break.String(),
		})
	default:
		return apperrors.OutOfHours("Requested interval falls outside working hours", map[string]any{
			"owner":    ownerID,
			"date":     b.Date,
			"interval": b.Interval().String(),
			"hours":    window.Hours.String(),
		})
	}
}

// recheckAvailability re-runs only the race-sensitive checks inside the
// transaction, after the advisory lock is held.
func (s *bookingService) recheckAvailability(ctx context.Context, b *model.Booking, excludeID string) error {
	if b.StaffID != "" {
		conflict, err := s.engine.conflicts.FindConflict(ctx, b.TenantID, b.StaffID, b.Date, b.Interval(), excludeID)
		if err != nil {
			return apperrors.Internal("Failed to re-check booking conflicts", err)
		}
		if conflict != nil {
			return apperrors.ResourceConflict("Requested interval overlaps an existing booking", map[string]any{
				"staff_id":            b.StaffID,
				"conflicting_booking": conflict.ID,
				"interval":            conflict.Interval().String(),
			})
		}
		return nil
	}

	decision, err := s.engine.capacity.Evaluate(ctx, b.TenantID, b.LocationID, b.Date, b.Interval(), excludeID)
	if err != nil {
		return apperrors.Internal("Failed to re-check location capacity", err)
	}
	if !decision.Fits() {
		return apperrors.CapacityExceeded("Location has no capacity for the requested interval", map[string]any{
			"location_id": b.LocationID,
			"date":        b.Date,
			"interval":    b.Interval().String(),
			"capacity":    decision.Capacity,
			"overlapping": decision.Overlapping,
		})
	}
	return nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Notes = sanitizer.NormalizeNotes(b.Notes)
}

func (s *bookingService) validate(b *model.Booking) error {
	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return translateValidatorError(err)
	}
	return nil
}

// translateValidatorError maps interval failures onto their dedicated code;
// everything else is a field-level validation failure.
func translateValidatorError(err error) error {
	var ivErr validator.IntervalError
	if errors.As(err, &ivErr) {
		return apperrors.InvalidInterval(ivErr.Message)
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.LocationID != nil {
		merged.LocationID = *updates.LocationID
	}
	if updates.ServiceID != nil {
		merged.ServiceID = *updates.ServiceID
	}
	if updates.StaffID != nil {
		merged.StaffID = *updates.StaffID
	}
	if updates.Date != nil {
		merged.Date = *updates.Date
	}
	if updates.Start != nil {
		merged.Start = *updates.Start
	}
	if updates.End != nil {
		merged.End = *updates.End
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}
	if updates.UpdatedBy != "" {
		merged.UpdatedBy = updates.UpdatedBy
	}

	return &merged
}

func translateRepoError(err error, id, action string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s booking", action), err)
}

// commitWithRetry executes the transactional write, retrying once on a
// transient persistence failure. Domain rejections (AppErrors) never retry.
func (s *bookingService) commitWithRetry(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	err := s.repo.ExecuteTransaction(ctx, fn)
	if err == nil || apperrors.IsAppError(err) {
		return err
	}

	s.cfg.Log.Warn("Transient persistence failure, retrying once", "error", err)
	err = s.repo.ExecuteTransaction(ctx, fn)
	if err == nil || apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Unavailable("Booking storage is temporarily unavailable", err)
}

// acquireSlotLock creates the advisory lock keyed by the staff member (or
// the location for staff-less bookings) and the date. Keying on anything
// finer, like the start minute, would let two overlapping intervals with
// different starts take different locks and both pass their transactional
// re-check on disjoint snapshots.
func (s *bookingService) acquireSlotLock(ctx context.Context, b *model.Booking) (string, error) {
	owner := b.StaffID
	if owner == "" {
		owner = "loc:" + b.LocationID
	}
	lockID := fmt.Sprintf("booking_lock_%s_%s_%s", b.TenantID, owner, b.Date)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
