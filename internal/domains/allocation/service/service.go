package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"stayops/config"
	"stayops/infras/otel"
	"stayops/internal/domains/allocation/model"
	"stayops/internal/domains/allocation/model/dto"
	"stayops/internal/domains/allocation/repository"
	bookingModel "stayops/internal/domains/booking/model"
	bookingRepo "stayops/internal/domains/booking/repository"
	roomModel "stayops/internal/domains/room/model"
	roomRepo "stayops/internal/domains/room/repository"
	"stayops/shared"
	"stayops/shared/cache"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
	gRepo "stayops/shared/repository"
	"stayops/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Allocation interface {
	Assign(ctx context.Context, actor identity.Actor, req dto.AssignRoomRequest) (dto.AssignmentResult, error)
	Unassign(ctx context.Context, actor identity.Actor, id string) (dto.AssignmentResult, error)
	SetPrimary(ctx context.Context, actor identity.Actor, id string) (dto.AssignmentResult, error)
	Reschedule(ctx context.Context, actor identity.Actor, booking bookingModel.Booking, changes map[string]any) error
	ListAssignments(ctx context.Context, actor identity.Actor, bookingID string) ([]dto.AssignmentResponse, error)
	GetBlockers(ctx context.Context, actor identity.Actor, bookingID string) (dto.BlockersResponse, error)
	Blockers(ctx context.Context, booking bookingModel.Booking) ([]model.Blocker, error)
	PrimaryOf(ctx context.Context, tenantID, bookingID string) (model.RoomAssignment, bool, error)
	GetDayView(ctx context.Context, actor identity.Actor, propertyID, date string) (model.DayView, error)
}

type serviceImpl struct {
	repo        repository.Allocation
	bookingRepo bookingRepo.Booking
	roomRepo    roomRepo.Room
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Allocation, bookingRepo bookingRepo.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Allocation {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Assign(ctx context.Context, actor identity.Actor, req dto.AssignRoomRequest) (res dto.AssignmentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.loadBooking(ctx, actor.TenantID, req.BookingID)
	if err != nil {
		return res, err
	}

	if !booking.Status.IsLive() {
		return res, failure.ActionUnavailable("booking is " + string(booking.Status) + ", rooms can only be assigned to pending, confirmed or checked-in bookings") // nolint:wrapcheck
	}

	now := timezone.Now()
	assignment := model.RoomAssignment{
		ID:        uuid.NewString(),
		TenantID:  actor.TenantID,
		BookingID: booking.ID,
		RoomID:    req.RoomID,
		CreatedAt: now,
		CreatedBy: actor.ActorID,
	}

	outcome, err := s.repo.Assign(ctx, booking, assignment)
	if gRepo.IsUniqueViolation(err) {
		// A concurrent assignment won either the pair or the primary flag; the retry sees it.
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("assignment raced, retrying once")

		outcome, err = s.repo.Assign(ctx, booking, assignment)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to assign room")

		return res, fmt.Errorf("failed to assign room: %w", err)
	}

	if outcome.Existing != nil {
		return res, failure.AlreadyAssigned("room is already assigned to this booking", dto.NewAssignmentResponse(*outcome.Existing)) // nolint:wrapcheck
	}

	if outcome.ConflictBookingID != constant.Empty {
		return res, failure.Blocked("room is allocated to another booking for overlapping dates", []model.Blocker{ // nolint:wrapcheck
			model.RoomUnavailable(outcome.ConflictBookingID),
		})
	}

	res.Assignment = dto.NewAssignmentResponse(outcome.Assignment)
	res.Events = []event.Event{
		event.New(event.RoomAssigned, actor.TenantID, booking.ID, actor.ActorID, now, map[string]any{
			"assignment_id": outcome.Assignment.ID,
			"room_id":       outcome.Assignment.RoomID,
			"is_primary":    outcome.Assignment.IsPrimary,
		}),
	}

	go s.invalidateBooking(context.WithoutCancel(ctx), actor.TenantID, booking.ID)

	return res, nil
}

func (s *serviceImpl) Unassign(ctx context.Context, actor identity.Actor, id string) (res dto.AssignmentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.Unassign")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if uuid.Validate(id) != nil {
		return res, failure.NotFound("assignment not found") // nolint:wrapcheck
	}

	now := timezone.Now()

	outcome, err := s.repo.Unassign(ctx, actor.TenantID, id, actor.ActorID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to unassign room")

		return res, fmt.Errorf("failed to unassign room: %w", err)
	}

	if outcome.Removed.ID == constant.Empty {
		return res, failure.NotFound("assignment not found") // nolint:wrapcheck
	}

	res.Removed = dto.NewAssignmentResponse(outcome.Removed)

	payload := map[string]any{
		"assignment_id": outcome.Removed.ID,
		"room_id":       outcome.Removed.RoomID,
	}

	if outcome.Promoted != nil {
		res.Promoted = dto.NewAssignmentResponse(*outcome.Promoted)
		payload["promoted_assignment_id"] = outcome.Promoted.ID
	}

	res.Events = []event.Event{event.New(event.RoomUnassigned, actor.TenantID, outcome.Removed.BookingID, actor.ActorID, now, payload)}

	go s.invalidateBooking(context.WithoutCancel(ctx), actor.TenantID, outcome.Removed.BookingID)

	return res, nil
}

func (s *serviceImpl) SetPrimary(ctx context.Context, actor identity.Actor, id string) (res dto.AssignmentResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.SetPrimary")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if uuid.Validate(id) != nil {
		return res, failure.NotFound("assignment not found") // nolint:wrapcheck
	}

	primary, err := s.repo.SetPrimary(ctx, actor.TenantID, id, actor.ActorID, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to set primary assignment")

		return res, fmt.Errorf("failed to set primary assignment: %w", err)
	}

	if primary.ID == constant.Empty {
		return res, failure.NotFound("assignment not found") // nolint:wrapcheck
	}

	res.Assignment = dto.NewAssignmentResponse(primary)

	go s.invalidateBooking(context.WithoutCancel(ctx), actor.TenantID, primary.BookingID)

	return res, nil
}

// Reschedule writes a date change of a booking that may hold rooms. booking carries the new
// dates; changes is the full column set to write. The change is refused when any assigned room
// is taken by another live booking within the new window.
func (s *serviceImpl) Reschedule(ctx context.Context, actor identity.Actor, booking bookingModel.Booking, changes map[string]any) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return err //nolint:wrapcheck
	}

	outcome, err := s.repo.Reschedule(ctx, booking, changes)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to reschedule booking")

		return fmt.Errorf("failed to reschedule booking: %w", err)
	}

	if outcome.ConflictBookingID != constant.Empty {
		log.Info().Str("booking_id", booking.ID).Str("room_id", outcome.RoomID).Msg("date change refused, room taken")

		return failure.Blocked("an assigned room is allocated to another booking for the new dates", []model.Blocker{ // nolint:wrapcheck
			model.RoomUnavailable(outcome.ConflictBookingID),
		})
	}

	return nil
}

func (s *serviceImpl) ListAssignments(ctx context.Context, actor identity.Actor, bookingID string) (res []dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.ListAssignments")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.loadBooking(ctx, actor.TenantID, bookingID); err != nil {
		return res, err
	}

	assignments, err := s.repo.ListByBooking(ctx, actor.TenantID, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list assignments")

		return res, fmt.Errorf("failed to list assignments: %w", err)
	}

	return dto.FromAssignments(assignments), nil
}

func (s *serviceImpl) GetBlockers(ctx context.Context, actor identity.Actor, bookingID string) (res dto.BlockersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.GetBlockers")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.loadBooking(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	blockers, err := s.Blockers(ctx, booking)
	if err != nil {
		return res, err
	}

	res.BookingID = booking.ID
	res.Status = booking.Status
	res.Blockers = blockers
	res.CanCheckIn = bookingModel.CanCheckIn(booking.Status) && !model.HasErrors(blockers)

	return res, nil
}

// Blockers reports the check-in preconditions of an already loaded booking.
func (s *serviceImpl) Blockers(ctx context.Context, booking bookingModel.Booking) (res []model.Blocker, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.Blockers")
	defer scope.End()
	defer scope.TraceIfError(err)

	assignments, err := s.repo.ListByBooking(ctx, booking.TenantID, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list assignments")

		return res, fmt.Errorf("failed to list assignments: %w", err)
	}

	hasPrimaryGuest, err := s.bookingRepo.HasPrimaryGuest(ctx, booking.TenantID, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check primary guest")

		return res, fmt.Errorf("failed to check primary guest: %w", err)
	}

	return model.Blockers(len(assignments) > 0, hasPrimaryGuest, booking.PreArrivalStatus == bookingModel.PreArrivalPending), nil
}

func (s *serviceImpl) PrimaryOf(ctx context.Context, tenantID, bookingID string) (model.RoomAssignment, bool, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.PrimaryOf")
	defer scope.End()

	assignments, err := s.repo.ListByBooking(ctx, tenantID, bookingID)
	if err != nil {
		scope.TraceError(err)

		return model.RoomAssignment{}, false, fmt.Errorf("failed to list assignments: %w", err)
	}

	primary, found := model.PrimaryOf(assignments)

	return primary, found, nil
}

// GetDayView loads a snapshot of the property around date and computes the view from it.
func (s *serviceImpl) GetDayView(ctx context.Context, actor identity.Actor, propertyID, date string) (res model.DayView, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".allocation.GetDayView")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	day := timezone.Today()

	if date != constant.Empty {
		if day, err = timezone.ParseDate(date); err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByTenant(actor.TenantID, roomModel.TableName, gDto.Filter{
		Field:    roomModel.FieldPropertyID,
		Operator: gDto.FilterOperatorEq,
		Value:    propertyID,
		Table:    roomModel.TableName,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to load rooms for day view")

		return res, fmt.Errorf("failed to load rooms: %w", err)
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByTenant(actor.TenantID, bookingModel.TableName,
		gDto.Filter{Field: bookingModel.FieldPropertyID, Operator: gDto.FilterOperatorEq, Value: propertyID, Table: bookingModel.TableName},
		gDto.Filter{Field: bookingModel.FieldCheckInDate, Operator: gDto.FilterOperatorLessEq, Value: day, Table: bookingModel.TableName},
		gDto.Filter{Field: bookingModel.FieldCheckOutDate, Operator: gDto.FilterOperatorGreaterEq, Value: day, Table: bookingModel.TableName},
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to load bookings for day view")

		return res, fmt.Errorf("failed to load bookings: %w", err)
	}

	bookingIDs := make([]string, len(bookings))
	for i, booking := range bookings {
		bookingIDs[i] = booking.ID
	}

	assignments, err := s.repo.ListByBookings(ctx, actor.TenantID, bookingIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to load assignments for day view")

		return res, fmt.Errorf("failed to load assignments: %w", err)
	}

	return model.BuildDayView(model.Snapshot{
		PropertyID:  propertyID,
		Rooms:       rooms,
		Bookings:    bookings,
		Assignments: assignments,
	}, day), nil
}

func (s *serviceImpl) loadBooking(ctx context.Context, tenantID, id string) (bookingModel.Booking, error) {
	if uuid.Validate(id) != nil {
		return bookingModel.Booking{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(tenantID, id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidateBooking(ctx context.Context, tenantID, bookingID string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(bookingModel.CacheKeyGet, tenantID, bookingID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(bookingModel.CacheKeyGetAll, tenantID))
}
