package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayops/config"
	"stayops/infras/otel"
	allocationModel "stayops/internal/domains/allocation/model"
	allocationService "stayops/internal/domains/allocation/service"
	"stayops/internal/domains/booking/model"
	"stayops/internal/domains/booking/model/dto"
	"stayops/internal/domains/booking/repository"
	folioModel "stayops/internal/domains/folio/model"
	roomModel "stayops/internal/domains/room/model"
	roomDto "stayops/internal/domains/room/model/dto"
	roomService "stayops/internal/domains/room/service"
	"stayops/shared"
	"stayops/shared/cache"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"stayops/shared/metrics"
	"stayops/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, actor identity.Actor, req dto.CreateBookingRequest) (dto.BookingResult, error)
	GetAll(ctx context.Context, actor identity.Actor, params gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, actor identity.Actor, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, actor identity.Actor, id string) (dto.BookingResult, error)
	CheckOut(ctx context.Context, actor identity.Actor, id string, req dto.CheckOutRequest) (dto.BookingResult, error)
	Cancel(ctx context.Context, actor identity.Actor, id string, req dto.CancelRequest) (dto.BookingResult, error)
	MarkNoShow(ctx context.Context, actor identity.Actor, id string) (dto.BookingResult, error)
	AddGuest(ctx context.Context, actor identity.Actor, id string, req dto.GuestRequest) (dto.GuestResponse, error)
	GetGuests(ctx context.Context, actor identity.Actor, id string) ([]dto.GuestResponse, error)
	RequestPreArrival(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	CompletePreArrival(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	allocation allocationService.Allocation
	rooms      roomService.Room
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.Booking, allocation allocationService.Allocation, rooms roomService.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:       repo,
		allocation: allocation,
		rooms:      rooms,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, actor identity.Actor, req dto.CreateBookingRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, guests, err := req.ToModel(actor)
	if err != nil {
		return res, err
	}

	if err = s.repo.Create(ctx, booking, guests); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.Booking.FromModel(booking)
	res.Events = []event.Event{
		event.New(event.BookingCreated, actor.TenantID, booking.ID, actor.ActorID, booking.CreatedAt, map[string]any{
			"status":         booking.Status,
			"channel":        booking.Channel,
			"check_in_date":  res.Booking.CheckInDate,
			"check_out_date": res.Booking.CheckOutDate,
		}),
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, actor identity.Actor, params gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	group := shared.FilterByTenant(actor.TenantID, model.TableName, filter.Filters()...)
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(model.CacheKeyGetAll, actor.TenantID), params, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, actor.TenantID, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	if params.SortBy == constant.Empty {
		params.SortBy, params.SortDir = model.FieldCheckInDate, gDto.SortDirAsc
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, tenantID string, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(model.CacheKeyCount, tenantID), params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, actor.TenantID, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Update edits guest details, head count, amount and stay dates. Terminal bookings are frozen.
// A date change is written by the allocation engine so the rooms already held stay free of overlaps.
func (s *serviceImpl) Update(ctx context.Context, actor identity.Actor, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if booking.Status.IsTerminal() {
		return res, failure.ActionUnavailable("booking is " + string(booking.Status) + " and can no longer be edited") // nolint:wrapcheck
	}

	changes, err := req.Changes(booking, actor.ActorID)
	if err != nil {
		return res, err
	}

	if checkIn, ok := changes[model.FieldCheckInDate].(time.Time); ok {
		stay := booking
		stay.CheckInDate = checkIn
		stay.CheckOutDate, _ = changes[model.FieldCheckOutDate].(time.Time)

		if err = s.allocation.Reschedule(ctx, actor, stay, changes); err != nil {
			return res, err //nolint:wrapcheck
		}
	} else if err = s.repo.Update(ctx, changes, shared.FilterByID(actor.TenantID, id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	booking, err = s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// CheckIn admits the guest once every error blocker is cleared. The primary room is moved to
// occupied when its current status allows it; otherwise the booking is still checked in and
// the room is reported in a warning.
func (s *serviceImpl) CheckIn(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if !model.CanCheckIn(booking.Status) {
		return res, unavailable(booking, model.ActionCheckIn)
	}

	blockers, err := s.allocation.Blockers(ctx, booking)
	if err != nil {
		return res, fmt.Errorf("failed to evaluate check-in blockers: %w", err)
	}

	if allocationModel.HasErrors(blockers) {
		return res, failure.Blocked("check-in blocked", blockers) // nolint:wrapcheck
	}

	now := timezone.Now()

	if res.From, err = s.transition(ctx, actor, &booking, model.StatusCheckedIn, now); err != nil {
		return res, err
	}

	res.Events = append(res.Events, event.New(event.BookingCheckedIn, actor.TenantID, booking.ID, actor.ActorID, now, map[string]any{
		"from": res.From,
	}))

	for _, blocker := range blockers {
		res.Warnings = append(res.Warnings, blocker.Message)
	}

	s.moveRoom(ctx, actor, booking, roomModel.StatusOccupied, "check-in", &res)

	res.Booking.FromModel(booking)

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return res, nil
}

// CheckOut closes the stay. The room goes to housekeeping only on the operator's confirmation.
func (s *serviceImpl) CheckOut(ctx context.Context, actor identity.Actor, id string, req dto.CheckOutRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if !model.CanCheckOut(booking.Status) {
		return res, unavailable(booking, model.ActionCheckOut)
	}

	now := timezone.Now()

	if res.From, err = s.transition(ctx, actor, &booking, model.StatusCheckedOut, now); err != nil {
		return res, err
	}

	res.Events = append(res.Events, event.New(event.BookingCheckedOut, actor.TenantID, booking.ID, actor.ActorID, now, map[string]any{
		"mark_room_dirty": req.MarkRoomDirty,
	}))

	if req.MarkRoomDirty {
		s.moveRoom(ctx, actor, booking, roomModel.StatusDirty, "check-out", &res)
	}

	res.Booking.FromModel(booking)

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return res, nil
}

// Cancel keeps the booking's assignments; they stop counting once the booking is no longer live.
func (s *serviceImpl) Cancel(ctx context.Context, actor identity.Actor, id string, req dto.CancelRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if !model.CanCancel(booking.Status) {
		return res, unavailable(booking, model.ActionCancel)
	}

	now := timezone.Now()

	if res.From, err = s.transition(ctx, actor, &booking, model.StatusCancelled, now); err != nil {
		return res, err
	}

	res.Booking.FromModel(booking)
	res.Events = []event.Event{
		event.New(event.BookingCancelled, actor.TenantID, booking.ID, actor.ActorID, now, map[string]any{
			"from":   res.From,
			"reason": req.Reason,
		}),
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return res, nil
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.MarkNoShow")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if !model.CanMarkNoShow(booking.Status) {
		return res, unavailable(booking, model.ActionNoShow)
	}

	if timezone.Today().Before(booking.CheckInDate) {
		return res, failure.ActionUnavailable("booking cannot be marked no-show before its check-in date " + booking.CheckInDate.Format(constant.DateOnlyFormat)) // nolint:wrapcheck
	}

	now := timezone.Now()

	if res.From, err = s.transition(ctx, actor, &booking, model.StatusNoShow, now); err != nil {
		return res, err
	}

	res.Booking.FromModel(booking)
	res.Events = []event.Event{event.New(event.BookingNoShow, actor.TenantID, booking.ID, actor.ActorID, now, nil)}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return res, nil
}

func (s *serviceImpl) AddGuest(ctx context.Context, actor identity.Actor, id string, req dto.GuestRequest) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.AddGuest")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if booking.Status.IsTerminal() {
		return res, failure.ActionUnavailable("guests cannot be added to a " + string(booking.Status) + " booking") // nolint:wrapcheck
	}

	guest := req.ToModel(actor, booking.ID, timezone.Now())

	if err = s.repo.InsertGuest(ctx, guest); err != nil {
		log.Error().Err(err).Msg("failed to add guest")

		return res, fmt.Errorf("failed to add guest: %w", err)
	}

	res.FromModel(guest)

	return res, nil
}

func (s *serviceImpl) GetGuests(ctx context.Context, actor identity.Actor, id string) (res []dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetGuests")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.load(ctx, actor.TenantID, id); err != nil {
		return res, err
	}

	guests, err := s.repo.GetGuests(ctx, actor.TenantID, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get guests")

		return res, fmt.Errorf("failed to get guests: %w", err)
	}

	return dto.FromGuests(guests), nil
}

func (s *serviceImpl) RequestPreArrival(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error) {
	return s.setPreArrival(ctx, actor, id, model.PreArrivalPending)
}

func (s *serviceImpl) CompletePreArrival(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error) {
	return s.setPreArrival(ctx, actor, id, model.PreArrivalCompleted)
}

func (s *serviceImpl) setPreArrival(ctx context.Context, actor identity.Actor, id string, status model.PreArrivalStatus) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.setPreArrival")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	if !model.CanCheckIn(booking.Status) {
		return res, failure.ActionUnavailable("pre-arrival data applies to pending or confirmed bookings, booking is " + string(booking.Status)) // nolint:wrapcheck
	}

	if status == model.PreArrivalCompleted && booking.PreArrivalStatus != model.PreArrivalPending {
		return res, failure.ActionUnavailable("pre-arrival data collection was not requested") // nolint:wrapcheck
	}

	now := timezone.Now()

	if err = s.repo.Update(ctx, map[string]any{
		model.FieldPreArrivalStatus: string(status),
		constant.FieldModifiedAt:    now,
		constant.FieldModifiedBy:    actor.ActorID,
	}, shared.FilterByID(actor.TenantID, id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update pre-arrival status")

		return res, fmt.Errorf("failed to update pre-arrival status: %w", err)
	}

	booking.PreArrivalStatus = status
	booking.ModifiedAt = now
	booking.ModifiedBy = actor.ActorID

	res.FromModel(booking)

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, tenantID, id string) (model.Booking, error) {
	if uuid.Validate(id) != nil {
		return model.Booking{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(tenantID, id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// transition commits the status change only if the row still holds the status that was read.
// It returns the status the booking left.
func (s *serviceImpl) transition(ctx context.Context, actor identity.Actor, booking *model.Booking, to model.Status, at time.Time) (model.Status, error) {
	from := booking.Status

	ok, err := s.repo.Transition(ctx, actor.TenantID, booking.ID, from, to, actor.ActorID, at)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to update booking status")

		return from, fmt.Errorf("failed to update booking status: %w", err)
	}

	if !ok {
		return from, failure.ActionUnavailable("booking changed concurrently, reload and retry") // nolint:wrapcheck
	}

	metrics.RecordTransition(model.EntityName, string(from), string(to))

	booking.Status = to
	booking.ModifiedAt = at
	booking.ModifiedBy = actor.ActorID

	return from, nil
}

// moveRoom applies a room status change that follows a booking transition. Failures never undo
// the booking transition; they are reported as warnings.
func (s *serviceImpl) moveRoom(ctx context.Context, actor identity.Actor, booking model.Booking, status roomModel.Status, reason string, res *dto.BookingResult) {
	primary, found, err := s.allocation.PrimaryOf(ctx, actor.TenantID, booking.ID)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to resolve primary room")

		res.Warnings = append(res.Warnings, "room status was not updated: primary room could not be resolved")

		return
	}

	if !found {
		return
	}

	change, err := s.rooms.SetStatus(ctx, actor, primary.RoomID, roomDto.SetStatusRequest{Status: status, Reason: reason})
	if err != nil {
		log.Warn().Err(err).Str("room_id", primary.RoomID).Str("status", string(status)).Msg("room status left unchanged")

		res.Warnings = append(res.Warnings, fmt.Sprintf("room was not marked %s: %s", status, err.Error()))

		return
	}

	res.Warnings = append(res.Warnings, change.Warnings...)
	res.Events = append(res.Events, change.Events...)
}

func unavailable(booking model.Booking, action string) error {
	return failure.ActionUnavailable(fmt.Sprintf("%s is not available for a %s booking", action, booking.Status)) // nolint:wrapcheck
}

func (s *serviceImpl) invalidate(ctx context.Context, tenantID, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(model.CacheKeyGet, tenantID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		// The folio payload carries the booking status.
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(folioModel.CacheKeyGet, tenantID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete folio cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(model.CacheKeyGetAll, tenantID))
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(model.CacheKeyCount, tenantID))
}
