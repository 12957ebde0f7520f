package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayops/config"
	"stayops/infras/otel"
	"stayops/infras/s3"
	allocationService "stayops/internal/domains/allocation/service"
	bookingModel "stayops/internal/domains/booking/model"
	bookingRepo "stayops/internal/domains/booking/repository"
	"stayops/internal/domains/folio/model"
	"stayops/internal/domains/folio/model/dto"
	"stayops/internal/domains/folio/repository"
	roomModel "stayops/internal/domains/room/model"
	roomDto "stayops/internal/domains/room/model/dto"
	roomService "stayops/internal/domains/room/service"
	"stayops/shared"
	"stayops/shared/cache"
	"stayops/shared/constant"
	"stayops/shared/deadline"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"stayops/shared/metrics"
	"stayops/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	dependencyS3       = "s3"
	statementDirectory = "statements"

	warningStatementArchive = "folio closed but the statement could not be archived"
)

type Folio interface {
	GetFolio(ctx context.Context, actor identity.Actor, bookingID string) (dto.FolioResponse, error)
	AddItem(ctx context.Context, actor identity.Actor, bookingID string, req dto.AddItemRequest) (dto.ItemResponse, error)
	AddPayment(ctx context.Context, actor identity.Actor, bookingID string, req dto.AddPaymentRequest) (dto.PaymentResponse, error)
	Close(ctx context.Context, actor identity.Actor, bookingID string, req dto.CloseRequest) (dto.CloseResult, error)
}

type serviceImpl struct {
	repo        repository.Folio
	bookingRepo bookingRepo.Booking
	allocation  allocationService.Allocation
	rooms       roomService.Room
	storage     s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Folio, bookingRepo bookingRepo.Booking, allocation allocationService.Allocation, rooms roomService.Room, storage s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Folio {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		allocation:  allocation,
		rooms:       rooms,
		storage:     storage,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) GetFolio(ctx context.Context, actor identity.Actor, bookingID string) (res dto.FolioResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".folio.GetFolio")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, actor.TenantID, bookingID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for folio")

		return res, nil
	}

	booking, err := s.loadBooking(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	items, payments, err := s.entries(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	res.FromModels(booking, items, payments)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save folio to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) AddItem(ctx context.Context, actor identity.Actor, bookingID string, req dto.AddItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".folio.AddItem")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.openBooking(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	item, err := req.ToModel(actor, booking.ID, timezone.Now())
	if err != nil {
		return res, err
	}

	if err = s.repo.InsertItem(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to add folio item")

		return res, fmt.Errorf("failed to add folio item: %w", err)
	}

	res.FromModel(item)

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, bookingID)

	return res, nil
}

func (s *serviceImpl) AddPayment(ctx context.Context, actor identity.Actor, bookingID string, req dto.AddPaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".folio.AddPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.openBooking(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	payment, err := req.ToModel(actor, booking.ID, timezone.Now())
	if err != nil {
		return res, err
	}

	if err = s.repo.InsertPayment(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to add folio payment")

		return res, fmt.Errorf("failed to add folio payment: %w", err)
	}

	res.FromModel(payment)

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, bookingID)

	return res, nil
}

// Close completes the booking. The statement upload runs under its own budget and a
// non-zero balance is reported, neither of them can undo the close. Closing a checked-in
// booking skips check-out, so the room goes to housekeeping here on the operator's confirmation.
func (s *serviceImpl) Close(ctx context.Context, actor identity.Actor, bookingID string, req dto.CloseRequest) (res dto.CloseResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".folio.Close")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.loadBooking(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	if !bookingModel.CanClose(booking.Status) {
		return res, failure.NotClosable("folio of a " + string(booking.Status) + " booking cannot be closed") // nolint:wrapcheck
	}

	items, payments, err := s.entries(ctx, actor.TenantID, bookingID)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	from := booking.Status

	ok, err := s.bookingRepo.Transition(ctx, actor.TenantID, booking.ID, from, bookingModel.StatusCompleted, actor.ActorID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to complete booking")

		return res, fmt.Errorf("failed to complete booking: %w", err)
	}

	if !ok {
		return res, failure.NotClosable("booking changed concurrently, reload and retry") // nolint:wrapcheck
	}

	metrics.RecordTransition(bookingModel.EntityName, string(from), string(bookingModel.StatusCompleted))

	booking.Status = bookingModel.StatusCompleted
	booking.ModifiedAt = now
	booking.ModifiedBy = actor.ActorID

	res.From = from
	res.Folio.FromModels(booking, items, payments)

	url, archived := s.archive(ctx, booking, items, payments, now)
	if archived {
		res.StatementURL = url
	} else {
		res.Warnings = append(res.Warnings, warningStatementArchive)
	}

	totals := model.ComputeTotals(items, payments)
	if !totals.Balance.IsZero() {
		res.Warnings = append(res.Warnings, "folio closed with an outstanding balance of "+totals.Balance.StringFixed(2))
	}

	res.Events = []event.Event{
		event.New(event.BookingCompleted, actor.TenantID, booking.ID, actor.ActorID, now, map[string]any{
			"from": from,
		}),
		event.New(event.FolioClosed, actor.TenantID, booking.ID, actor.ActorID, now, map[string]any{
			"total_charges": res.Folio.Totals.TotalCharges,
			"total_paid":    res.Folio.Totals.TotalPaid,
			"balance":       res.Folio.Totals.Balance,
			"statement_url": res.StatementURL,
		}),
	}

	if from == bookingModel.StatusCheckedIn && req.MarkRoomDirty {
		s.markRoomDirty(ctx, actor, booking.ID, &res)
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, bookingID)

	return res, nil
}

// markRoomDirty sends the primary room of a closed stay to housekeeping. Failures are reported
// as warnings and never reopen the folio.
func (s *serviceImpl) markRoomDirty(ctx context.Context, actor identity.Actor, bookingID string, res *dto.CloseResult) {
	primary, found, err := s.allocation.PrimaryOf(ctx, actor.TenantID, bookingID)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", bookingID).Msg("failed to resolve primary room")

		res.Warnings = append(res.Warnings, "room status was not updated: primary room could not be resolved")

		return
	}

	if !found {
		return
	}

	change, err := s.rooms.SetStatus(ctx, actor, primary.RoomID, roomDto.SetStatusRequest{Status: roomModel.StatusDirty, Reason: "folio close"})
	if err != nil {
		log.Warn().Err(err).Str("room_id", primary.RoomID).Msg("room left occupied after folio close")

		res.Warnings = append(res.Warnings, fmt.Sprintf("room was not marked %s: %s", roomModel.StatusDirty, err.Error()))

		return
	}

	res.Warnings = append(res.Warnings, change.Warnings...)
	res.Events = append(res.Events, change.Events...)
}

// archive renders and uploads the statement. It reports false when either step fails or the
// upload exceeds its budget.
func (s *serviceImpl) archive(ctx context.Context, booking bookingModel.Booking, items []model.Item, payments []model.Payment, closedAt time.Time) (string, bool) {
	data, err := model.RenderStatement(model.StatementHeader{
		BookingID:    booking.ID,
		GuestName:    booking.GuestName,
		CheckInDate:  booking.CheckInDate.Format(constant.DateOnlyFormat),
		CheckOutDate: booking.CheckOutDate.Format(constant.DateOnlyFormat),
		ClosedAt:     timezone.Format(closedAt, constant.DateFormat),
	}, items, payments)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to render folio statement")

		return constant.Empty, false
	}

	directory := statementDirectory + "/" + booking.TenantID
	fileName := booking.ID + ".xlsx"

	url, degraded, err := deadline.WithFallback(ctx, deadline.Millis(s.cfg.App.Upstream.StatementUploadMs), dependencyS3, constant.Empty,
		func(ctx context.Context) (string, error) {
			return s.storage.UploadFileBytes(ctx, constant.Empty, directory, fileName, constant.ContentTypeXLSX, data) //nolint:wrapcheck
		})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to archive folio statement")

		return constant.Empty, false
	}

	return url, !degraded
}

func (s *serviceImpl) entries(ctx context.Context, tenantID, bookingID string) ([]model.Item, []model.Payment, error) {
	items, err := s.repo.GetItems(ctx, tenantID, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get folio items")

		return nil, nil, fmt.Errorf("failed to get folio items: %w", err)
	}

	payments, err := s.repo.GetPayments(ctx, tenantID, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get folio payments")

		return nil, nil, fmt.Errorf("failed to get folio payments: %w", err)
	}

	return items, payments, nil
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

// openBooking loads a booking whose folio still accepts entries.
func (s *serviceImpl) openBooking(ctx context.Context, tenantID, id string) (bookingModel.Booking, error) {
	booking, err := s.loadBooking(ctx, tenantID, id)
	if err != nil {
		return booking, err
	}

	if !bookingModel.CanAppendFolio(booking.Status) {
		return booking, failure.ActionUnavailable("folio of a " + string(booking.Status) + " booking is closed to new entries") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, tenantID, bookingID string) {
	for _, key := range []string{
		shared.BuildCacheKey(model.CacheKeyGet, tenantID, bookingID),
		shared.BuildCacheKey(bookingModel.CacheKeyGet, tenantID, bookingID),
	} {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to delete folio cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(bookingModel.CacheKeyGetAll, tenantID))
}
