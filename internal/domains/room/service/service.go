package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayops/config"
	"stayops/infras/otel"
	bookingModel "stayops/internal/domains/booking/model"
	"stayops/internal/domains/room/model"
	"stayops/internal/domains/room/model/dto"
	"stayops/internal/domains/room/repository"
	"stayops/shared"
	"stayops/shared/cache"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"stayops/shared/metrics"
	gRepo "stayops/shared/repository"
	"stayops/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"

	warningStatusLog = "status changed but the audit log entry could not be written"
)

type Room interface {
	Create(ctx context.Context, actor identity.Actor, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, actor identity.Actor, params gDto.QueryParams, filter dto.RoomFilter) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, actor identity.Actor, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, actor identity.Actor, id string, req dto.UpdateRoomRequest) error
	Delete(ctx context.Context, actor identity.Actor, id string) error
	SetStatus(ctx context.Context, actor identity.Actor, id string, req dto.SetStatusRequest) (dto.StatusChangeResponse, error)
	GetStatusLog(ctx context.Context, actor identity.Actor, id string) ([]dto.StatusLogResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, actor identity.Actor, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	room := req.ToModel(actor)

	if err = s.repo.Insert(ctx, room); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.BadRequestFromString("room_number already exists in this property") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	res.FromModel(room)

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, actor identity.Actor, params gDto.QueryParams, filter dto.RoomFilter) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	group := shared.FilterByTenant(actor.TenantID, model.TableName, filter.Filters()...)
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllRoom, actor.TenantID), params, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.count(ctx, actor.TenantID, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	if params.SortBy == constant.Empty {
		params.SortBy, params.SortDir = model.FieldRoomNumber, gDto.SortDirAsc
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, tenantID string, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheCountRoom, tenantID), params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, actor identity.Actor, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetRoom, actor.TenantID, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, actor identity.Actor, id string, req dto.UpdateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err = s.load(ctx, actor.TenantID, id); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, actor.ActorID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(actor.TenantID, id, model.FieldID, model.TableName)); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return failure.BadRequestFromString("room_number already exists in this property") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return nil
}

// Delete refuses rooms still held by an assignment of a live booking.
func (s *serviceImpl) Delete(ctx context.Context, actor identity.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return err //nolint:wrapcheck
	}

	room, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}

	allocated, err := s.repo.IsAllocated(ctx, actor.TenantID, id, bookingModel.LiveStatusValues())
	if err != nil {
		log.Error().Err(err).Msg("failed to check room allocation")

		return fmt.Errorf("failed to check room allocation: %w", err)
	}

	if allocated {
		return failure.ActionUnavailable("room " + room.RoomNumber + " is assigned to an active booking") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(actor.TenantID, id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return nil
}

// SetStatus moves a room along the operational graph. The update is conditional on the
// status read, so a concurrent change surfaces as action_unavailable instead of being overwritten.
// A failed audit write is returned as a warning; the status change stands.
func (s *serviceImpl) SetStatus(ctx context.Context, actor identity.Actor, id string, req dto.SetStatusRequest) (res dto.StatusChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireMutation(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if !req.Status.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown room status %q", req.Status)) // nolint:wrapcheck
	}

	room, err := s.load(ctx, actor.TenantID, id)
	if err != nil {
		return res, err
	}

	from := room.OperationalStatus
	if !model.CanTransition(from, req.Status) {
		return res, failure.ActionUnavailable(fmt.Sprintf("room %s cannot move from %s to %s", room.RoomNumber, from, req.Status)) // nolint:wrapcheck
	}

	now := timezone.Now()

	filter := shared.FilterByID(actor.TenantID, id, model.FieldID, model.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldOperationalStatus,
		Operator: gDto.FilterOperatorEq,
		Value:    string(from),
		Table:    model.TableName,
	})

	affected, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldOperationalStatus: string(req.Status),
		constant.FieldModifiedAt:     now,
		constant.FieldModifiedBy:     actor.ActorID,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update room status")

		return res, fmt.Errorf("failed to update room status: %w", err)
	}

	if affected == 0 {
		return res, failure.ActionUnavailable("room " + room.RoomNumber + " changed status concurrently, reload and retry") // nolint:wrapcheck
	}

	metrics.RecordTransition(model.EntityName, string(from), string(req.Status))

	room.OperationalStatus = req.Status
	room.ModifiedAt = now
	room.ModifiedBy = actor.ActorID

	res.Room.FromModel(room)
	res.From = from

	entry := model.StatusLog{
		ID:        uuid.NewString(),
		TenantID:  actor.TenantID,
		RoomID:    room.ID,
		OldStatus: from,
		NewStatus: req.Status,
		ActorID:   actor.ActorID,
		Reason:    req.Reason,
		CreatedAt: now,
	}

	if logErr := s.repo.InsertStatusLog(ctx, entry); logErr != nil {
		log.Warn().Err(logErr).Str("room_id", room.ID).Str("from", string(from)).Str("to", string(req.Status)).Msg("failed to write room status log")

		res.Warnings = append(res.Warnings, warningStatusLog)
	}

	res.Events = []event.Event{
		event.New(event.RoomStatusChanged, actor.TenantID, room.ID, actor.ActorID, now, map[string]any{
			"room_number": room.RoomNumber,
			"from":        from,
			"to":          req.Status,
			"reason":      req.Reason,
		}),
	}

	go s.invalidate(context.WithoutCancel(ctx), actor.TenantID, id)

	return res, nil
}

func (s *serviceImpl) GetStatusLog(ctx context.Context, actor identity.Actor, id string) (res []dto.StatusLogResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetStatusLog")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = actor.RequireRead(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.load(ctx, actor.TenantID, id); err != nil {
		return res, err
	}

	entries, err := s.repo.GetStatusLogs(ctx, actor.TenantID, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room status log")

		return res, fmt.Errorf("failed to get room status log: %w", err)
	}

	return dto.FromStatusLogs(entries), nil
}

// load reads the room within the tenant; rooms of other tenants are reported as not found.
func (s *serviceImpl) load(ctx context.Context, tenantID, id string) (model.Room, error) {
	if uuid.Validate(id) != nil {
		return model.Room{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(tenantID, id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, tenantID, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, tenantID, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheGetAllRoom, tenantID))
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheCountRoom, tenantID))
}
