package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayops/infras/otel"
	"stayops/infras/postgres"
	"stayops/internal/domains/room/model"
	"stayops/shared"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/logger"
	gRepo "stayops/shared/repository"

	"github.com/jmoiron/sqlx"
)

const allocatedQuery = `SELECT EXISTS(
	SELECT 1 FROM room_assignments
	JOIN bookings ON bookings.id = room_assignments.booking_id AND bookings.tenant_id = room_assignments.tenant_id
	WHERE room_assignments.tenant_id = ? AND room_assignments.room_id = ? AND bookings.status IN (?)
)`

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	InsertStatusLog(ctx context.Context, entry model.StatusLog) error
	GetStatusLogs(ctx context.Context, tenantID, roomID string) ([]model.StatusLog, error)
	IsAllocated(ctx context.Context, tenantID, roomID string, bookingStatuses []string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	statusLogs gRepo.Repository[model.StatusLog]
	db         *postgres.Connection
	otel       otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		statusLogs: gRepo.NewRepository[model.StatusLog](model.StatusLogEntity, model.StatusLogTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertStatusLog(ctx context.Context, entry model.StatusLog) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.InsertStatusLog")
	defer scope.End()

	return r.statusLogs.Insert(ctx, entry) //nolint:wrapcheck
}

// GetStatusLogs returns the audit trail of a room, newest first.
func (r *repositoryImpl) GetStatusLogs(ctx context.Context, tenantID, roomID string) ([]model.StatusLog, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetStatusLogs")
	defer scope.End()

	filter := shared.FilterByTenant(tenantID, model.StatusLogTableName, gDto.Filter{
		Field:    model.FieldRoomID,
		Operator: gDto.FilterOperatorEq,
		Value:    roomID,
		Table:    model.StatusLogTableName,
	})

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	return r.statusLogs.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// IsAllocated reports whether the room is held by an assignment of a booking in one of bookingStatuses.
func (r *repositoryImpl) IsAllocated(ctx context.Context, tenantID, roomID string, bookingStatuses []string) (allocated bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.IsAllocated")
	defer scope.End()
	defer scope.TraceIfError(err)

	if tenantID == constant.Empty {
		return false, gRepo.ErrTenantScope
	}

	query, args, err := sqlx.In(allocatedQuery, tenantID, roomID, bookingStatuses)
	if err != nil {
		return false, fmt.Errorf("failed to build allocation query: %w", err)
	}

	query = r.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.GetContext(ctx, &allocated, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check room allocation: %w", err)
	}

	return allocated, nil
}
