package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayops/infras/otel"
	"stayops/infras/postgres"
	"stayops/internal/domains/booking/model"
	"stayops/shared"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	gRepo "stayops/shared/repository"
	"stayops/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Create(ctx context.Context, booking model.Booking, guests []model.Guest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Transition(ctx context.Context, tenantID, id string, from, to model.Status, actorID string, at time.Time) (bool, error)
	InsertGuest(ctx context.Context, guest model.Guest) error
	GetGuests(ctx context.Context, tenantID, bookingID string) ([]model.Guest, error)
	HasPrimaryGuest(ctx context.Context, tenantID, bookingID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	guests gRepo.Repository[model.Guest]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		guests:     gRepo.NewRepository[model.Guest](model.GuestEntity, model.GuestTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// normalize keeps stay dates as calendar days whatever zone the driver decoded them in.
func normalize(booking model.Booking) model.Booking {
	if booking.ID == constant.Empty {
		return booking
	}

	booking.CheckInDate = timezone.DateOf(booking.CheckInDate)
	booking.CheckOutDate = timezone.DateOf(booking.CheckOutDate)

	return booking
}

// Create stores the booking and its initial guests atomically.
func (r *repositoryImpl) Create(ctx context.Context, booking model.Booking, guests []model.Guest) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		if len(guests) == 0 {
			return nil
		}

		return r.guests.InsertBulkTx(ctx, tx, guests) //nolint:wrapcheck
	})
}

func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	booking, err := r.Repository.Get(ctx, filter, columns...)

	return normalize(booking), err //nolint:wrapcheck
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error) {
	bookings, err := r.Repository.GetAll(ctx, params, filter, columns...)

	for i := range bookings {
		bookings[i] = normalize(bookings[i])
	}

	return bookings, err //nolint:wrapcheck
}

// Transition moves the booking from one status to another only if it is still in from.
// It reports false when another writer got there first.
func (r *repositoryImpl) Transition(ctx context.Context, tenantID, id string, from, to model.Status, actorID string, at time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Transition")
	defer scope.End()

	filter := shared.FilterByID(tenantID, id, model.FieldID, model.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorEq,
		Value:    string(from),
		Table:    model.TableName,
	})

	affected, err := r.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        string(to),
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: actorID,
	}, filter)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to transition booking: %w", err)
	}

	return affected == 1, nil
}

// InsertGuest adds a guest; a new primary guest demotes the previous one in the same transaction.
func (r *repositoryImpl) InsertGuest(ctx context.Context, guest model.Guest) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertGuest")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !guest.IsPrimary {
		return r.guests.Insert(ctx, guest) //nolint:wrapcheck
	}

	return r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		_, err := r.guests.UpdateTx(ctx, tx, map[string]any{model.FieldIsPrimary: false}, r.guestFilter(guest.TenantID, guest.BookingID, true))
		if err != nil {
			return err //nolint:wrapcheck
		}

		return r.guests.InsertTx(ctx, tx, guest) //nolint:wrapcheck
	})
}

func (r *repositoryImpl) GetGuests(ctx context.Context, tenantID, bookingID string) ([]model.Guest, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetGuests")
	defer scope.End()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	return r.guests.GetAll(ctx, params, r.guestFilter(tenantID, bookingID, false)) //nolint:wrapcheck
}

func (r *repositoryImpl) HasPrimaryGuest(ctx context.Context, tenantID, bookingID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasPrimaryGuest")
	defer scope.End()

	return r.guests.Exist(ctx, r.guestFilter(tenantID, bookingID, true)) //nolint:wrapcheck
}

func (r *repositoryImpl) guestFilter(tenantID, bookingID string, primaryOnly bool) gDto.FilterGroup {
	filters := []any{gDto.Filter{
		Field:    model.FieldBookingID,
		Operator: gDto.FilterOperatorEq,
		Value:    bookingID,
		Table:    model.GuestTableName,
	}}

	if primaryOnly {
		filters = append(filters, gDto.Filter{
			ArgName:  "primary_guest",
			Field:    model.FieldIsPrimary,
			Operator: gDto.FilterOperatorEq,
			Value:    true,
			Table:    model.GuestTableName,
		})
	}

	return shared.FilterByTenant(tenantID, model.GuestTableName, filters...)
}
