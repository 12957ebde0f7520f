package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"stayops/infras/otel"
	"stayops/infras/postgres"
	"stayops/internal/domains/allocation/model"
	bookingModel "stayops/internal/domains/booking/model"
	roomModel "stayops/internal/domains/room/model"
	"stayops/shared"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/logger"
	gRepo "stayops/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	overlapQuery = `SELECT bookings.id FROM room_assignments
	JOIN bookings ON bookings.id = room_assignments.booking_id AND bookings.tenant_id = room_assignments.tenant_id
	WHERE room_assignments.tenant_id = ? AND room_assignments.room_id = ? AND bookings.id <> ?
	AND bookings.status IN (?) AND bookings.check_in_date < ? AND bookings.check_out_date > ?
	ORDER BY bookings.check_in_date, bookings.id LIMIT 1`

	// The first assignment of a booking becomes primary in the same statement that inserts it.
	insertQuery = `INSERT INTO room_assignments (id, tenant_id, booking_id, room_id, is_primary, created_at, created_by)
	VALUES (:id, :tenant_id, :booking_id, :room_id,
		NOT EXISTS (SELECT 1 FROM room_assignments WHERE tenant_id = :tenant_id AND booking_id = :booking_id AND is_primary),
		:created_at, :created_by)
	RETURNING is_primary`

	setPrimaryQuery = `UPDATE room_assignments SET is_primary = (id = :id) WHERE tenant_id = :tenant_id AND booking_id = :booking_id`

	assignedRoomQuery = `UPDATE bookings SET assigned_room_id = :room_id, modified_at = :modified_at, modified_by = :modified_by
	WHERE tenant_id = :tenant_id AND id = :booking_id`
)

type Allocation interface {
	Assign(ctx context.Context, booking bookingModel.Booking, assignment model.RoomAssignment) (model.AssignOutcome, error)
	Unassign(ctx context.Context, tenantID, assignmentID, actorID string, at time.Time) (model.UnassignOutcome, error)
	SetPrimary(ctx context.Context, tenantID, assignmentID, actorID string, at time.Time) (model.RoomAssignment, error)
	Reschedule(ctx context.Context, booking bookingModel.Booking, changes map[string]any) (model.RescheduleOutcome, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomAssignment, error)
	ListByBooking(ctx context.Context, tenantID, bookingID string) ([]model.RoomAssignment, error)
	ListByBookings(ctx context.Context, tenantID string, bookingIDs []string) ([]model.RoomAssignment, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomAssignment]
	rooms    gRepo.Repository[roomModel.Room]
	bookings gRepo.Repository[bookingModel.Booking]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Allocation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomAssignment](model.EntityName, model.TableName, model.FieldID, db, otel),
		rooms:      gRepo.NewRepository[roomModel.Room](roomModel.EntityName, roomModel.TableName, roomModel.FieldID, db, otel),
		bookings:   gRepo.NewRepository[bookingModel.Booking](bookingModel.EntityName, bookingModel.TableName, bookingModel.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Assign binds a room to a booking. The room row stays locked until commit, so two bookings
// racing for the same room are serialised and the second one sees the first as a conflict.
func (r *repositoryImpl) Assign(ctx context.Context, booking bookingModel.Booking, assignment model.RoomAssignment) (outcome model.AssignOutcome, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".allocation.Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		room, err := r.rooms.GetTx(ctx, tx, shared.FilterByID(assignment.TenantID, assignment.RoomID, roomModel.FieldID, roomModel.TableName), true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if room.ID == constant.Empty {
			return sql.ErrNoRows
		}

		existing, err := r.GetTx(ctx, tx, r.pairFilter(assignment.TenantID, assignment.BookingID, assignment.RoomID), false)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if existing.ID != constant.Empty {
			outcome.Existing = &existing

			return nil
		}

		conflict, err := r.overlapping(ctx, tx, booking, assignment.RoomID)
		if err != nil {
			return err
		}

		if conflict != constant.Empty {
			outcome.ConflictBookingID = conflict

			return nil
		}

		if assignment.IsPrimary, err = r.insert(ctx, tx, assignment); err != nil {
			return err
		}

		if assignment.IsPrimary {
			if err = r.setAssignedRoom(ctx, tx, assignment.TenantID, assignment.BookingID, &assignment.RoomID, assignment.CreatedBy, assignment.CreatedAt); err != nil {
				return err
			}
		}

		outcome.Assignment = assignment

		return nil
	})
	if err != nil {
		return model.AssignOutcome{}, err //nolint:wrapcheck
	}

	return outcome, nil
}

func (r *repositoryImpl) overlapping(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking, roomID string) (string, error) {
	query, args, err := sqlx.In(overlapQuery, booking.TenantID, roomID, booking.ID, bookingModel.LiveStatusValues(), booking.CheckOutDate, booking.CheckInDate)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to build overlap query: %w", err)
	}

	var bookingID string

	err = tx.GetContext(ctx, &bookingID, tx.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return constant.Empty, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return constant.Empty, fmt.Errorf("failed to check overlapping assignments: %w", err)
	}

	return bookingID, nil
}

func (r *repositoryImpl) insert(ctx context.Context, tx *sqlx.Tx, assignment model.RoomAssignment) (bool, error) {
	stmt, err := tx.PrepareNamedContext(ctx, insertQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	var primary bool

	if err = stmt.GetContext(ctx, &primary, assignment); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to insert assignment: %w", err)
	}

	return primary, nil
}

func (r *repositoryImpl) setAssignedRoom(ctx context.Context, tx *sqlx.Tx, tenantID, bookingID string, roomID *string, actorID string, at time.Time) error {
	_, err := tx.NamedExecContext(ctx, assignedRoomQuery, map[string]any{
		"room_id":     roomID,
		"modified_at": at,
		"modified_by": actorID,
		"tenant_id":   tenantID,
		"booking_id":  bookingID,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update booking room: %w", err)
	}

	return nil
}

func (r *repositoryImpl) flipPrimary(ctx context.Context, tx *sqlx.Tx, primary model.RoomAssignment) error {
	_, err := tx.NamedExecContext(ctx, setPrimaryQuery, map[string]any{
		"id":         primary.ID,
		"tenant_id":  primary.TenantID,
		"booking_id": primary.BookingID,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to set primary assignment: %w", err)
	}

	return nil
}

// Unassign removes an assignment. Removing the primary promotes the oldest remaining one.
// An assignment missing in the tenant yields a zero outcome.
func (r *repositoryImpl) Unassign(ctx context.Context, tenantID, assignmentID, actorID string, at time.Time) (outcome model.UnassignOutcome, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".allocation.Unassign")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		removed, err := r.GetTx(ctx, tx, shared.FilterByID(tenantID, assignmentID, model.FieldID, model.TableName), true)
		if err != nil || removed.ID == constant.Empty {
			return err //nolint:wrapcheck
		}

		if _, err = r.DeleteTx(ctx, tx, shared.FilterByID(tenantID, assignmentID, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		outcome.Removed = removed

		if !removed.IsPrimary {
			return nil
		}

		remaining, err := r.GetAllTx(ctx, tx, gDto.QueryParams{}, r.bookingFilter(tenantID, removed.BookingID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		successor, found := model.Oldest(remaining)
		if !found {
			return r.setAssignedRoom(ctx, tx, tenantID, removed.BookingID, nil, actorID, at)
		}

		if err = r.flipPrimary(ctx, tx, successor); err != nil {
			return err
		}

		successor.IsPrimary = true
		outcome.Promoted = &successor

		return r.setAssignedRoom(ctx, tx, tenantID, removed.BookingID, &successor.RoomID, actorID, at)
	})
	if err != nil {
		return model.UnassignOutcome{}, err //nolint:wrapcheck
	}

	return outcome, nil
}

// SetPrimary flags one assignment primary and clears the others of its booking in a single UPDATE.
func (r *repositoryImpl) SetPrimary(ctx context.Context, tenantID, assignmentID, actorID string, at time.Time) (primary model.RoomAssignment, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".allocation.SetPrimary")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		target, err := r.GetTx(ctx, tx, shared.FilterByID(tenantID, assignmentID, model.FieldID, model.TableName), true)
		if err != nil || target.ID == constant.Empty {
			return err //nolint:wrapcheck
		}

		if err = r.flipPrimary(ctx, tx, target); err != nil {
			return err
		}

		target.IsPrimary = true
		primary = target

		return r.setAssignedRoom(ctx, tx, tenantID, target.BookingID, &target.RoomID, actorID, at)
	})
	if err != nil {
		return model.RoomAssignment{}, err //nolint:wrapcheck
	}

	return primary, nil
}

// Reschedule writes changes, which carry the new stay dates of booking, after checking every room
// the booking holds against the new window. Rooms are locked in id order, the same lock Assign
// takes, so a date change and a concurrent assignment of the room are serialised. On a conflict
// nothing is written and the outcome names the room and the booking holding it.
func (r *repositoryImpl) Reschedule(ctx context.Context, booking bookingModel.Booking, changes map[string]any) (outcome model.RescheduleOutcome, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".allocation.Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		params := gDto.QueryParams{SortBy: model.FieldRoomID, SortDir: gDto.SortDirAsc}

		assignments, err := r.GetAllTx(ctx, tx, params, r.bookingFilter(booking.TenantID, booking.ID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		for _, assignment := range assignments {
			roomFilter := shared.FilterByID(booking.TenantID, assignment.RoomID, roomModel.FieldID, roomModel.TableName)
			if _, err = r.rooms.GetTx(ctx, tx, roomFilter, true); err != nil {
				return err //nolint:wrapcheck
			}

			var conflict string

			if conflict, err = r.overlapping(ctx, tx, booking, assignment.RoomID); err != nil {
				return err
			}

			if conflict != constant.Empty {
				outcome = model.RescheduleOutcome{RoomID: assignment.RoomID, ConflictBookingID: conflict}

				return nil
			}
		}

		_, err = r.bookings.UpdateTx(ctx, tx, changes, shared.FilterByID(booking.TenantID, booking.ID, bookingModel.FieldID, bookingModel.TableName))

		return err //nolint:wrapcheck
	})
	if err != nil {
		return model.RescheduleOutcome{}, err //nolint:wrapcheck
	}

	return outcome, nil
}

func (r *repositoryImpl) ListByBooking(ctx context.Context, tenantID, bookingID string) ([]model.RoomAssignment, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".allocation.ListByBooking")
	defer scope.End()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, r.bookingFilter(tenantID, bookingID)) //nolint:wrapcheck
}

func (r *repositoryImpl) ListByBookings(ctx context.Context, tenantID string, bookingIDs []string) ([]model.RoomAssignment, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".allocation.ListByBookings")
	defer scope.End()

	if len(bookingIDs) == 0 {
		return []model.RoomAssignment{}, nil
	}

	filter := shared.FilterByTenant(tenantID, model.TableName, gDto.Filter{
		Field:    model.FieldBookingID,
		Operator: gDto.FilterOperatorIn,
		Value:    bookingIDs,
		Table:    model.TableName,
	})

	return r.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) bookingFilter(tenantID, bookingID string) gDto.FilterGroup {
	return shared.FilterByTenant(tenantID, model.TableName, gDto.Filter{
		Field:    model.FieldBookingID,
		Operator: gDto.FilterOperatorEq,
		Value:    bookingID,
		Table:    model.TableName,
	})
}

func (r *repositoryImpl) pairFilter(tenantID, bookingID, roomID string) gDto.FilterGroup {
	filter := r.bookingFilter(tenantID, bookingID)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldRoomID,
		Operator: gDto.FilterOperatorEq,
		Value:    roomID,
		Table:    model.TableName,
	})

	return filter
}
