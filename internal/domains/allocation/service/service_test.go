package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayops/config"
	"stayops/infras/otel/mocks"
	allocationMocks "stayops/internal/domains/allocation/mocks"
	"stayops/internal/domains/allocation/model"
	"stayops/internal/domains/allocation/model/dto"
	"stayops/internal/domains/allocation/service"
	bookingMocks "stayops/internal/domains/booking/mocks"
	bookingModel "stayops/internal/domains/booking/model"
	roomMocks "stayops/internal/domains/room/mocks"
	roomModel "stayops/internal/domains/room/model"
	cacheMocks "stayops/shared/cache/mocks"
	"stayops/shared/constant"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
)

const (
	tenantID     = "tenant-a"
	bookingID    = "5c1d7f0e-8a4b-4f6e-b3c2-7d9e1a2b3c4d"
	roomID       = "9b2f6a4e-1d7c-4c43-9a55-0e6f5d3b1a01"
	assignmentID = "0e4b8f3a-6c2d-4d1e-8f7a-3b5c9d1e2f40"
	missingID    = "7a1c3e5f-2b4d-4e6f-8a0b-1c3d5e7f9a2b"
)

var (
	staff  = identity.New(tenantID, "user-1", constant.RoleStaff)
	viewer = identity.New(tenantID, "user-2", constant.RoleViewer)
	day    = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc      service.Allocation
	repo     *allocationMocks.MockAllocation
	bookings *bookingMocks.MockBooking
	rooms    *roomMocks.MockRoom
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f := fixture{
		repo:     allocationMocks.NewMockAllocation(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		rooms:    roomMocks.NewMockRoom(ctrl),
	}
	f.svc = service.New(f.repo, f.bookings, f.rooms, cfg, mockCache, mocks.NewOtel())

	return f
}

func bookingIn(status bookingModel.Status) bookingModel.Booking {
	return bookingModel.Booking{
		ID:               bookingID,
		TenantID:         tenantID,
		PropertyID:       "property-1",
		RoomTypeID:       "type-1",
		GuestName:        "Ada Lovelace",
		CheckInDate:      day,
		CheckOutDate:     day.AddDate(0, 0, 2),
		TotalGuests:      1,
		Status:           status,
		PreArrivalStatus: bookingModel.PreArrivalNone,
	}
}

func TestAllocationService_ViewerCannotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, viewer, dto.AssignRoomRequest{BookingID: bookingID, RoomID: roomID})
	assert.True(t, failure.Is(err, failure.KindPermissionDenied))

	_, err = f.svc.Unassign(ctx, viewer, "a1")
	assert.True(t, failure.Is(err, failure.KindPermissionDenied))

	_, err = f.svc.SetPrimary(ctx, viewer, "a1")
	assert.True(t, failure.Is(err, failure.KindPermissionDenied))
}

func TestAllocationService_Assign(t *testing.T) {
	existing := model.RoomAssignment{ID: "a0", TenantID: tenantID, BookingID: bookingID, RoomID: roomID, IsPrimary: true}

	tests := []struct {
		name     string
		status   bookingModel.Status
		outcome  model.AssignOutcome
		repoErr  error
		wantKind failure.Kind
	}{
		{
			name:    "first assignment",
			status:  bookingModel.StatusConfirmed,
			outcome: model.AssignOutcome{Assignment: model.RoomAssignment{ID: "a1", BookingID: bookingID, RoomID: roomID, IsPrimary: true}},
		},
		{
			name:     "identical pair returns the existing record",
			status:   bookingModel.StatusPending,
			outcome:  model.AssignOutcome{Existing: &existing},
			wantKind: failure.KindAlreadyAssigned,
		},
		{
			name:     "room held by an overlapping booking",
			status:   bookingModel.StatusConfirmed,
			outcome:  model.AssignOutcome{ConflictBookingID: "b9"},
			wantKind: failure.KindBlocked,
		},
		{
			name:     "room does not exist",
			status:   bookingModel.StatusConfirmed,
			repoErr:  fmt.Errorf("lock room: %w", sql.ErrNoRows),
			wantKind: failure.KindNotFound,
		},
		{
			name:     "terminal booking",
			status:   bookingModel.StatusCancelled,
			wantKind: failure.KindActionUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(tt.status), nil)

			if tt.status.IsLive() {
				f.repo.EXPECT().Assign(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ bookingModel.Booking, assignment model.RoomAssignment) (model.AssignOutcome, error) {
						assert.Equal(t, tenantID, assignment.TenantID)
						assert.Equal(t, "user-1", assignment.CreatedBy)

						return tt.outcome, tt.repoErr
					})
			}

			res, err := f.svc.Assign(context.Background(), staff, dto.AssignRoomRequest{BookingID: bookingID, RoomID: roomID})

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				if tt.wantKind == failure.KindAlreadyAssigned {
					details, ok := failure.GetDetails(err).(*dto.AssignmentResponse)
					require.True(t, ok)
					assert.Equal(t, "a0", details.ID)
				}

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Assignment.IsPrimary)
			require.Len(t, res.Events, 1)
			assert.Equal(t, event.RoomAssigned, res.Events[0].Type)
		})
	}
}

func TestAllocationService_AssignMissingBooking(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

	_, err := f.svc.Assign(context.Background(), staff, dto.AssignRoomRequest{BookingID: bookingID, RoomID: roomID})
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestAllocationService_Unassign(t *testing.T) {
	t.Run("promotes the successor", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Unassign(gomock.Any(), tenantID, assignmentID, "user-1", gomock.Any()).Return(model.UnassignOutcome{
			Removed:  model.RoomAssignment{ID: assignmentID, BookingID: bookingID, RoomID: roomID, IsPrimary: true},
			Promoted: &model.RoomAssignment{ID: "a2", BookingID: bookingID, RoomID: "room-2", IsPrimary: true},
		}, nil)

		res, err := f.svc.Unassign(context.Background(), staff, assignmentID)
		require.NoError(t, err)
		assert.Equal(t, assignmentID, res.Removed.ID)
		require.NotNil(t, res.Promoted)
		assert.Equal(t, "a2", res.Promoted.ID)
		require.Len(t, res.Events, 1)
		assert.Equal(t, event.RoomUnassigned, res.Events[0].Type)
		assert.Equal(t, bookingID, res.Events[0].EntityID)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Unassign(gomock.Any(), tenantID, missingID, "user-1", gomock.Any()).Return(model.UnassignOutcome{}, nil)

		_, err := f.svc.Unassign(context.Background(), staff, missingID)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Unassign(context.Background(), staff, "abc")
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestAllocationService_SetPrimary(t *testing.T) {
	t.Run("unknown assignment", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().SetPrimary(gomock.Any(), tenantID, missingID, "user-1", gomock.Any()).Return(model.RoomAssignment{}, nil)

		_, err := f.svc.SetPrimary(context.Background(), staff, missingID)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SetPrimary(context.Background(), staff, "abc")
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestAllocationService_MalformedBookingID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAssignments(context.Background(), viewer, "abc")
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))

	_, err = f.svc.Assign(context.Background(), staff, dto.AssignRoomRequest{BookingID: "abc", RoomID: roomID})
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestAllocationService_Reschedule(t *testing.T) {
	extended := bookingIn(bookingModel.StatusCheckedIn)
	extended.CheckOutDate = day.AddDate(0, 0, 30)
	changes := map[string]any{
		bookingModel.FieldCheckInDate:  extended.CheckInDate,
		bookingModel.FieldCheckOutDate: extended.CheckOutDate,
	}

	t.Run("free rooms commit the new dates", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Reschedule(gomock.Any(), extended, changes).Return(model.RescheduleOutcome{}, nil)

		assert.NoError(t, f.svc.Reschedule(context.Background(), staff, extended, changes))
	})

	t.Run("overlap on a held room is blocked", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Reschedule(gomock.Any(), extended, changes).
			Return(model.RescheduleOutcome{RoomID: roomID, ConflictBookingID: "b9"}, nil)

		err := f.svc.Reschedule(context.Background(), staff, extended, changes)
		assert.Equal(t, failure.KindBlocked, failure.GetKind(err))

		blockers, ok := failure.GetDetails(err).([]model.Blocker)
		require.True(t, ok)
		require.Len(t, blockers, 1)
		assert.Equal(t, model.BlockerRoomUnavailable, blockers[0].Code)
		assert.Equal(t, model.SeverityError, blockers[0].Severity)
		assert.Contains(t, blockers[0].Message, "b9")
	})

	t.Run("database failure is internal", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Reschedule(gomock.Any(), extended, changes).Return(model.RescheduleOutcome{}, errors.New("connection reset"))

		err := f.svc.Reschedule(context.Background(), staff, extended, changes)
		require.Error(t, err)
		assert.Equal(t, failure.KindInternal, failure.GetKind(err))
	})

	t.Run("viewer cannot reschedule", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Reschedule(context.Background(), viewer, extended, changes)
		assert.True(t, failure.Is(err, failure.KindPermissionDenied))
	})
}

func TestAllocationService_GetBlockers(t *testing.T) {
	tests := []struct {
		name        string
		assignments []model.RoomAssignment
		hasGuest    bool
		preArrival  bookingModel.PreArrivalStatus
		wantCodes   []string
		canCheckIn  bool
	}{
		{
			name:       "nothing recorded",
			preArrival: bookingModel.PreArrivalNone,
			wantCodes:  []string{model.BlockerNoRoom, model.BlockerNoPrimaryGuest},
		},
		{
			name:        "pre-arrival pending only warns",
			assignments: []model.RoomAssignment{{ID: "a1", RoomID: roomID, IsPrimary: true}},
			hasGuest:    true,
			preArrival:  bookingModel.PreArrivalPending,
			wantCodes:   []string{model.BlockerPreArrivalIncomplete},
			canCheckIn:  true,
		},
		{
			name:        "ready",
			assignments: []model.RoomAssignment{{ID: "a1", RoomID: roomID, IsPrimary: true}},
			hasGuest:    true,
			preArrival:  bookingModel.PreArrivalCompleted,
			canCheckIn:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			booking := bookingIn(bookingModel.StatusConfirmed)
			booking.PreArrivalStatus = tt.preArrival

			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			f.repo.EXPECT().ListByBooking(gomock.Any(), tenantID, bookingID).Return(tt.assignments, nil)
			f.bookings.EXPECT().HasPrimaryGuest(gomock.Any(), tenantID, bookingID).Return(tt.hasGuest, nil)

			res, err := f.svc.GetBlockers(context.Background(), viewer, bookingID)
			require.NoError(t, err)

			codes := make([]string, 0, len(res.Blockers))
			for _, blocker := range res.Blockers {
				codes = append(codes, blocker.Code)
			}

			assert.ElementsMatch(t, tt.wantCodes, codes)
			assert.Equal(t, tt.canCheckIn, res.CanCheckIn)
		})
	}
}

func TestAllocationService_ListAssignmentsResolvesPrimary(t *testing.T) {
	f := newFixture(t)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusConfirmed), nil)
	f.repo.EXPECT().ListByBooking(gomock.Any(), tenantID, bookingID).Return([]model.RoomAssignment{
		{ID: "a1", RoomID: roomID, CreatedAt: day},
		{ID: "a2", RoomID: "room-2", CreatedAt: day.Add(time.Hour)},
	}, nil)

	res, err := f.svc.ListAssignments(context.Background(), viewer, bookingID)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].IsPrimary)
	assert.False(t, res[1].IsPrimary)
}

func TestAllocationService_GetDayView(t *testing.T) {
	t.Run("invalid date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetDayView(context.Background(), viewer, "property-1", "10/03/2026")
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("builds from the snapshot", func(t *testing.T) {
		f := newFixture(t)

		arriving := bookingIn(bookingModel.StatusConfirmed)

		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			{ID: roomID, PropertyID: "property-1", RoomTypeID: "type-1", RoomNumber: "101", OperationalStatus: roomModel.StatusAvailable},
		}, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{arriving}, nil)
		f.repo.EXPECT().ListByBookings(gomock.Any(), tenantID, []string{bookingID}).Return(nil, nil)

		view, err := f.svc.GetDayView(context.Background(), viewer, "property-1", "2026-03-10")
		require.NoError(t, err)
		require.Len(t, view.Arrivals, 1)
		require.Len(t, view.Rooms, 1)
		require.NotNil(t, view.Rooms[0].SuggestedArrival)
		assert.Equal(t, bookingID, view.Rooms[0].SuggestedArrival.BookingID)
	})

	t.Run("load failure", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := f.svc.GetDayView(context.Background(), viewer, "property-1", "2026-03-10")
		assert.Error(t, err)
	})
}
