package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayops/config"
	"stayops/infras/otel/mocks"
	s3Mocks "stayops/infras/s3/mocks"
	allocationModel "stayops/internal/domains/allocation/model"
	allocationMocks "stayops/internal/domains/allocation/service/mocks"
	bookingMocks "stayops/internal/domains/booking/mocks"
	bookingModel "stayops/internal/domains/booking/model"
	folioMocks "stayops/internal/domains/folio/mocks"
	"stayops/internal/domains/folio/model"
	"stayops/internal/domains/folio/model/dto"
	"stayops/internal/domains/folio/service"
	roomModel "stayops/internal/domains/room/model"
	roomDto "stayops/internal/domains/room/model/dto"
	roomMocks "stayops/internal/domains/room/service/mocks"
	cacheMocks "stayops/shared/cache/mocks"
	"stayops/shared/constant"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
)

const (
	tenantID  = "tenant-a"
	bookingID = "5c1d7f0e-8a4b-4f6e-b3c2-7d9e1a2b3c4d"
	roomID    = "9b2f6a4e-1d7c-4c43-9a55-0e6f5d3b1a01"
)

var (
	staff  = identity.New(tenantID, "user-1", constant.RoleStaff)
	viewer = identity.New(tenantID, "user-2", constant.RoleViewer)
)

type fixture struct {
	svc        service.Folio
	repo       *folioMocks.MockFolio
	bookings   *bookingMocks.MockBooking
	allocation *allocationMocks.MockAllocation
	rooms      *roomMocks.MockRoom
	storage    *s3Mocks.MockS3
}

func newFixture(t *testing.T, uploadBudgetMs int) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.App.Upstream.StatementUploadMs = uploadBudgetMs

	f := fixture{
		repo:       folioMocks.NewMockFolio(ctrl),
		bookings:   bookingMocks.NewMockBooking(ctrl),
		allocation: allocationMocks.NewMockAllocation(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		storage:    s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, f.bookings, f.allocation, f.rooms, f.storage, cfg, mockCache, mocks.NewOtel())

	return f
}

func bookingIn(status bookingModel.Status) bookingModel.Booking {
	return bookingModel.Booking{
		ID:           bookingID,
		TenantID:     tenantID,
		GuestName:    "Ada Lovelace",
		CheckInDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
}

func entries(charged, paid string) ([]model.Item, []model.Payment) {
	return []model.Item{{ID: "i1", BookingID: bookingID, Amount: decimal.RequireFromString(charged), Category: model.CategoryRate}},
		[]model.Payment{{ID: "p1", BookingID: bookingID, Amount: decimal.RequireFromString(paid), Method: model.MethodCard}}
}

func TestFolioService_ViewerCannotMutate(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, viewer, bookingID, dto.AddItemRequest{})
	assert.True(t, failure.Is(err, failure.KindPermissionDenied))

	_, err = f.svc.AddPayment(ctx, viewer, bookingID, dto.AddPaymentRequest{})
	assert.True(t, failure.Is(err, failure.KindPermissionDenied))

	_, err = f.svc.Close(ctx, viewer, bookingID, dto.CloseRequest{})
	assert.True(t, failure.Is(err, failure.KindPermissionDenied))
}

func TestFolioService_AddItem(t *testing.T) {
	tests := []struct {
		name     string
		status   bookingModel.Status
		req      dto.AddItemRequest
		insert   bool
		wantKind failure.Kind
	}{
		{
			name:   "open folio",
			status: bookingModel.StatusCheckedIn,
			req:    dto.AddItemRequest{Description: "Room night", Amount: decimal.NewFromInt(250), Category: model.CategoryRate},
			insert: true,
		},
		{
			name:   "checked-out stays still take corrections",
			status: bookingModel.StatusCheckedOut,
			req:    dto.AddItemRequest{Description: "Goodwill", Amount: decimal.NewFromInt(-20), Category: model.CategoryAdjustment},
			insert: true,
		},
		{
			name:     "completed folio is closed",
			status:   bookingModel.StatusCompleted,
			req:      dto.AddItemRequest{Description: "Late charge", Amount: decimal.NewFromInt(10), Category: model.CategoryService},
			wantKind: failure.KindActionUnavailable,
		},
		{
			name:     "cancelled booking",
			status:   bookingModel.StatusCancelled,
			req:      dto.AddItemRequest{Description: "Fee", Amount: decimal.NewFromInt(10), Category: model.CategoryService},
			wantKind: failure.KindActionUnavailable,
		},
		{
			name:     "zero charge",
			status:   bookingModel.StatusCheckedIn,
			req:      dto.AddItemRequest{Description: "Nothing", Amount: decimal.Zero, Category: model.CategoryRate},
			wantKind: failure.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)

			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(tt.status), nil)

			if tt.insert {
				f.repo.EXPECT().InsertItem(gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := f.svc.AddItem(context.Background(), staff, bookingID, tt.req)

			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.Amount.StringFixed(2), res.Amount)
		})
	}
}

func TestFolioService_AddPaymentMissingBooking(t *testing.T) {
	f := newFixture(t, 0)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

	_, err := f.svc.AddPayment(context.Background(), staff, bookingID, dto.AddPaymentRequest{Amount: decimal.NewFromInt(10), Method: model.MethodCash})
	assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
}

func TestFolioService_GetFolio(t *testing.T) {
	f := newFixture(t, 0)

	items, payments := entries("500.00", "200.00")

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedIn), nil)
	f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
	f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)

	res, err := f.svc.GetFolio(context.Background(), viewer, bookingID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", res.Totals.Balance)
	assert.True(t, res.Open)
}

func TestFolioService_Close(t *testing.T) {
	t.Run("settled folio completes the booking", func(t *testing.T) {
		f := newFixture(t, 0)

		items, payments := entries("500.00", "500.00")

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedOut), nil)
		f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
		f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), tenantID, bookingID, bookingModel.StatusCheckedOut, bookingModel.StatusCompleted, "user-1", gomock.Any()).Return(true, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), constant.Empty, "statements/"+tenantID, bookingID+".xlsx", constant.ContentTypeXLSX, gomock.Any()).
			Return("https://files.example.com/statements/b1.xlsx", nil)

		res, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{MarkRoomDirty: true})
		require.NoError(t, err)
		assert.Equal(t, bookingModel.StatusCompleted, res.Folio.Status)
		assert.False(t, res.Folio.Open)
		assert.Equal(t, bookingModel.StatusCheckedOut, res.From)
		assert.Equal(t, "https://files.example.com/statements/b1.xlsx", res.StatementURL)
		assert.Empty(t, res.Warnings)
		require.Len(t, res.Events, 2)
		assert.Equal(t, event.BookingCompleted, res.Events[0].Type)
		assert.Equal(t, event.FolioClosed, res.Events[1].Type)
	})

	t.Run("second close is refused", func(t *testing.T) {
		f := newFixture(t, 0)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCompleted), nil)

		_, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{MarkRoomDirty: true})
		assert.Equal(t, failure.KindNotClosable, failure.GetKind(err))
	})

	t.Run("pending booking", func(t *testing.T) {
		f := newFixture(t, 0)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusPending), nil)

		_, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{MarkRoomDirty: true})
		assert.Equal(t, failure.KindNotClosable, failure.GetKind(err))
	})

	t.Run("balance and slow archive become warnings", func(t *testing.T) {
		f := newFixture(t, 20)

		items, payments := entries("500.00", "450.00")

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedIn), nil)
		f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
		f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), tenantID, bookingID, bookingModel.StatusCheckedIn, bookingModel.StatusCompleted, "user-1", gomock.Any()).Return(true, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _, _, _, _ string, _ []byte) (string, error) {
				<-ctx.Done()

				return constant.Empty, ctx.Err()
			})

		res, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{})
		require.NoError(t, err)
		assert.Empty(t, res.StatementURL)
		require.Len(t, res.Warnings, 2)
		assert.True(t, strings.Contains(res.Warnings[1], "50.00"))
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture(t, 0)

		items, payments := entries("100.00", "100.00")

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedIn), nil)
		f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
		f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), tenantID, bookingID, bookingModel.StatusCheckedIn, bookingModel.StatusCompleted, "user-1", gomock.Any()).Return(false, nil)

		_, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{MarkRoomDirty: true})
		assert.Equal(t, failure.KindNotClosable, failure.GetKind(err))
	})

	t.Run("checked-in close marks the room dirty on confirmation", func(t *testing.T) {
		f := newFixture(t, 0)

		items, payments := entries("200.00", "200.00")
		primary := allocationModel.RoomAssignment{ID: "a1", TenantID: tenantID, BookingID: bookingID, RoomID: roomID, IsPrimary: true}

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedIn), nil)
		f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
		f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), tenantID, bookingID, bookingModel.StatusCheckedIn, bookingModel.StatusCompleted, "user-1", gomock.Any()).Return(true, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://files.example.com/statements/b1.xlsx", nil)
		f.allocation.EXPECT().PrimaryOf(gomock.Any(), tenantID, bookingID).Return(primary, true, nil)
		f.rooms.EXPECT().SetStatus(gomock.Any(), staff, roomID, roomDto.SetStatusRequest{Status: roomModel.StatusDirty, Reason: "folio close"}).
			Return(roomDto.StatusChangeResponse{Events: []event.Event{{Type: event.RoomStatusChanged}}}, nil)

		res, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{MarkRoomDirty: true})
		require.NoError(t, err)
		assert.Equal(t, bookingModel.StatusCheckedIn, res.From)
		assert.Empty(t, res.Warnings)
		require.Len(t, res.Events, 3)
		assert.Equal(t, event.RoomStatusChanged, res.Events[2].Type)
	})

	t.Run("checked-in close leaves the room without confirmation", func(t *testing.T) {
		f := newFixture(t, 0)

		items, payments := entries("200.00", "200.00")

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedIn), nil)
		f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
		f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), tenantID, bookingID, bookingModel.StatusCheckedIn, bookingModel.StatusCompleted, "user-1", gomock.Any()).Return(true, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://files.example.com/statements/b1.xlsx", nil)

		res, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{})
		require.NoError(t, err)
		assert.Len(t, res.Events, 2)
	})

	t.Run("room refusal is a warning", func(t *testing.T) {
		f := newFixture(t, 0)

		items, payments := entries("200.00", "200.00")
		primary := allocationModel.RoomAssignment{ID: "a1", TenantID: tenantID, BookingID: bookingID, RoomID: roomID, IsPrimary: true}

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingIn(bookingModel.StatusCheckedIn), nil)
		f.repo.EXPECT().GetItems(gomock.Any(), tenantID, bookingID).Return(items, nil)
		f.repo.EXPECT().GetPayments(gomock.Any(), tenantID, bookingID).Return(payments, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), tenantID, bookingID, bookingModel.StatusCheckedIn, bookingModel.StatusCompleted, "user-1", gomock.Any()).Return(true, nil)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://files.example.com/statements/b1.xlsx", nil)
		f.allocation.EXPECT().PrimaryOf(gomock.Any(), tenantID, bookingID).Return(primary, true, nil)
		f.rooms.EXPECT().SetStatus(gomock.Any(), staff, roomID, gomock.Any()).
			Return(roomDto.StatusChangeResponse{}, failure.ActionUnavailable("out_of_order cannot move to dirty"))

		res, err := f.svc.Close(context.Background(), staff, bookingID, dto.CloseRequest{MarkRoomDirty: true})
		require.NoError(t, err)
		assert.Equal(t, bookingModel.StatusCompleted, res.Folio.Status)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "room was not marked dirty")
	})

	t.Run("malformed booking id is not found", func(t *testing.T) {
		f := newFixture(t, 0)

		_, err := f.svc.Close(context.Background(), staff, "abc", dto.CloseRequest{})
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}
