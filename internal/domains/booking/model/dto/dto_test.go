package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayops/internal/domains/booking/model"
	"stayops/internal/domains/booking/model/dto"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/failure"
	"stayops/shared/identity"
)

var staff = identity.New("tenant-a", "user-1", constant.RoleStaff)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.CreateBookingRequest
		wantStatus model.Status
		wantErr    bool
	}{
		{
			name:       "direct booking defaults to pending",
			req:        dto.CreateBookingRequest{CheckInDate: "2026-03-10", CheckOutDate: "2026-03-12", TotalGuests: 2},
			wantStatus: model.StatusPending,
		},
		{
			name:       "walk-in starts confirmed",
			req:        dto.CreateBookingRequest{CheckInDate: "2026-03-10", CheckOutDate: "2026-03-11", TotalGuests: 1, Channel: model.ChannelWalkIn},
			wantStatus: model.StatusConfirmed,
		},
		{
			name:    "check-out before check-in",
			req:     dto.CreateBookingRequest{CheckInDate: "2026-03-10", CheckOutDate: "2026-03-09", TotalGuests: 1},
			wantErr: true,
		},
		{
			name:    "negative amount",
			req:     dto.CreateBookingRequest{CheckInDate: "2026-03-10", CheckOutDate: "2026-03-11", TotalGuests: 1, TotalAmount: decimal.NewFromInt(-5)},
			wantErr: true,
		},
		{
			name:    "malformed date",
			req:     dto.CreateBookingRequest{CheckInDate: "10-03-2026", CheckOutDate: "2026-03-11", TotalGuests: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, guests, err := tt.req.ToModel(staff)

			if tt.wantErr {
				assert.Equal(t, failure.KindValidation, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, booking.Status)
			assert.Equal(t, model.PreArrivalNone, booking.PreArrivalStatus)
			assert.Equal(t, "tenant-a", booking.TenantID)
			assert.Empty(t, guests)
		})
	}
}

func TestUpdateBookingRequest_Changes(t *testing.T) {
	current := model.Booking{
		CheckInDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	}

	t.Run("nothing to update", func(t *testing.T) {
		_, err := (&dto.UpdateBookingRequest{}).Changes(current, "user-1")
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("moving check-out keeps the stored check-in", func(t *testing.T) {
		changes, err := (&dto.UpdateBookingRequest{CheckOutDate: "2026-03-15"}).Changes(current, "user-1")
		require.NoError(t, err)
		assert.Equal(t, current.CheckInDate, changes[model.FieldCheckInDate])
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), changes[model.FieldCheckOutDate])
		assert.Equal(t, "user-1", changes[constant.FieldModifiedBy])
	})

	t.Run("moving check-in past the stored check-out", func(t *testing.T) {
		_, err := (&dto.UpdateBookingRequest{CheckInDate: "2026-03-12"}).Changes(current, "user-1")
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestBookingFilter_FromRequest(t *testing.T) {
	t.Run("legacy status is normalized", func(t *testing.T) {
		filter := dto.BookingFilter{}

		require.NoError(t, filter.FromRequest(httptest.NewRequest("GET", "/v1/bookings?status=In-House&property_id=p1", nil)))
		assert.Equal(t, model.StatusCheckedIn, filter.Status)

		filters := filter.Filters()
		require.Len(t, filters, 2)
		assert.Equal(t, model.FieldPropertyID, filters[0].(gDto.Filter).Field)
		assert.Equal(t, "checked_in", filters[1].(gDto.Filter).Value)
	})

	t.Run("unknown status", func(t *testing.T) {
		filter := dto.BookingFilter{}

		err := filter.FromRequest(httptest.NewRequest("GET", "/v1/bookings?status=vacant", nil))
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestBookingResponse_FromModel(t *testing.T) {
	res := dto.BookingResponse{}
	res.FromModel(model.Booking{
		ID:           "b1",
		CheckInDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		TotalAmount:  decimal.RequireFromString("199.5"),
		Status:       model.StatusCheckedIn,
	})

	assert.Equal(t, 3, res.Nights)
	assert.Equal(t, "199.50", res.TotalAmount)
	assert.Equal(t, "2026-03-10", res.CheckInDate)
	assert.Equal(t, []string{model.ActionCheckOut, model.ActionClose}, res.Actions)
}
