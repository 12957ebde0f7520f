package dto_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingModel "stayops/internal/domains/booking/model"
	"stayops/internal/domains/folio/model"
	"stayops/internal/domains/folio/model/dto"
	"stayops/shared/constant"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"stayops/shared/timezone"
)

var staff = identity.New("tenant-a", "user-1", constant.RoleStaff)

func TestAddItemRequest_ToModel(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.AddItemRequest
		wantErr bool
	}{
		{name: "rate", req: dto.AddItemRequest{Description: "Room night", Amount: decimal.NewFromInt(250), Category: model.CategoryRate}},
		{name: "negative adjustment", req: dto.AddItemRequest{Description: "Goodwill", Amount: decimal.NewFromInt(-20), Category: model.CategoryAdjustment}},
		{name: "zero adjustment", req: dto.AddItemRequest{Description: "Noop", Amount: decimal.Zero, Category: model.CategoryAdjustment}, wantErr: true},
		{name: "negative service", req: dto.AddItemRequest{Description: "Spa", Amount: decimal.NewFromInt(-1), Category: model.CategoryService}, wantErr: true},
		{name: "unknown category", req: dto.AddItemRequest{Description: "Tip", Amount: decimal.NewFromInt(5), Category: "tip"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := tt.req.ToModel(staff, "b1", timezone.Now())

			if tt.wantErr {
				assert.Equal(t, failure.KindValidation, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "tenant-a", item.TenantID)
			assert.Equal(t, "b1", item.BookingID)
			assert.NotEmpty(t, item.ID)
		})
	}
}

func TestAddPaymentRequest_ToModel(t *testing.T) {
	_, err := (&dto.AddPaymentRequest{Amount: decimal.Zero, Method: model.MethodCash}).ToModel(staff, "b1", timezone.Now())
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	_, err = (&dto.AddPaymentRequest{Amount: decimal.NewFromInt(10), Method: "barter"}).ToModel(staff, "b1", timezone.Now())
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	payment, err := (&dto.AddPaymentRequest{Amount: decimal.NewFromInt(10), Method: model.MethodCard}).ToModel(staff, "b1", timezone.Now())
	require.NoError(t, err)
	assert.Equal(t, "user-1", payment.CreatedBy)
}

func TestFolioResponse_FromModels(t *testing.T) {
	res := dto.FolioResponse{}
	res.FromModels(bookingModel.Booking{ID: "b1", Status: bookingModel.StatusCheckedIn},
		[]model.Item{{ID: "i1", Amount: decimal.RequireFromString("99.9"), Category: model.CategoryRate}},
		[]model.Payment{{ID: "p1", Amount: decimal.RequireFromString("50"), Method: model.MethodCash}},
	)

	assert.True(t, res.Open)
	assert.Equal(t, "99.90", res.Totals.TotalCharges)
	assert.Equal(t, "50.00", res.Totals.TotalPaid)
	assert.Equal(t, "49.90", res.Totals.Balance)
	assert.Equal(t, "99.90", res.Items[0].Amount)
}
