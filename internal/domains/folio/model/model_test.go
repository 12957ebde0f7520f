package model_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stayops/internal/domains/folio/model"
)

func amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.Item
		payments []model.Payment
		charges  string
		paid     string
		balance  string
	}{
		{
			name:    "empty folio",
			charges: "0",
			paid:    "0",
			balance: "0",
		},
		{
			name: "settled",
			items: []model.Item{
				{Amount: amount("300.00"), Category: model.CategoryRate},
				{Amount: amount("200.00"), Category: model.CategoryService},
			},
			payments: []model.Payment{{Amount: amount("500.00")}},
			charges:  "500",
			paid:     "500",
			balance:  "0",
		},
		{
			name: "adjustment corrects a charge",
			items: []model.Item{
				{Amount: amount("120.00"), Category: model.CategoryRate},
				{Amount: amount("-20.00"), Category: model.CategoryAdjustment},
			},
			payments: []model.Payment{{Amount: amount("50.00")}},
			charges:  "100",
			paid:     "50",
			balance:  "50",
		},
		{
			name:     "cents add up exactly",
			items:    []model.Item{{Amount: amount("0.10")}, {Amount: amount("0.20")}},
			payments: []model.Payment{{Amount: amount("0.30")}},
			charges:  "0.3",
			paid:     "0.3",
			balance:  "0",
		},
		{
			name:     "overpaid",
			items:    []model.Item{{Amount: amount("80.00")}},
			payments: []model.Payment{{Amount: amount("100.00")}},
			charges:  "80",
			paid:     "100",
			balance:  "-20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := model.ComputeTotals(tt.items, tt.payments)

			assert.True(t, totals.TotalCharges.Equal(amount(tt.charges)), "charges %s", totals.TotalCharges)
			assert.True(t, totals.TotalPaid.Equal(amount(tt.paid)), "paid %s", totals.TotalPaid)
			assert.True(t, totals.Balance.Equal(amount(tt.balance)), "balance %s", totals.Balance)
			assert.True(t, totals.Balance.Equal(totals.TotalCharges.Sub(totals.TotalPaid)))

			again := model.ComputeTotals(tt.items, tt.payments)
			assert.True(t, again.Balance.Equal(totals.Balance))
		})
	}
}

func TestCategory_AcceptsAmount(t *testing.T) {
	assert.True(t, model.CategoryRate.AcceptsAmount(amount("1")))
	assert.False(t, model.CategoryRate.AcceptsAmount(amount("0")))
	assert.False(t, model.CategoryService.AcceptsAmount(amount("-5")))
	assert.True(t, model.CategoryAdjustment.AcceptsAmount(amount("-5")))
	assert.False(t, model.CategoryAdjustment.AcceptsAmount(decimal.Zero))
	assert.False(t, model.Category("discount").Valid())
	assert.True(t, model.MethodBankTransfer.Valid())
	assert.False(t, model.Method("crypto").Valid())
}

func TestRenderStatement(t *testing.T) {
	at := time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC)

	data, err := model.RenderStatement(model.StatementHeader{
		BookingID:    "b1",
		GuestName:    "Ada Lovelace",
		CheckInDate:  "2026-03-10",
		CheckOutDate: "2026-03-12",
		ClosedAt:     "2026-03-12 10:30:00",
	}, []model.Item{
		{Description: "Room night", Amount: amount("250"), Category: model.CategoryRate, CreatedAt: at},
		{Description: "Minibar", Amount: amount("12.5"), Category: model.CategoryService, CreatedAt: at},
	}, []model.Payment{
		{Amount: amount("200"), Method: model.MethodCard, Reference: "auth-991", PaidAt: at},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows("Statement")
	require.NoError(t, err)

	assert.Equal(t, []string{"Booking", "b1"}, rows[0])
	assert.Equal(t, "Date", rows[5][0])
	assert.Equal(t, "250.00", rows[6][4])
	assert.Equal(t, "-200.00", rows[8][4])

	last := rows[len(rows)-1]
	assert.Equal(t, "Balance", last[3])
	assert.Equal(t, "62.50", last[4])
}
