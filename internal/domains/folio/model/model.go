package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ItemTableName    = "folio_items"
	ItemEntityName   = "folio_item"
	PaymentTableName = "folio_payments"
	PaymentEntity    = "folio_payment"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldPaidAt    = "paid_at"

	CacheKeyGet = "folio:get"
)

type Category string

const (
	CategoryRate       Category = "rate"
	CategoryService    Category = "service"
	CategoryAdjustment Category = "adjustment"
)

var Categories = []Category{CategoryRate, CategoryService, CategoryAdjustment}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// AcceptsAmount reports whether amount is allowed for the category. Adjustments correct
// history and may be negative; charges must be positive.
func (c Category) AcceptsAmount(amount decimal.Decimal) bool {
	if c == CategoryAdjustment {
		return !amount.IsZero()
	}

	return amount.IsPositive()
}

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodOther        Method = "other"
)

var Methods = []Method{MethodCash, MethodCard, MethodBankTransfer, MethodOther}

func (m Method) Valid() bool {
	return slices.Contains(Methods, m)
}

type Item struct {
	ID          string          `db:"id"`
	TenantID    string          `db:"tenant_id"`
	BookingID   string          `db:"booking_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Category    Category        `db:"category"`
	CreatedAt   time.Time       `db:"created_at"`
	CreatedBy   string          `db:"created_by"`
}

type Payment struct {
	ID        string          `db:"id"`
	TenantID  string          `db:"tenant_id"`
	BookingID string          `db:"booking_id"`
	Amount    decimal.Decimal `db:"amount"`
	Method    Method          `db:"method"`
	Reference string          `db:"reference"`
	PaidAt    time.Time       `db:"paid_at"`
	CreatedBy string          `db:"created_by"`
}

type Totals struct {
	TotalCharges decimal.Decimal
	TotalPaid    decimal.Decimal
	Balance      decimal.Decimal
}

// ComputeTotals derives the balance from the entries. Nothing else stores it.
func ComputeTotals(items []Item, payments []Payment) Totals {
	totals := Totals{
		TotalCharges: decimal.Zero,
		TotalPaid:    decimal.Zero,
	}

	for _, item := range items {
		totals.TotalCharges = totals.TotalCharges.Add(item.Amount)
	}

	for _, payment := range payments {
		totals.TotalPaid = totals.TotalPaid.Add(payment.Amount)
	}

	totals.Balance = totals.TotalCharges.Sub(totals.TotalPaid)

	return totals
}
