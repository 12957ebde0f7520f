package dto

import (
	bookingModel "stayops/internal/domains/booking/model"
	"stayops/internal/domains/folio/model"
	"stayops/shared/constant"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"stayops/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"      swaggertype:"string" example:"120.00"`
	Category    model.Category  `json:"category"    validate:"required,oneof=rate service adjustment"`
}

func (r *AddItemRequest) ToModel(actor identity.Actor, bookingID string, now time.Time) (model.Item, error) {
	if !r.Category.Valid() {
		return model.Item{}, failure.BadRequestFromString("category must be one of rate, service, adjustment") // nolint:wrapcheck
	}

	if !r.Category.AcceptsAmount(r.Amount) {
		if r.Category == model.CategoryAdjustment {
			return model.Item{}, failure.BadRequestFromString("adjustment amount must not be zero") // nolint:wrapcheck
		}

		return model.Item{}, failure.BadRequestFromString(string(r.Category) + " amount must be greater than zero") // nolint:wrapcheck
	}

	return model.Item{
		ID:          uuid.NewString(),
		TenantID:    actor.TenantID,
		BookingID:   bookingID,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		CreatedAt:   now,
		CreatedBy:   actor.ActorID,
	}, nil
}

type AddPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"    swaggertype:"string" example:"120.00"`
	Method    model.Method    `json:"method"    validate:"required,oneof=cash card bank_transfer other"`
	Reference string          `json:"reference" validate:"omitempty,max=100"`
}

func (r *AddPaymentRequest) ToModel(actor identity.Actor, bookingID string, now time.Time) (model.Payment, error) {
	if !r.Method.Valid() {
		return model.Payment{}, failure.BadRequestFromString("method must be one of cash, card, bank_transfer, other") // nolint:wrapcheck
	}

	if !r.Amount.IsPositive() {
		return model.Payment{}, failure.BadRequestFromString("payment amount must be greater than zero") // nolint:wrapcheck
	}

	return model.Payment{
		ID:        uuid.NewString(),
		TenantID:  actor.TenantID,
		BookingID: bookingID,
		Amount:    r.Amount,
		Method:    r.Method,
		Reference: r.Reference,
		PaidAt:    now,
		CreatedBy: actor.ActorID,
	}, nil
}

type ItemResponse struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	Category    model.Category `json:"category"`
	CreatedAt   string         `json:"created_at"`
	CreatedBy   string         `json:"created_by"`
}

func (r *ItemResponse) FromModel(item model.Item) {
	r.ID = item.ID
	r.Description = item.Description
	r.Amount = item.Amount.StringFixed(2)
	r.Category = item.Category
	r.CreatedAt = timezone.Format(item.CreatedAt, constant.DateFormat)
	r.CreatedBy = item.CreatedBy
}

type PaymentResponse struct {
	ID        string       `json:"id"`
	Amount    string       `json:"amount"`
	Method    model.Method `json:"method"`
	Reference string       `json:"reference,omitempty"`
	PaidAt    string       `json:"paid_at"`
	CreatedBy string       `json:"created_by"`
}

func (r *PaymentResponse) FromModel(payment model.Payment) {
	r.ID = payment.ID
	r.Amount = payment.Amount.StringFixed(2)
	r.Method = payment.Method
	r.Reference = payment.Reference
	r.PaidAt = timezone.Format(payment.PaidAt, constant.DateFormat)
	r.CreatedBy = payment.CreatedBy
}

type TotalsResponse struct {
	TotalCharges string `json:"total_charges"`
	TotalPaid    string `json:"total_paid"`
	Balance      string `json:"balance"`
}

func (r *TotalsResponse) FromModel(totals model.Totals) {
	r.TotalCharges = totals.TotalCharges.StringFixed(2)
	r.TotalPaid = totals.TotalPaid.StringFixed(2)
	r.Balance = totals.Balance.StringFixed(2)
}

type FolioResponse struct {
	BookingID string              `json:"booking_id"`
	Status    bookingModel.Status `json:"status"`
	Open      bool                `json:"open"`
	Items     []ItemResponse      `json:"items"`
	Payments  []PaymentResponse   `json:"payments"`
	Totals    TotalsResponse      `json:"totals"`
}

func (r *FolioResponse) FromModels(booking bookingModel.Booking, items []model.Item, payments []model.Payment) {
	r.BookingID = booking.ID
	r.Status = booking.Status
	r.Open = bookingModel.CanAppendFolio(booking.Status)

	r.Items = make([]ItemResponse, len(items))
	for i, item := range items {
		r.Items[i].FromModel(item)
	}

	r.Payments = make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		r.Payments[i].FromModel(payment)
	}

	r.Totals.FromModel(model.ComputeTotals(items, payments))
}

type CloseRequest struct {
	// MarkRoomDirty sends the primary room to housekeeping when the guest is still checked in.
	MarkRoomDirty bool `json:"mark_room_dirty"`
}

type CloseResult struct {
	Folio        FolioResponse       `json:"folio"`
	From         bookingModel.Status `json:"from"`
	StatementURL string              `json:"statement_url,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	Events       []event.Event       `json:"-"`
}
