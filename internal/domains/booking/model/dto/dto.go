package dto

import (
	"net/http"
	"stayops/internal/domains/booking/model"
	"stayops/shared"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/event"
	"stayops/shared/failure"
	"stayops/shared/identity"
	gModel "stayops/shared/model"
	"stayops/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GuestRequest struct {
	FullName  string `json:"full_name"  validate:"required,max=150"`
	Email     string `json:"email"      validate:"omitempty,email,max=150"`
	Phone     string `json:"phone"      validate:"omitempty,max=30"`
	IsPrimary bool   `json:"is_primary"`
}

func (g *GuestRequest) ToModel(actor identity.Actor, bookingID string, now time.Time) model.Guest {
	return model.Guest{
		ID:        uuid.NewString(),
		TenantID:  actor.TenantID,
		BookingID: bookingID,
		FullName:  g.FullName,
		Email:     g.Email,
		Phone:     g.Phone,
		IsPrimary: g.IsPrimary,
		CreatedAt: now,
		CreatedBy: actor.ActorID,
	}
}

type CreateBookingRequest struct {
	PropertyID   string          `json:"property_id"    validate:"required,uuid"`
	RoomTypeID   string          `json:"room_type_id"   validate:"required,uuid"`
	GuestName    string          `json:"guest_name"     validate:"required,max=150"`
	GuestContact string          `json:"guest_contact"  validate:"omitempty,max=150"`
	CheckInDate  string          `json:"check_in_date"  validate:"required,date_only"`
	CheckOutDate string          `json:"check_out_date" validate:"required,date_only"`
	TotalGuests  int             `json:"total_guests"   validate:"required,min=1,max=50"`
	TotalAmount  decimal.Decimal `json:"total_amount"   swaggertype:"string"`
	Channel      model.Channel   `json:"channel"        validate:"omitempty,oneof=direct phone website ota walk_in"`
	PrimaryGuest *GuestRequest   `json:"primary_guest"  validate:"omitempty"`
}

// ToModel rejects stays whose check-out is not after check-in. The primary guest, when
// given, is returned alongside and always flagged primary.
func (c *CreateBookingRequest) ToModel(actor identity.Actor) (model.Booking, []model.Guest, error) {
	checkIn, checkOut, err := parseStay(c.CheckInDate, c.CheckOutDate)
	if err != nil {
		return model.Booking{}, nil, err
	}

	if c.TotalAmount.IsNegative() {
		return model.Booking{}, nil, failure.BadRequestFromString("total_amount must not be negative") // nolint:wrapcheck
	}

	now := timezone.Now()

	channel := c.Channel
	if channel == constant.Empty {
		channel = model.ChannelDirect
	}

	booking := model.Booking{
		ID:               uuid.NewString(),
		TenantID:         actor.TenantID,
		PropertyID:       c.PropertyID,
		RoomTypeID:       c.RoomTypeID,
		GuestName:        c.GuestName,
		GuestContact:     c.GuestContact,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		TotalGuests:      c.TotalGuests,
		TotalAmount:      c.TotalAmount,
		Status:           model.InitialStatus(channel),
		Channel:          channel,
		PreArrivalStatus: model.PreArrivalNone,
		Metadata:         gModel.NewMetadata(actor.ActorID, now),
	}

	guests := []model.Guest{}

	if c.PrimaryGuest != nil {
		guest := c.PrimaryGuest.ToModel(actor, booking.ID, now)
		guest.IsPrimary = true

		guests = append(guests, guest)
	}

	return booking, guests, nil
}

func parseStay(checkInValue, checkOutValue string) (time.Time, time.Time, error) {
	checkIn, err := timezone.ParseDate(checkInValue)
	if err != nil {
		return checkIn, checkIn, failure.BadRequest(err) // nolint:wrapcheck
	}

	checkOut, err := timezone.ParseDate(checkOutValue)
	if err != nil {
		return checkIn, checkOut, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return checkIn, checkOut, failure.BadRequestFromString("check_out_date must be after check_in_date") // nolint:wrapcheck
	}

	return checkIn, checkOut, nil
}

type UpdateBookingRequest struct {
	GuestName    string           `json:"guest_name"     validate:"omitempty,max=150"`
	GuestContact string           `json:"guest_contact"  validate:"omitempty,max=150"`
	CheckInDate  string           `json:"check_in_date"  validate:"omitempty,date_only"`
	CheckOutDate string           `json:"check_out_date" validate:"omitempty,date_only"`
	TotalGuests  *int             `json:"total_guests"   validate:"omitempty,min=1,max=50"`
	TotalAmount  *decimal.Decimal `json:"total_amount"   swaggertype:"string"`
}

// Changes validates the request against the stored booking and returns the columns to update.
// Dates missing from the request keep their stored value, so a partial update cannot
// leave check-out on or before check-in.
func (u *UpdateBookingRequest) Changes(current model.Booking, actorID string) (map[string]any, error) {
	changes := map[string]any{}

	if u.GuestName != constant.Empty {
		changes[model.FieldGuestName] = u.GuestName
	}

	if u.GuestContact != constant.Empty {
		changes[model.FieldGuestContact] = u.GuestContact
	}

	if u.TotalGuests != nil {
		changes[model.FieldTotalGuests] = *u.TotalGuests
	}

	if u.TotalAmount != nil {
		if u.TotalAmount.IsNegative() {
			return nil, failure.BadRequestFromString("total_amount must not be negative") // nolint:wrapcheck
		}

		changes[model.FieldTotalAmount] = *u.TotalAmount
	}

	if u.CheckInDate != constant.Empty || u.CheckOutDate != constant.Empty {
		checkInValue := u.CheckInDate
		if checkInValue == constant.Empty {
			checkInValue = current.CheckInDate.Format(constant.DateOnlyFormat)
		}

		checkOutValue := u.CheckOutDate
		if checkOutValue == constant.Empty {
			checkOutValue = current.CheckOutDate.Format(constant.DateOnlyFormat)
		}

		checkIn, checkOut, err := parseStay(checkInValue, checkOutValue)
		if err != nil {
			return nil, err
		}

		changes[model.FieldCheckInDate] = checkIn
		changes[model.FieldCheckOutDate] = checkOut
	}

	if len(changes) == 0 {
		return nil, failure.BadRequestFromString("nothing to update") // nolint:wrapcheck
	}

	changes[constant.FieldModifiedAt] = timezone.Now()
	changes[constant.FieldModifiedBy] = actorID

	return changes, nil
}

type CheckOutRequest struct {
	// MarkRoomDirty is the operator's confirmation to send the vacated room to housekeeping.
	MarkRoomDirty bool `json:"mark_room_dirty"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// BookingFilter holds the optional list filters. Status accepts legacy spellings.
type BookingFilter struct {
	PropertyID  string
	RoomTypeID  string
	Status      model.Status
	CheckInDate string
}

func (f *BookingFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.PropertyID = query.Get(model.FieldPropertyID)
	f.RoomTypeID = query.Get(model.FieldRoomTypeID)
	f.CheckInDate = query.Get(model.FieldCheckInDate)

	if raw := query.Get(model.FieldStatus); raw != constant.Empty {
		status, err := model.NormalizeLegacyStatus(raw)
		if err != nil {
			return failure.BadRequest(err) // nolint:wrapcheck
		}

		f.Status = status
	}

	if f.CheckInDate != constant.Empty {
		if _, err := timezone.ParseDate(f.CheckInDate); err != nil {
			return failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	return nil
}

func (f *BookingFilter) Filters() []any {
	filters := []any{}

	for _, pair := range [][2]string{
		{model.FieldPropertyID, f.PropertyID},
		{model.FieldRoomTypeID, f.RoomTypeID},
		{model.FieldStatus, string(f.Status)},
		{model.FieldCheckInDate, f.CheckInDate},
	} {
		if pair[1] == constant.Empty {
			continue
		}

		filters = append(filters, gDto.Filter{
			Field:    pair[0],
			Operator: gDto.FilterOperatorEq,
			Value:    pair[1],
			Table:    model.TableName,
		})
	}

	return filters
}

type BookingResponse struct {
	ID               string                 `json:"id"`
	PropertyID       string                 `json:"property_id"`
	RoomTypeID       string                 `json:"room_type_id"`
	GuestName        string                 `json:"guest_name"`
	GuestContact     string                 `json:"guest_contact"`
	CheckInDate      string                 `json:"check_in_date"`
	CheckOutDate     string                 `json:"check_out_date"`
	Nights           int                    `json:"nights"`
	TotalGuests      int                    `json:"total_guests"`
	TotalAmount      string                 `json:"total_amount"`
	Status           model.Status           `json:"status"`
	Channel          model.Channel          `json:"channel"`
	AssignedRoomID   *string                `json:"assigned_room_id"`
	PreArrivalStatus model.PreArrivalStatus `json:"pre_arrival_status"`
	Actions          []string               `json:"actions"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.PropertyID = booking.PropertyID
	r.RoomTypeID = booking.RoomTypeID
	r.GuestName = booking.GuestName
	r.GuestContact = booking.GuestContact
	r.CheckInDate = booking.CheckInDate.Format(constant.DateOnlyFormat)
	r.CheckOutDate = booking.CheckOutDate.Format(constant.DateOnlyFormat)
	r.Nights = booking.Nights()
	r.TotalGuests = booking.TotalGuests
	r.TotalAmount = booking.TotalAmount.StringFixed(2)
	r.Status = booking.Status
	r.Channel = booking.Channel
	r.AssignedRoomID = booking.AssignedRoomID
	r.PreArrivalStatus = booking.PreArrivalStatus
	r.Actions = model.Actions(booking.Status)
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingResult is returned by mutating lifecycle operations. Events are dispatched by the
// caller after the response is written.
type BookingResult struct {
	Booking  BookingResponse `json:"booking"`
	From     model.Status    `json:"from,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
	Events   []event.Event   `json:"-"`
}

type GuestResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	CreatedAt string `json:"created_at"`
}

func (r *GuestResponse) FromModel(guest model.Guest) {
	r.ID = guest.ID
	r.BookingID = guest.BookingID
	r.FullName = guest.FullName
	r.Email = guest.Email
	r.Phone = guest.Phone
	r.IsPrimary = guest.IsPrimary
	r.CreatedAt = timezone.Format(guest.CreatedAt, constant.DateFormat)
}

func FromGuests(models []model.Guest) []GuestResponse {
	res := make([]GuestResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
