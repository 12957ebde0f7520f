package model

import (
	"fmt"
	"slices"
	"stayops/shared/model"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName      = "bookings"
	EntityName     = "booking"
	GuestTableName = "booking_guests"
	GuestEntity    = "booking_guest"

	FieldID               = "id"
	FieldPropertyID       = "property_id"
	FieldRoomTypeID       = "room_type_id"
	FieldGuestName        = "guest_name"
	FieldGuestContact     = "guest_contact"
	FieldCheckInDate      = "check_in_date"
	FieldCheckOutDate     = "check_out_date"
	FieldTotalGuests      = "total_guests"
	FieldTotalAmount      = "total_amount"
	FieldStatus           = "status"
	FieldAssignedRoomID   = "assigned_room_id"
	FieldPreArrivalStatus = "pre_arrival_status"
	FieldBookingID        = "booking_id"
	FieldIsPrimary        = "is_primary"
)

const (
	CacheKeyGet    = "booking:get"
	CacheKeyGetAll = "booking:gets"
	CacheKeyCount  = "booking:count"
)

// Status is the single booking lifecycle enum. Legacy values enter through NormalizeLegacyStatus.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCheckedOut,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// LiveStatuses hold a room: the guest is expected or in house.
var LiveStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) IsLive() bool {
	return slices.Contains(LiveStatuses, s)
}

func (s Status) IsTerminal() bool {
	return s.Valid() && !s.IsLive()
}

// LiveStatusValues is LiveStatuses as query arguments.
func LiveStatusValues() []string {
	values := make([]string, len(LiveStatuses))
	for i, status := range LiveStatuses {
		values[i] = string(status)
	}

	return values
}

var legacyStatuses = map[string]Status{
	"pending":     StatusPending,
	"new":         StatusPending,
	"tentative":   StatusPending,
	"hold":        StatusPending,
	"on_hold":     StatusPending,
	"confirmed":   StatusConfirmed,
	"booked":      StatusConfirmed,
	"reserved":    StatusConfirmed,
	"guaranteed":  StatusConfirmed,
	"checked_in":  StatusCheckedIn,
	"checkedin":   StatusCheckedIn,
	"check_in":    StatusCheckedIn,
	"in_house":    StatusCheckedIn,
	"inhouse":     StatusCheckedIn,
	"arrived":     StatusCheckedIn,
	"checked_out": StatusCheckedOut,
	"checkedout":  StatusCheckedOut,
	"check_out":   StatusCheckedOut,
	"departed":    StatusCheckedOut,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"closed":      StatusCompleted,
	"settled":     StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"void":        StatusCancelled,
	"no_show":     StatusNoShow,
	"noshow":      StatusNoShow,
}

// NormalizeLegacyStatus maps free-text statuses of imported or older records onto Status.
// Matching ignores case, surrounding space and the separator used ("-", " " or "_").
func NormalizeLegacyStatus(raw string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)

	status, ok := legacyStatuses[key]
	if !ok {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}

	return status, nil
}

func CanCheckIn(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

func CanCheckOut(s Status) bool {
	return s == StatusCheckedIn
}

func CanCancel(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanMarkNoShow covers the state only; the check-in date is checked by the caller.
func CanMarkNoShow(s Status) bool {
	return s == StatusConfirmed
}

// CanClose reports whether the folio of a booking in s may be closed.
func CanClose(s Status) bool {
	return s == StatusCheckedIn || s == StatusCheckedOut
}

// CanAppendFolio reports whether charges and payments may still be posted.
func CanAppendFolio(s Status) bool {
	return s != StatusCompleted && s != StatusCancelled && s != StatusNoShow
}

const (
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
	ActionCancel   = "cancel"
	ActionNoShow   = "no_show"
	ActionClose    = "close_folio"
)

// Actions lists the lifecycle operations the state machine allows from s.
func Actions(s Status) []string {
	actions := []string{}

	for _, guard := range []struct {
		action string
		allow  func(Status) bool
	}{
		{ActionCheckIn, CanCheckIn},
		{ActionCheckOut, CanCheckOut},
		{ActionCancel, CanCancel},
		{ActionNoShow, CanMarkNoShow},
		{ActionClose, CanClose},
	} {
		if guard.allow(s) {
			actions = append(actions, guard.action)
		}
	}

	return actions
}

// Channel is the intake channel a booking arrived through.
type Channel string

const (
	ChannelDirect  Channel = "direct"
	ChannelPhone   Channel = "phone"
	ChannelWebsite Channel = "website"
	ChannelOTA     Channel = "ota"
	ChannelWalkIn  Channel = "walk_in"
)

// InitialStatus is confirmed for channels that guarantee the stay at intake.
func InitialStatus(channel Channel) Status {
	switch channel {
	case ChannelOTA, ChannelWalkIn:
		return StatusConfirmed
	default:
		return StatusPending
	}
}

type PreArrivalStatus string

const (
	PreArrivalNone      PreArrivalStatus = "none"
	PreArrivalPending   PreArrivalStatus = "pending"
	PreArrivalCompleted PreArrivalStatus = "completed"
)

type Booking struct {
	ID               string           `db:"id"`
	TenantID         string           `db:"tenant_id"`
	PropertyID       string           `db:"property_id"`
	RoomTypeID       string           `db:"room_type_id"`
	GuestName        string           `db:"guest_name"`
	GuestContact     string           `db:"guest_contact"`
	CheckInDate      time.Time        `db:"check_in_date"`
	CheckOutDate     time.Time        `db:"check_out_date"`
	TotalGuests      int              `db:"total_guests"`
	TotalAmount      decimal.Decimal  `db:"total_amount"`
	Status           Status           `db:"status"`
	Channel          Channel          `db:"channel"`
	AssignedRoomID   *string          `db:"assigned_room_id"`
	PreArrivalStatus PreArrivalStatus `db:"pre_arrival_status"`
	model.Metadata
}

// Nights is the number of nights between check-in and check-out.
func (b Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// Stays reports whether the guest is in house on day: check-in <= day < check-out.
func (b Booking) Stays(day time.Time) bool {
	return !day.Before(b.CheckInDate) && day.Before(b.CheckOutDate)
}

// Overlaps reports whether the stay shares at least one night with [from, to).
func (b Booking) Overlaps(from, to time.Time) bool {
	return b.CheckInDate.Before(to) && from.Before(b.CheckOutDate)
}

type Guest struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	BookingID string    `db:"booking_id"`
	FullName  string    `db:"full_name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	IsPrimary bool      `db:"is_primary"`
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}
