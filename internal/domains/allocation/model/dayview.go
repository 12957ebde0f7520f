package model

import (
	"slices"
	bookingModel "stayops/internal/domains/booking/model"
	roomModel "stayops/internal/domains/room/model"
	"stayops/shared/constant"
	"strings"
	"time"
)

// Snapshot is the point-in-time data a day view is computed from.
type Snapshot struct {
	PropertyID  string
	Rooms       []roomModel.Room
	Bookings    []bookingModel.Booking
	Assignments []RoomAssignment
}

type StayRef struct {
	BookingID    string              `json:"booking_id"`
	GuestName    string              `json:"guest_name"`
	RoomTypeID   string              `json:"room_type_id"`
	Status       bookingModel.Status `json:"status"`
	CheckInDate  string              `json:"check_in_date"`
	CheckOutDate string              `json:"check_out_date"`
	RoomIDs      []string            `json:"room_ids"`
}

type RoomDay struct {
	RoomID           string           `json:"room_id"`
	RoomNumber       string           `json:"room_number"`
	RoomTypeID       string           `json:"room_type_id"`
	Status           roomModel.Status `json:"operational_status"`
	Current          *StayRef         `json:"current"`
	SuggestedArrival *StayRef         `json:"suggested_arrival"`
	Departure        *StayRef         `json:"departure"`
}

type DayView struct {
	PropertyID string    `json:"property_id"`
	Date       string    `json:"date"`
	Arrivals   []StayRef `json:"arrivals"`
	Departures []StayRef `json:"departures"`
	InHouse    []StayRef `json:"in_house"`
	Rooms      []RoomDay `json:"rooms"`
}

func counts(status bookingModel.Status) bool {
	return status != bookingModel.StatusCancelled && status != bookingModel.StatusNoShow
}

func unavailable(status roomModel.Status) bool {
	return status == roomModel.StatusMaintenance || status == roomModel.StatusOutOfOrder
}

// BuildDayView partitions the snapshot's bookings around day and reports, per room, the bound
// stay, today's departure and at most one suggested unbound arrival of the room's type.
// Cancelled and no-show bookings are ignored. It does no I/O and is safe to recompute.
func BuildDayView(snapshot Snapshot, day time.Time) DayView {
	view := DayView{
		PropertyID: snapshot.PropertyID,
		Date:       day.Format(constant.DateOnlyFormat),
		Arrivals:   []StayRef{},
		Departures: []StayRef{},
		InHouse:    []StayRef{},
		Rooms:      []RoomDay{},
	}

	roomsByBooking := map[string][]string{}
	bookingsByRoom := map[string][]bookingModel.Booking{}
	bookingByID := map[string]bookingModel.Booking{}

	for _, booking := range snapshot.Bookings {
		bookingByID[booking.ID] = booking
	}

	assignments := slices.Clone(snapshot.Assignments)
	slices.SortStableFunc(assignments, func(a, b RoomAssignment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	for _, assignment := range assignments {
		booking, ok := bookingByID[assignment.BookingID]
		if !ok {
			continue
		}

		roomsByBooking[booking.ID] = append(roomsByBooking[booking.ID], assignment.RoomID)
		bookingsByRoom[assignment.RoomID] = append(bookingsByRoom[assignment.RoomID], booking)
	}

	bookings := slices.Clone(snapshot.Bookings)
	slices.SortStableFunc(bookings, func(a, b bookingModel.Booking) int {
		if c := a.CheckInDate.Compare(b.CheckInDate); c != 0 {
			return c
		}

		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	unbound := []StayRef{}

	for _, booking := range bookings {
		if !counts(booking.Status) {
			continue
		}

		ref := stayRef(booking, roomsByBooking[booking.ID])

		if booking.CheckInDate.Equal(day) {
			view.Arrivals = append(view.Arrivals, ref)

			if len(ref.RoomIDs) == 0 && bookingModel.CanCheckIn(booking.Status) {
				unbound = append(unbound, ref)
			}
		}

		if booking.CheckOutDate.Equal(day) {
			view.Departures = append(view.Departures, ref)
		}

		if booking.Stays(day) {
			view.InHouse = append(view.InHouse, ref)
		}
	}

	rooms := slices.Clone(snapshot.Rooms)
	slices.SortStableFunc(rooms, func(a, b roomModel.Room) int {
		return strings.Compare(a.RoomNumber, b.RoomNumber)
	})

	suggested := map[string]bool{}

	for _, room := range rooms {
		roomDay := RoomDay{
			RoomID:     room.ID,
			RoomNumber: room.RoomNumber,
			RoomTypeID: room.RoomTypeID,
			Status:     room.OperationalStatus,
		}

		for _, booking := range bookingsByRoom[room.ID] {
			ref := stayRef(booking, roomsByBooking[booking.ID])

			if booking.Stays(day) && booking.Status.IsLive() {
				if roomDay.Current == nil || (booking.Status == bookingModel.StatusCheckedIn && roomDay.Current.Status != bookingModel.StatusCheckedIn) {
					roomDay.Current = &ref
				}
			}

			if booking.CheckOutDate.Equal(day) && counts(booking.Status) && roomDay.Departure == nil {
				roomDay.Departure = &ref
			}
		}

		if roomDay.Current == nil && !unavailable(room.OperationalStatus) {
			for i := range unbound {
				if suggested[unbound[i].BookingID] || unbound[i].RoomTypeID != room.RoomTypeID {
					continue
				}

				suggested[unbound[i].BookingID] = true
				roomDay.SuggestedArrival = &unbound[i]

				break
			}
		}

		view.Rooms = append(view.Rooms, roomDay)
	}

	return view
}

func stayRef(booking bookingModel.Booking, roomIDs []string) StayRef {
	if roomIDs == nil {
		roomIDs = []string{}
	}

	return StayRef{
		BookingID:    booking.ID,
		GuestName:    booking.GuestName,
		RoomTypeID:   booking.RoomTypeID,
		Status:       booking.Status,
		CheckInDate:  booking.CheckInDate.Format(constant.DateOnlyFormat),
		CheckOutDate: booking.CheckOutDate.Format(constant.DateOnlyFormat),
		RoomIDs:      roomIDs,
	}
}
