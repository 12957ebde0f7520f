package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayops/internal/domains/allocation/model"
	bookingModel "stayops/internal/domains/booking/model"
	roomModel "stayops/internal/domains/room/model"
)

var base = time.Date(2024, time.April, 30, 9, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func assignment(id, bookingID, roomID string, primary bool, minutes int) model.RoomAssignment {
	return model.RoomAssignment{
		ID:        id,
		BookingID: bookingID,
		RoomID:    roomID,
		IsPrimary: primary,
		CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestPrimaryOf(t *testing.T) {
	tests := []struct {
		name        string
		assignments []model.RoomAssignment
		want        string
		found       bool
	}{
		{
			name: "no assignments",
		},
		{
			name: "single flagged primary",
			assignments: []model.RoomAssignment{
				assignment("a1", "b1", "r1", false, 0),
				assignment("a2", "b1", "r2", true, 5),
			},
			want:  "a2",
			found: true,
		},
		{
			name: "no flagged primary falls back to the oldest",
			assignments: []model.RoomAssignment{
				assignment("a2", "b1", "r2", false, 5),
				assignment("a1", "b1", "r1", false, 0),
			},
			want:  "a1",
			found: true,
		},
		{
			name: "several flagged resolve to the oldest flagged",
			assignments: []model.RoomAssignment{
				assignment("a1", "b1", "r1", false, 0),
				assignment("a3", "b1", "r3", true, 10),
				assignment("a2", "b1", "r2", true, 5),
			},
			want:  "a2",
			found: true,
		},
		{
			name: "equal timestamps break ties by id",
			assignments: []model.RoomAssignment{
				assignment("b", "b1", "r1", false, 0),
				assignment("a", "b1", "r2", false, 0),
			},
			want:  "a",
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := model.PrimaryOf(tt.assignments)

			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestBlockers(t *testing.T) {
	blockers := model.Blockers(false, false, true)

	require.Len(t, blockers, 3)
	assert.Equal(t, "no room assigned", blockers[0].Message)
	assert.Equal(t, model.SeverityError, blockers[0].Severity)
	assert.Equal(t, "no primary guest recorded", blockers[1].Message)
	assert.Equal(t, model.SeverityWarning, blockers[2].Severity)
	assert.True(t, model.HasErrors(blockers))

	warningsOnly := model.Blockers(true, true, true)
	require.Len(t, warningsOnly, 1)
	assert.False(t, model.HasErrors(warningsOnly))

	assert.Empty(t, model.Blockers(true, true, false))
}

func booking(id, roomType string, status bookingModel.Status, checkIn, checkOut int) bookingModel.Booking {
	b := bookingModel.Booking{
		ID:           id,
		RoomTypeID:   roomType,
		GuestName:    "guest " + id,
		CheckInDate:  day(checkIn),
		CheckOutDate: day(checkOut),
		Status:       status,
	}
	b.CreatedAt = base

	return b
}

func room(id, number, roomType string, status roomModel.Status) roomModel.Room {
	return roomModel.Room{ID: id, RoomNumber: number, RoomTypeID: roomType, OperationalStatus: status}
}

func TestBuildDayView(t *testing.T) {
	snapshot := model.Snapshot{
		PropertyID: "p1",
		Rooms: []roomModel.Room{
			room("r103", "103", "double", roomModel.StatusAvailable),
			room("r101", "101", "double", roomModel.StatusOccupied),
			room("r102", "102", "double", roomModel.StatusDirty),
			room("r104", "104", "double", roomModel.StatusOutOfOrder),
			room("r201", "201", "suite", roomModel.StatusAvailable),
		},
		Bookings: []bookingModel.Booking{
			booking("inhouse", "double", bookingModel.StatusCheckedIn, 1, 4),
			booking("leaving", "double", bookingModel.StatusCheckedIn, 1, 3),
			booking("arrival-1", "double", bookingModel.StatusConfirmed, 3, 5),
			booking("arrival-2", "double", bookingModel.StatusPending, 3, 6),
			booking("arrival-3", "double", bookingModel.StatusPending, 3, 4),
			booking("bound-arrival", "suite", bookingModel.StatusConfirmed, 3, 5),
			booking("cancelled", "double", bookingModel.StatusCancelled, 3, 5),
		},
		Assignments: []model.RoomAssignment{
			assignment("x1", "inhouse", "r101", true, 0),
			assignment("x2", "leaving", "r102", true, 1),
			assignment("x3", "bound-arrival", "r201", true, 2),
			assignment("x4", "cancelled", "r103", true, 3),
		},
	}

	view := model.BuildDayView(snapshot, day(3))

	assert.Equal(t, "2024-05-03", view.Date)
	assert.Equal(t, []string{"arrival-1", "arrival-2", "arrival-3", "bound-arrival"}, ids(view.Arrivals))
	assert.Equal(t, []string{"leaving"}, ids(view.Departures))
	assert.Equal(t, []string{"inhouse", "arrival-1", "arrival-2", "arrival-3", "bound-arrival"}, ids(view.InHouse))

	require.Len(t, view.Rooms, 5)

	byNumber := map[string]model.RoomDay{}
	for _, roomDay := range view.Rooms {
		byNumber[roomDay.RoomNumber] = roomDay
	}

	assert.Equal(t, "101", view.Rooms[0].RoomNumber, "rooms are ordered by number")

	require.NotNil(t, byNumber["101"].Current)
	assert.Equal(t, "inhouse", byNumber["101"].Current.BookingID)
	assert.Nil(t, byNumber["101"].SuggestedArrival)

	assert.Nil(t, byNumber["102"].Current)
	require.NotNil(t, byNumber["102"].Departure)
	assert.Equal(t, "leaving", byNumber["102"].Departure.BookingID)
	require.NotNil(t, byNumber["102"].SuggestedArrival)
	assert.Equal(t, "arrival-1", byNumber["102"].SuggestedArrival.BookingID)

	require.NotNil(t, byNumber["103"].SuggestedArrival, "a cancelled booking does not hold the room")
	assert.Equal(t, "arrival-2", byNumber["103"].SuggestedArrival.BookingID)

	assert.Nil(t, byNumber["104"].SuggestedArrival, "out of order rooms get no suggestion")

	require.NotNil(t, byNumber["201"].Current)
	assert.Equal(t, "bound-arrival", byNumber["201"].Current.BookingID)
	assert.Nil(t, byNumber["201"].SuggestedArrival)
}

func TestBuildDayViewSuggestsEachArrivalOnce(t *testing.T) {
	snapshot := model.Snapshot{
		Rooms: []roomModel.Room{
			room("r1", "1", "double", roomModel.StatusAvailable),
			room("r2", "2", "double", roomModel.StatusAvailable),
		},
		Bookings: []bookingModel.Booking{
			booking("only", "double", bookingModel.StatusConfirmed, 3, 4),
		},
	}

	view := model.BuildDayView(snapshot, day(3))

	suggestions := 0
	for _, roomDay := range view.Rooms {
		if roomDay.SuggestedArrival != nil {
			suggestions++
		}
	}

	assert.Equal(t, 1, suggestions)
	assert.Equal(t, view, model.BuildDayView(snapshot, day(3)), "recomputing the same snapshot gives the same view")
}

func ids(refs []model.StayRef) []string {
	res := []string{}
	for _, ref := range refs {
		res = append(res, ref.BookingID)
	}

	return res
}
