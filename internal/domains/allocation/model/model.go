package model

import (
	"sort"
	"time"
)

const (
	TableName  = "room_assignments"
	EntityName = "room_assignment"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldRoomID    = "room_id"
	FieldIsPrimary = "is_primary"
)

type RoomAssignment struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	BookingID string    `db:"booking_id"`
	RoomID    string    `db:"room_id"`
	IsPrimary bool      `db:"is_primary"`
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}

// RescheduleOutcome reports the room and booking blocking a date change. Both are empty when
// the new dates were written.
type RescheduleOutcome struct {
	RoomID            string
	ConflictBookingID string
}

// AssignOutcome is the result of an assignment attempt made under the room lock.
// Exactly one of Assignment, Existing or ConflictBookingID is set.
type AssignOutcome struct {
	Assignment        RoomAssignment
	Existing          *RoomAssignment
	ConflictBookingID string
}

// UnassignOutcome carries the removed row and, when the primary was removed, its successor.
type UnassignOutcome struct {
	Removed  RoomAssignment
	Promoted *RoomAssignment
}

// Oldest sorts assignments by creation, id breaking ties, and returns the first.
func Oldest(assignments []RoomAssignment) (RoomAssignment, bool) {
	if len(assignments) == 0 {
		return RoomAssignment{}, false
	}

	sorted := make([]RoomAssignment, len(assignments))
	copy(sorted, assignments)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}

		return sorted[i].ID < sorted[j].ID
	})

	return sorted[0], true
}

// PrimaryOf resolves the primary assignment of one booking. A torn write can leave zero or
// several rows flagged; zero resolves to the oldest assignment, several to the oldest flagged one.
func PrimaryOf(assignments []RoomAssignment) (RoomAssignment, bool) {
	primaries := []RoomAssignment{}

	for _, assignment := range assignments {
		if assignment.IsPrimary {
			primaries = append(primaries, assignment)
		}
	}

	if len(primaries) > 0 {
		return Oldest(primaries)
	}

	return Oldest(assignments)
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	BlockerNoRoom               = "no_room_assigned"
	BlockerNoPrimaryGuest       = "no_primary_guest"
	BlockerPreArrivalIncomplete = "pre_arrival_incomplete"
	BlockerRoomUnavailable      = "room_unavailable"
)

type Blocker struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Blockers builds the ordered precondition report of a check-in.
func Blockers(hasRoom, hasPrimaryGuest, preArrivalPending bool) []Blocker {
	blockers := []Blocker{}

	if !hasRoom {
		blockers = append(blockers, Blocker{Severity: SeverityError, Code: BlockerNoRoom, Message: "no room assigned"})
	}

	if !hasPrimaryGuest {
		blockers = append(blockers, Blocker{Severity: SeverityError, Code: BlockerNoPrimaryGuest, Message: "no primary guest recorded"})
	}

	if preArrivalPending {
		blockers = append(blockers, Blocker{Severity: SeverityWarning, Code: BlockerPreArrivalIncomplete, Message: "pre-arrival data collection incomplete"})
	}

	return blockers
}

// RoomUnavailable reports a room already held by another live booking for overlapping nights.
func RoomUnavailable(conflictBookingID string) Blocker {
	return Blocker{Severity: SeverityError, Code: BlockerRoomUnavailable, Message: "room is held by booking " + conflictBookingID}
}

func HasErrors(blockers []Blocker) bool {
	for _, blocker := range blockers {
		if blocker.Severity == SeverityError {
			return true
		}
	}

	return false
}
