package model

import (
	"slices"
	"stayops/shared/model"
	"time"
)

const (
	TableName          = "rooms"
	EntityName         = "room"
	StatusLogTableName = "room_status_logs"
	StatusLogEntity    = "room_status_log"

	FieldID                = "id"
	FieldPropertyID        = "property_id"
	FieldRoomTypeID        = "room_type_id"
	FieldRoomNumber        = "room_number"
	FieldFloor             = "floor"
	FieldOperationalStatus = "operational_status"
	FieldRoomID            = "room_id"
)

// Status is the operational state of a physical room.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusDirty       Status = "dirty"
	StatusCleaning    Status = "cleaning"
	StatusClean       Status = "clean"
	StatusInspected   Status = "inspected"
	StatusMaintenance Status = "maintenance"
	StatusOutOfOrder  Status = "out_of_order"
)

var Statuses = []Status{
	StatusAvailable,
	StatusOccupied,
	StatusDirty,
	StatusCleaning,
	StatusClean,
	StatusInspected,
	StatusMaintenance,
	StatusOutOfOrder,
}

// transitions lists the legal targets of each state, incident states excluded.
var transitions = map[Status][]Status{
	StatusAvailable:   {StatusOccupied},
	StatusOccupied:    {StatusDirty},
	StatusDirty:       {StatusCleaning},
	StatusCleaning:    {StatusClean},
	StatusClean:       {StatusInspected},
	StatusInspected:   {StatusAvailable},
	StatusMaintenance: {StatusAvailable},
	StatusOutOfOrder:  {StatusAvailable},
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) incident() bool {
	return s == StatusMaintenance || s == StatusOutOfOrder
}

// CanTransition reports whether from -> to is an edge of the operational graph.
// Any state may move into an incident state; self-transitions are never legal.
func CanTransition(from, to Status) bool {
	if from == to || !from.Valid() || !to.Valid() {
		return false
	}

	if to.incident() {
		return true
	}

	return slices.Contains(transitions[from], to)
}

// NextStatuses returns the states reachable from s in one step.
func NextStatuses(s Status) []Status {
	next := []Status{}

	for _, candidate := range Statuses {
		if CanTransition(s, candidate) {
			next = append(next, candidate)
		}
	}

	return next
}

type Room struct {
	ID                string `db:"id"`
	TenantID          string `db:"tenant_id"`
	PropertyID        string `db:"property_id"`
	RoomTypeID        string `db:"room_type_id"`
	RoomNumber        string `db:"room_number"`
	Floor             int    `db:"floor"`
	OperationalStatus Status `db:"operational_status"`
	model.Metadata
}

// StatusLog is one audit row per committed status transition.
type StatusLog struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	RoomID    string    `db:"room_id"`
	OldStatus Status    `db:"old_status"`
	NewStatus Status    `db:"new_status"`
	ActorID   string    `db:"actor_id"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}
