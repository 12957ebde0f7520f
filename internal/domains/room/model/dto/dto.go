package dto

import (
	"net/http"
	"stayops/internal/domains/room/model"
	"stayops/shared"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/event"
	"stayops/shared/identity"
	gModel "stayops/shared/model"
	"stayops/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	PropertyID string `json:"property_id"  validate:"required,uuid"`
	RoomTypeID string `json:"room_type_id" validate:"required,uuid"`
	RoomNumber string `json:"room_number"  validate:"required,max=20"`
	Floor      int    `json:"floor"        validate:"omitempty,min=-5,max=200"`
}

// ToModel creates the room in the available state.
func (c *CreateRoomRequest) ToModel(actor identity.Actor) model.Room {
	return model.Room{
		ID:                uuid.NewString(),
		TenantID:          actor.TenantID,
		PropertyID:        c.PropertyID,
		RoomTypeID:        c.RoomTypeID,
		RoomNumber:        c.RoomNumber,
		Floor:             c.Floor,
		OperationalStatus: model.StatusAvailable,
		Metadata:          gModel.NewMetadata(actor.ActorID, timezone.Now()),
	}
}

// UpdateRoomRequest never carries the operational status; that only moves through SetStatus.
type UpdateRoomRequest struct {
	RoomTypeID string `db:"room_type_id" json:"room_type_id" validate:"omitempty,uuid"`
	RoomNumber string `db:"room_number"  json:"room_number"  validate:"omitempty,max=20"`
	Floor      *int   `db:"floor"        json:"floor"        validate:"omitempty,min=-5,max=200"`
}

type SetStatusRequest struct {
	Status model.Status `json:"status" validate:"required"`
	Reason string       `json:"reason" validate:"omitempty,max=500"`
}

// RoomFilter holds the optional list filters of the room registry.
type RoomFilter struct {
	PropertyID string
	RoomTypeID string
	Status     string
}

func (f *RoomFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.PropertyID = query.Get(model.FieldPropertyID)
	f.RoomTypeID = query.Get(model.FieldRoomTypeID)
	f.Status = query.Get("status")
}

func (f *RoomFilter) Filters() []any {
	filters := []any{}

	for _, pair := range [][2]string{
		{model.FieldPropertyID, f.PropertyID},
		{model.FieldRoomTypeID, f.RoomTypeID},
		{model.FieldOperationalStatus, f.Status},
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

type RoomResponse struct {
	ID                string         `json:"id"`
	PropertyID        string         `json:"property_id"`
	RoomTypeID        string         `json:"room_type_id"`
	RoomNumber        string         `json:"room_number"`
	Floor             int            `json:"floor"`
	OperationalStatus model.Status   `json:"operational_status"`
	NextStatuses      []model.Status `json:"next_statuses"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(room model.Room) {
	r.ID = room.ID
	r.PropertyID = room.PropertyID
	r.RoomTypeID = room.RoomTypeID
	r.RoomNumber = room.RoomNumber
	r.Floor = room.Floor
	r.OperationalStatus = room.OperationalStatus
	r.NextStatuses = model.NextStatuses(room.OperationalStatus)
	r.Metadata.FromModel(room.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// StatusChangeResponse reports a committed transition. Warnings are non-fatal,
// e.g. an audit row that could not be written.
type StatusChangeResponse struct {
	Room     RoomResponse  `json:"room"`
	From     model.Status  `json:"from"`
	Warnings []string      `json:"warnings,omitempty"`
	Events   []event.Event `json:"-"`
}

type StatusLogResponse struct {
	ID        string       `json:"id"`
	RoomID    string       `json:"room_id"`
	OldStatus model.Status `json:"old_status"`
	NewStatus model.Status `json:"new_status"`
	ActorID   string       `json:"actor_id"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt string       `json:"created_at"`
}

func (r *StatusLogResponse) FromModel(model model.StatusLog) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.OldStatus = model.OldStatus
	r.NewStatus = model.NewStatus
	r.ActorID = model.ActorID
	r.Reason = model.Reason
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

func FromStatusLogs(models []model.StatusLog) []StatusLogResponse {
	res := make([]StatusLogResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
