package dto

import (
	"stayops/internal/domains/allocation/model"
	bookingModel "stayops/internal/domains/booking/model"
	"stayops/shared/constant"
	"stayops/shared/event"
	"stayops/shared/timezone"
)

type AssignRoomRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	RoomID    string `json:"room_id"    validate:"required,uuid"`
}

type AssignmentResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	IsPrimary bool   `json:"is_primary"`
	CreatedAt string `json:"created_at"`
	CreatedBy string `json:"created_by"`
}

func (r *AssignmentResponse) FromModel(assignment model.RoomAssignment) {
	r.ID = assignment.ID
	r.BookingID = assignment.BookingID
	r.RoomID = assignment.RoomID
	r.IsPrimary = assignment.IsPrimary
	r.CreatedAt = timezone.Format(assignment.CreatedAt, constant.DateFormat)
	r.CreatedBy = assignment.CreatedBy
}

func NewAssignmentResponse(assignment model.RoomAssignment) *AssignmentResponse {
	res := &AssignmentResponse{}
	res.FromModel(assignment)

	return res
}

// FromAssignments reports the resolved primary, so exactly one entry is flagged even when the
// stored flags are torn.
func FromAssignments(assignments []model.RoomAssignment) []AssignmentResponse {
	primary, _ := model.PrimaryOf(assignments)

	res := make([]AssignmentResponse, len(assignments))
	for i, assignment := range assignments {
		res[i].FromModel(assignment)
		res[i].IsPrimary = assignment.ID == primary.ID
	}

	return res
}

type AssignmentResult struct {
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
	Removed    *AssignmentResponse `json:"removed,omitempty"`
	Promoted   *AssignmentResponse `json:"promoted,omitempty"`
	Events     []event.Event       `json:"-"`
}

type BlockersResponse struct {
	BookingID  string              `json:"booking_id"`
	Status     bookingModel.Status `json:"status"`
	CanCheckIn bool                `json:"can_check_in"`
	Blockers   []model.Blocker     `json:"blockers"`
}
