package allocation

import (
	"net/http"
	"stayops/infras/otel"
	"stayops/internal/domains/allocation/model/dto"
	"stayops/internal/domains/allocation/service"
	"stayops/internal/notifier"
	"stayops/shared/constant"
	"stayops/shared/identity"
	"stayops/shared/validator"
	"stayops/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Allocation
	notifier notifier.Notifier
	otel     otel.Otel
}

func New(service service.Allocation, notifier notifier.Notifier, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		notifier: notifier,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/assignments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.AssignRoom)
		routerGroup.Delete("/{id}", handler.UnassignRoom)
		routerGroup.Put("/{id}/primary", handler.SetPrimary)
	})

	router.Get("/properties/{propertyID}/day-view", handler.GetDayView)
}

// BookingRouter registers the allocation reads nested under /bookings.
func (handler *Handler) BookingRouter(routerGroup chi.Router) {
	routerGroup.Get("/{id}/assignments", handler.GetAssignments)
	routerGroup.Get("/{id}/blockers", handler.GetBlockers)
}

// AssignRoom allocates a room to a booking.
// @Summary Assign a room
// @Description The first assignment of a booking becomes primary. Assigning the same pair again
// @Description answers already_assigned with the existing assignment in details.
// @Tags Allocation
// @Accept json
// @Produce json
// @Param request body dto.AssignRoomRequest true "Assign Room Request"
// @Success 201 {object} dto.AssignmentResult
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/assignments [post]
// @Security BearerAuth
func (handler *Handler) AssignRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignRoom")
	defer scope.End()

	req := dto.AssignRoomRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.Assign(ctx, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign room")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Room " + req.RoomID + " assigned by user " + actor.ActorID)

	response.WithJSON(writer, http.StatusCreated, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// UnassignRoom removes an assignment.
// @Summary Unassign a room
// @Description Removing the primary assignment promotes the oldest remaining one.
// @Tags Allocation
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResult
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/assignments/{id} [delete]
// @Security BearerAuth
func (handler *Handler) UnassignRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnassignRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.Unassign(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to unassign room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// SetPrimary makes an assignment the primary one of its booking.
// @Summary Set the primary assignment
// @Tags Allocation
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResult
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/assignments/{id}/primary [put]
// @Security BearerAuth
func (handler *Handler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetPrimary")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.SetPrimary(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set primary assignment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// GetAssignments lists the rooms assigned to a booking.
// @Summary List assignments of a booking
// @Tags Allocation
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {array} dto.AssignmentResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/assignments [get]
// @Security BearerAuth
func (handler *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAssignments")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	assignments, err := handler.service.ListAssignments(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get assignments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, assignments)
}

// GetBlockers lists what stands between a booking and its check-in.
// @Summary Check-in blockers
// @Tags Allocation
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BlockersResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/blockers [get]
// @Security BearerAuth
func (handler *Handler) GetBlockers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockers")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	blockers, err := handler.service.GetBlockers(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blockers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, blockers)
}

// GetDayView summarises arrivals, departures and room occupancy of a property for a day.
// @Summary Day view
// @Tags Allocation
// @Produce json
// @Param propertyID path string true "Property ID"
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} model.DayView
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{propertyID}/day-view [get]
// @Security BearerAuth
func (handler *Handler) GetDayView(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDayView")
	defer scope.End()

	propertyID := chi.URLParam(r, constant.RequestParamPropertyID)
	date := r.URL.Query().Get(constant.RequestParamDate)
	actor, _ := identity.FromContext(ctx)

	view, err := handler.service.GetDayView(ctx, actor, propertyID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build day view")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, view)
}
