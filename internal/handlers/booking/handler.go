package booking

import (
	"net/http"
	"stayops/infras/otel"
	"stayops/internal/domains/booking/model/dto"
	"stayops/internal/domains/booking/service"
	"stayops/internal/notifier"
	"stayops/shared/constant"
	gDto "stayops/shared/dto"
	"stayops/shared/identity"
	"stayops/shared/validator"
	"stayops/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Booking
	notifier notifier.Notifier
	otel     otel.Otel
}

func New(service service.Booking, notifier notifier.Notifier, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		notifier: notifier,
		otel:     otel,
	}
}

// Router registers the booking routes on a group mounted at /bookings.
func (handler *Handler) Router(routerGroup chi.Router) {
	routerGroup.Post("/", handler.CreateBooking)
	routerGroup.Get("/", handler.GetBookings)
	routerGroup.Get("/{id}", handler.GetBookingByID)
	routerGroup.Patch("/{id}", handler.UpdateBooking)
	routerGroup.Post("/{id}/check-in", handler.CheckIn)
	routerGroup.Post("/{id}/check-out", handler.CheckOut)
	routerGroup.Post("/{id}/cancel", handler.Cancel)
	routerGroup.Post("/{id}/no-show", handler.MarkNoShow)
	routerGroup.Post("/{id}/guests", handler.AddGuest)
	routerGroup.Get("/{id}/guests", handler.GetGuests)
	routerGroup.Post("/{id}/pre-arrival", handler.RequestPreArrival)
	routerGroup.Post("/{id}/pre-arrival/complete", handler.CompletePreArrival)
}

// CreateBooking handles the creation of a booking.
// @Summary Create a booking
// @Description Create a booking. Bookings from ota and walk_in channels start confirmed, others pending.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.BookingResult
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.Create(ctx, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created by user " + actor.ActorID)

	response.WithJSON(writer, http.StatusCreated, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// GetBookings lists bookings.
// @Summary List bookings
// @Description Paginated list of bookings. Status accepts legacy spellings such as "In-House".
// @Tags Booking
// @Produce json
// @Param property_id query string false "Filter by property"
// @Param room_type_id query string false "Filter by room type"
// @Param status query string false "Filter by status"
// @Param check_in_date query string false "Filter by check-in date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} dto.GetBookingsResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	filter := dto.BookingFilter{}
	if err := filter.FromRequest(r); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse booking filters")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	bookings, err := handler.service.GetAll(ctx, actor, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	booking, err := handler.service.Get(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking edits guest details, guest count, amount or dates.
// @Summary Update a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	booking, err := handler.service.Update(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking updated by user " + actor.ActorID)

	response.WithJSON(w, http.StatusOK, booking)
}

// CheckIn checks a guest in.
// @Summary Check in
// @Description Requires a confirmed booking without blockers. The primary room becomes occupied when it is available.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResult
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error "Blocked, details list the blockers"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/check-in [post]
// @Security BearerAuth
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.CheckIn(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// CheckOut checks a guest out.
// @Summary Check out
// @Description mark_room_dirty confirms that the vacated room goes to housekeeping.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CheckOutRequest false "Check Out Request"
// @Success 200 {object} dto.BookingResult
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/check-out [post]
// @Security BearerAuth
func (handler *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOut")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CheckOutRequest{}
	if err := validator.ValidateOptional(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.CheckOut(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// Cancel cancels a pending or confirmed booking.
// @Summary Cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelRequest false "Cancel Request"
// @Success 200 {object} dto.BookingResult
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Cancel")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelRequest{}
	if err := validator.ValidateOptional(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.Cancel(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// MarkNoShow records that the guest never arrived.
// @Summary Mark a booking as no-show
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResult
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/no-show [post]
// @Security BearerAuth
func (handler *Handler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkNoShow")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	res, err := handler.service.MarkNoShow(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark booking as no-show")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}

// AddGuest records a guest on the booking.
// @Summary Add a guest
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.GuestRequest true "Guest Request"
// @Success 201 {object} dto.GuestResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/guests [post]
// @Security BearerAuth
func (handler *Handler) AddGuest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddGuest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.GuestRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	guest, err := handler.service.AddGuest(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add guest")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, guest)
}

// GetGuests lists the guests of a booking, primary first.
// @Summary List guests
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {array} dto.GuestResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/guests [get]
// @Security BearerAuth
func (handler *Handler) GetGuests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuests")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	guests, err := handler.service.GetGuests(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guests)
}

// RequestPreArrival asks the guest for pre-arrival data.
// @Summary Request pre-arrival data
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/pre-arrival [post]
// @Security BearerAuth
func (handler *Handler) RequestPreArrival(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestPreArrival")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	booking, err := handler.service.RequestPreArrival(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to request pre-arrival data")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// CompletePreArrival marks the requested pre-arrival data as received.
// @Summary Complete pre-arrival data
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/pre-arrival/complete [post]
// @Security BearerAuth
func (handler *Handler) CompletePreArrival(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompletePreArrival")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	booking, err := handler.service.CompletePreArrival(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete pre-arrival data")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}
