package folio

import (
	"net/http"
	"stayops/infras/otel"
	"stayops/internal/domains/folio/model/dto"
	"stayops/internal/domains/folio/service"
	"stayops/internal/notifier"
	"stayops/shared/constant"
	"stayops/shared/identity"
	"stayops/shared/validator"
	"stayops/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Folio
	notifier notifier.Notifier
	otel     otel.Otel
}

func New(service service.Folio, notifier notifier.Notifier, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		notifier: notifier,
		otel:     otel,
	}
}

// Router registers the folio routes on a group mounted at /bookings.
func (handler *Handler) Router(routerGroup chi.Router) {
	routerGroup.Route("/{id}/folio", func(folio chi.Router) {
		folio.Get("/", handler.GetFolio)
		folio.Post("/items", handler.AddItem)
		folio.Post("/payments", handler.AddPayment)
		folio.Post("/close", handler.CloseFolio)
	})
}

// GetFolio lists the charges and payments of a booking with their totals.
// @Summary Get the folio of a booking
// @Tags Folio
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.FolioResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/folio [get]
// @Security BearerAuth
func (handler *Handler) GetFolio(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFolio")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	folio, err := handler.service.GetFolio(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get folio")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, folio)
}

// AddItem posts a charge or an adjustment.
// @Summary Add a folio item
// @Description Rate and service amounts must be positive, adjustments non-zero.
// @Tags Folio
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.AddItemRequest true "Add Item Request"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/folio/items [post]
// @Security BearerAuth
func (handler *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	item, err := handler.service.AddItem(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add folio item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Folio item posted by user " + actor.ActorID)

	response.WithJSON(w, http.StatusCreated, item)
}

// AddPayment records a payment.
// @Summary Add a folio payment
// @Tags Folio
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.AddPaymentRequest true "Add Payment Request"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/folio/payments [post]
// @Security BearerAuth
func (handler *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddPayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddPaymentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	payment, err := handler.service.AddPayment(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add folio payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Folio payment recorded by user " + actor.ActorID)

	response.WithJSON(w, http.StatusCreated, payment)
}

// CloseFolio closes the folio and completes the booking.
// @Summary Close the folio
// @Description An outstanding balance or a failed statement upload is reported in warnings.
// @Tags Folio
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CloseRequest false "Close Folio Request"
// @Success 200 {object} dto.CloseResult
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/folio/close [post]
// @Security BearerAuth
func (handler *Handler) CloseFolio(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CloseFolio")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	req := dto.CloseRequest{}
	if err := validator.ValidateOptional(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Close(ctx, actor, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to close folio")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)

	handler.notifier.Dispatch(ctx, res.Events...)
}
