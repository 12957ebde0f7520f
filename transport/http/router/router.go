package router

import (
	"stayops/config"
	_ "stayops/docs" // registers the swagger document
	"stayops/internal/handlers/allocation"
	"stayops/internal/handlers/booking"
	"stayops/internal/handlers/folio"
	"stayops/internal/handlers/room"
	"stayops/shared/metrics"
	"stayops/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Room       room.Handler
	Booking    booking.Handler
	Allocation allocation.Handler
	Folio      folio.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthRole       middleware.AuthRole
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.AppMiddleware.RequestID)
	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.Metrics)
	router.Use(r.AppMiddleware.RateLimit())

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Handle("/metrics", metrics.Handler())
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Allocation.Router(routerGroup)

		routerGroup.Route("/bookings", func(bookings chi.Router) {
			r.DomainHandlers.Booking.Router(bookings)
			r.DomainHandlers.Allocation.BookingRouter(bookings)
			r.DomainHandlers.Folio.Router(bookings)
		})
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authRole middleware.AuthRole, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthRole:       authRole,
		Config:         cfg,
	}
}
