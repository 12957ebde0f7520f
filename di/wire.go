//go:build wireinject
// +build wireinject

package di

import (
	"stayops/config"
	"stayops/infras/jwt"
	"stayops/infras/kafka"
	"stayops/infras/otel"
	"stayops/infras/postgres"
	"stayops/infras/redis"
	"stayops/infras/s3"
	"stayops/internal/notifier"
	"stayops/permissions"
	"stayops/shared/cache"
	"stayops/transport/http"
	"stayops/transport/http/middleware"
	"stayops/transport/http/router"

	allocationRepository "stayops/internal/domains/allocation/repository"
	allocationService "stayops/internal/domains/allocation/service"
	bookingRepository "stayops/internal/domains/booking/repository"
	bookingService "stayops/internal/domains/booking/service"
	folioRepository "stayops/internal/domains/folio/repository"
	folioService "stayops/internal/domains/folio/service"
	roomRepository "stayops/internal/domains/room/repository"
	roomService "stayops/internal/domains/room/service"
	userRepository "stayops/internal/domains/user/repository"
	userService "stayops/internal/domains/user/service"

	allocationHandler "stayops/internal/handlers/allocation"
	bookingHandler "stayops/internal/handlers/booking"
	folioHandler "stayops/internal/handlers/folio"
	roomHandler "stayops/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	notifier.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var allocationDomain = wire.NewSet(
	allocationRepository.New,
	allocationService.New,
)

var folioDomain = wire.NewSet(
	folioRepository.New,
	folioService.New,
)

var domains = wire.NewSet(
	userDomain,
	roomDomain,
	bookingDomain,
	allocationDomain,
	folioDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	bookingHandler.New,
	allocationHandler.New,
	folioHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
