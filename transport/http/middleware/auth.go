package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"slices"
	"stayops/config"
	"stayops/infras/jwt"
	"stayops/infras/otel"
	userService "stayops/internal/domains/user/service"
	"stayops/permissions"
	"stayops/shared/constant"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"stayops/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	directory  userService.Directory
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, directory userService.Directory, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		directory:  directory,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// Auth resolves the actor of the request and stores it in the context. Internal callers
// authenticate with the API key and name the tenant and actor in headers; everyone else
// presents a bearer token whose role is refined through the user directory.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		path := routeOf(request)

		if m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		var (
			actor identity.Actor
			err   error
		)

		if apiKey := request.Header.Get(constant.RequestHeaderAPIKey); apiKey != constant.Empty {
			scope.SetAttribute("http.source", "internal")

			actor, err = m.fromAPIKey(request, apiKey)
		} else {
			scope.SetAttribute("http.source", "client")

			actor, err = m.fromToken(request)
		}

		if err != nil {
			scope.TraceError(err)
			scope.End()

			response.WithError(writer, err)

			return
		}

		scope.SetAttributes(map[string]any{
			"tenant_id": actor.TenantID,
			"actor_id":  actor.ActorID,
			"role":      actor.Role,
		})
		scope.End()

		next.ServeHTTP(writer, request.WithContext(identity.WithActor(ctx, actor)))
	})
}

func (m *authRoleImpl) fromAPIKey(request *http.Request, apiKey string) (identity.Actor, error) {
	if m.cfg.App.APIKey == constant.Empty || subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
		return identity.Actor{}, failure.Unauthorized("Invalid API key") // nolint:wrapcheck
	}

	tenantID := request.Header.Get(constant.RequestHeaderTenantID)
	if tenantID == constant.Empty {
		return identity.Actor{}, failure.Unauthorized("Missing " + constant.RequestHeaderTenantID + " header") // nolint:wrapcheck
	}

	actorID := request.Header.Get(constant.RequestHeaderActorID)
	if actorID == constant.Empty {
		actorID = identity.ActorAutomation
	}

	return identity.New(tenantID, actorID, constant.RoleStaff), nil
}

func (m *authRoleImpl) fromToken(request *http.Request) (identity.Actor, error) {
	authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
	if authHeader == constant.Empty {
		return identity.Actor{}, failure.Unauthorized("Missing authorization header") // nolint:wrapcheck
	}

	tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return identity.Actor{}, failure.Unauthorized("Invalid authorization header format") // nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		var message string

		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			message = "Token has expired"
		case errors.Is(err, jwt.ErrInvalidClaim):
			message = "Invalid token claims"
		default:
			message = "Invalid token"
		}

		return identity.Actor{}, failure.Unauthorized(message) // nolint:wrapcheck
	}

	role, err := m.directory.ResolveRole(request.Context(), claims.TenantID, claims.UserID, claims.Role)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("failed to resolve user role")

		return identity.Actor{}, err //nolint:wrapcheck
	}

	return identity.New(claims.TenantID, claims.UserID, role), nil
}

// RBAC checks the resolved role against the roles allowed for the route.
// Requires prior authentication via Auth middleware
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		permission := m.permission.FindPermissions(routeOf(request), request.Method)

		if permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		actor, _ := identity.FromContext(ctx)

		if len(permission.Permissions) > 0 && !slices.Contains(permission.Permissions, actor.Role) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":     actor.Role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// routeOf returns the registered pattern matching the request, e.g. /v1/rooms/{id}.
func routeOf(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}
