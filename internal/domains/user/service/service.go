package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayops/config"
	"stayops/infras/otel"
	"stayops/internal/domains/user/model"
	"stayops/internal/domains/user/repository"
	"stayops/shared"
	"stayops/shared/constant"
	"stayops/shared/deadline"
	"stayops/shared/failure"
	"stayops/shared/identity"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const cacheKeyRole = "user:role"

// Directory resolves the effective role of an authenticated user.
type Directory interface {
	ResolveRole(ctx context.Context, tenantID, userID, claimed string) (string, error)
}

type serviceImpl struct {
	repo repository.User
	cfg  *config.Config
	memo *cache.Cache
	otel otel.Otel
}

func New(repo repository.User, cfg *config.Config, otel otel.Otel) Directory {
	ttl := time.Duration(cfg.App.RoleCacheSeconds) * time.Second

	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		memo: cache.New(ttl, 2*ttl),
		otel: otel,
	}
}

// ResolveRole prefers the directory entry over the token claim. A user missing from the
// directory keeps a known claimed role. When the directory cannot answer within its budget
// the user is treated as a viewer and the answer is not memoized.
func (s *serviceImpl) ResolveRole(ctx context.Context, tenantID, userID, claimed string) (role string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.ResolveRole")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := shared.BuildCacheKey(cacheKeyRole, tenantID, userID)

	if cached, found := s.memo.Get(key); found {
		if role, ok := cached.(string); ok {
			return role, nil
		}
	}

	user, degraded, err := deadline.WithFallback(ctx, deadline.Millis(s.cfg.App.Upstream.RoleLookupMs), model.DependencyName, model.User{Role: constant.RoleViewer, Active: true},
		func(ctx context.Context) (model.User, error) {
			return s.repo.Get(ctx, shared.FilterByID(tenantID, userID, model.FieldID, model.TableName)) //nolint:wrapcheck
		})
	if err != nil {
		deadline.Degraded(model.DependencyName, fmt.Errorf("failed to look up user role: %w", err))

		return constant.RoleViewer, nil
	}

	if degraded {
		return user.Role, nil
	}

	switch {
	case user.ID == constant.Empty:
		role = constant.RoleViewer
		if identity.IsKnownRole(claimed) {
			role = claimed
		}
	case !user.Active:
		log.Warn().Str("tenant_id", tenantID).Str("user_id", userID).Msg("deactivated user presented a valid token")

		return constant.Empty, failure.Unauthorized("user is deactivated") // nolint:wrapcheck
	case identity.IsKnownRole(user.Role):
		role = user.Role
	default:
		role = constant.RoleViewer
	}

	s.memo.SetDefault(key, role)

	return role, nil
}
