package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"stayops/config"
	"stayops/infras/jwt"
	jwtMocks "stayops/infras/jwt/mocks"
	otelMocks "stayops/infras/otel/mocks"
	userMocks "stayops/internal/domains/user/service/mocks"
	"stayops/permissions"
	"stayops/shared/constant"
	"stayops/shared/identity"
	"stayops/transport/http/middleware"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testAPIKey = "internal-key"

type authFixture struct {
	jwt       *jwtMocks.MockJWT
	directory *userMocks.MockDirectory
	router    chi.Router
	seen      *identity.Actor
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.APIKey = testAPIKey

	fixture := &authFixture{
		jwt:       jwtMocks.NewMockJWT(ctrl),
		directory: userMocks.NewMockDirectory(ctrl),
		seen:      &identity.Actor{},
	}

	data := permissions.Get()
	require.NotNil(t, data)

	authRole := middleware.NewAuthRoleMiddleware(fixture.jwt, fixture.directory, otelMocks.NewOtel(), data, cfg)

	capture := func(w http.ResponseWriter, r *http.Request) {
		actor, err := identity.FromContext(r.Context())
		require.NoError(t, err)

		*fixture.seen = actor

		w.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(group chi.Router) {
		group.Use(authRole.Auth)
		group.Use(authRole.RBAC)

		group.Route("/rooms", func(rooms chi.Router) {
			rooms.Get("/{id}", capture)
			rooms.Put("/{id}/status", capture)
		})
	})

	fixture.router = router

	return fixture
}

func (f *authFixture) do(method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestAuth_APIKey(t *testing.T) {
	t.Run("actor defaults to automation", func(t *testing.T) {
		fixture := newAuthFixture(t)

		rec := fixture.do(http.MethodPut, "/v1/rooms/r1/status", map[string]string{
			constant.RequestHeaderAPIKey:   testAPIKey,
			constant.RequestHeaderTenantID: "tenant-a",
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, identity.New("tenant-a", identity.ActorAutomation, constant.RoleStaff), *fixture.seen)
	})

	t.Run("named actor", func(t *testing.T) {
		fixture := newAuthFixture(t)

		rec := fixture.do(http.MethodPut, "/v1/rooms/r1/status", map[string]string{
			constant.RequestHeaderAPIKey:   testAPIKey,
			constant.RequestHeaderTenantID: "tenant-a",
			constant.RequestHeaderActorID:  "channel-manager",
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "channel-manager", fixture.seen.ActorID)
	})

	t.Run("wrong key", func(t *testing.T) {
		fixture := newAuthFixture(t)

		rec := fixture.do(http.MethodGet, "/v1/rooms/r1", map[string]string{
			constant.RequestHeaderAPIKey:   "guess",
			constant.RequestHeaderTenantID: "tenant-a",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"kind":"unauthorized"`)
		assert.Empty(t, fixture.seen.TenantID)
	})

	t.Run("missing tenant", func(t *testing.T) {
		fixture := newAuthFixture(t)

		rec := fixture.do(http.MethodGet, "/v1/rooms/r1", map[string]string{
			constant.RequestHeaderAPIKey: testAPIKey,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuth_Bearer(t *testing.T) {
	claims := &jwt.Claims{TenantID: "tenant-a", UserID: "u1", Role: constant.RoleManager}
	bearer := map[string]string{constant.RequestHeaderAuthorization: "Bearer token"}

	t.Run("directory role applies", func(t *testing.T) {
		fixture := newAuthFixture(t)

		fixture.jwt.EXPECT().ValidateToken("token").Return(claims, nil)
		fixture.directory.EXPECT().ResolveRole(gomock.Any(), "tenant-a", "u1", constant.RoleManager).Return(constant.RoleHousekeeping, nil)

		rec := fixture.do(http.MethodPut, "/v1/rooms/r1/status", bearer)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, identity.New("tenant-a", "u1", constant.RoleHousekeeping), *fixture.seen)
	})

	t.Run("viewer is read only", func(t *testing.T) {
		fixture := newAuthFixture(t)

		fixture.jwt.EXPECT().ValidateToken("token").Return(claims, nil).Times(2)
		fixture.directory.EXPECT().ResolveRole(gomock.Any(), "tenant-a", "u1", constant.RoleManager).Return(constant.RoleViewer, nil).Times(2)

		assert.Equal(t, http.StatusForbidden, fixture.do(http.MethodPut, "/v1/rooms/r1/status", bearer).Code)
		assert.Equal(t, http.StatusNoContent, fixture.do(http.MethodGet, "/v1/rooms/r1", bearer).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		fixture := newAuthFixture(t)

		fixture.jwt.EXPECT().ValidateToken("token").Return(nil, jwt.ErrExpiredToken)

		rec := fixture.do(http.MethodGet, "/v1/rooms/r1", bearer)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token has expired")
	})

	t.Run("missing header", func(t *testing.T) {
		fixture := newAuthFixture(t)

		assert.Equal(t, http.StatusUnauthorized, fixture.do(http.MethodGet, "/v1/rooms/r1", nil).Code)
	})
}
