package jwt_test

import (
	"stayops/config"
	"stayops/infras/jwt"
	"testing"

	jwtGo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(secret string, expireMin int) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "stayops"
	cfg.JWT.AccessSecret = secret
	cfg.JWT.AccessExpireMin = expireMin

	return cfg
}

func TestService_RoundTrip(t *testing.T) {
	svc := jwt.New(newConfig("secret", 15))

	token, err := svc.GenerateAccessToken("tenant-a", "user-1", "staff")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "tenant-a", claims.TenantID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
}

func TestService_ValidateToken(t *testing.T) {
	signer := jwt.New(newConfig("secret", 15))

	valid, err := signer.GenerateAccessToken("tenant-a", "user-1", "viewer")
	require.NoError(t, err)

	expired, err := jwt.New(newConfig("secret", -5)).GenerateAccessToken("tenant-a", "user-1", "viewer")
	require.NoError(t, err)

	foreign, err := jwt.New(newConfig("other-secret", 15)).GenerateAccessToken("tenant-a", "user-1", "viewer")
	require.NoError(t, err)

	noTenant, err := signer.GenerateAccessToken("", "user-1", "viewer")
	require.NoError(t, err)

	unsigned, err := jwtGo.NewWithClaims(jwtGo.SigningMethodNone, jwtGo.MapClaims{"tenant_id": "tenant-a", "user_id": "user-1"}).
		SignedString(jwtGo.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		err   error
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, err: jwt.ErrExpiredToken},
		{name: "wrong secret", token: foreign, err: jwt.ErrInvalidToken},
		{name: "missing tenant", token: noTenant, err: jwt.ErrInvalidClaim},
		{name: "unsigned", token: unsigned, err: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-token", err: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.ValidateToken(tt.token)

			if tt.err == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}
