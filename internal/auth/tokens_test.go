package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/inventario/internal/config"
	"github.com/prn-tf/inventario/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SigningKey:      "0123456789abcdef0123456789abcdef",
		Issuer:          "inventario",
		Audience:        "inventario-api",
		TokenTTLMinutes: 60,
		ClockSkew:       30 * time.Second,
	}
}

func testUser() *domain.User {
	user := domain.NewUser("Maria", "maria@example.com", "hash")
	user.ID = 42
	return user
}

func TestNewTokenManager_RejectsShortKey(t *testing.T) {
	cfg := testAuthConfig()
	cfg.SigningKey = "too-short"

	_, err := NewTokenManager(cfg)
	require.Error(t, err)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	token, expiresAt, err := manager.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "maria@example.com", claims.Email)
	require.Equal(t, "Maria", claims.Name)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.SigningKey = "ffffffffffffffffffffffffffffffff"
	other, err := NewTokenManager(otherCfg)
	require.NoError(t, err)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = manager.Parse(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.Issuer = "someone-else"
	other, err := NewTokenManager(otherCfg)
	require.NoError(t, err)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = manager.Parse(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsTamperedToken(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	token, _, err := manager.Issue(testUser())
	require.NoError(t, err)

	_, err = manager.Parse(token + "tampered")
	require.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	_, err = manager.Parse("not-a-token")
	require.Error(t, err)
}
