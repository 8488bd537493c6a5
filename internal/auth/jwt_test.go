package auth

import (
	"testing"
	"time"

	"project-management-api/internal/config"
	"project-management-api/internal/models"

	"github.com/stretchr/testify/require"
)

func testIssuer() *Issuer {
	return NewIssuer(config.AuthConfig{
		Secret:   "test-secret",
		Issuer:   "project-management-api",
		Audience: "project-management-clients",
		TokenTTL: time.Hour,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	iss := testIssuer()
	token, err := iss.GenerateToken(models.User{ID: "u-1", Name: "Alice", Role: models.RoleManager})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := iss.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, models.RoleManager, claims.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := testIssuer().ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := testIssuer().GenerateToken(models.User{ID: "u-1", Role: models.RoleTeamMember})
	require.NoError(t, err)

	other := NewIssuer(config.AuthConfig{Secret: "other", Issuer: "project-management-api", Audience: "project-management-clients", TokenTTL: time.Hour})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	token, err := testIssuer().GenerateToken(models.User{ID: "u-1", Role: models.RoleTeamMember})
	require.NoError(t, err)

	other := NewIssuer(config.AuthConfig{Secret: "test-secret", Issuer: "project-management-api", Audience: "someone-else", TokenTTL: time.Hour})
	_, err = other.ValidateToken(token)
	require.ErrorContains(t, err, "audience")
}

func TestValidateToken_Expired(t *testing.T) {
	iss := testIssuer()
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := iss.GenerateToken(models.User{ID: "u-1", Role: models.RoleTeamMember})
	require.NoError(t, err)

	_, err = testIssuer().ValidateToken(token)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	require.NoError(t, CheckPassword(hash, "password123"))
	require.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
	require.ErrorIs(t, CheckPassword("", "password123"), ErrInvalidCredentials)

	_, err = HashPassword("short")
	require.Error(t, err)
}
