package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testSecret          = "test-secret-key-for-jwt-testing"
	testWrongSecret     = "wrong-secret-key-for-jwt-testing"
	testTokenDuration   = 1 * time.Hour
	testExpiredDuration = -1 * time.Hour
)

func createTestUser(role models.Role) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "testuser",
		Email:    "test@example.com",
		Role:     role,
	}
}

func TestGenerateToken_Success(t *testing.T) {
	user := createTestUser(models.RoleReader)

	token, err := GenerateToken(user, testSecret, testTokenDuration, TokenTypeAccess)

	require.NoError(t, err, "GenerateToken should not return error for valid input")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.Contains(t, token, ".", "JWT token should contain dots")
}

func TestValidateToken_RoundTrip(t *testing.T) {
	roles := []models.Role{models.RoleAdmin, models.RoleAuthor, models.RoleReader}

	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			user := createTestUser(role)

			token, err := GenerateToken(user, testSecret, testTokenDuration, TokenTypeAccess)
			require.NoError(t, err)

			claims, err := ValidateToken(token, testSecret, TokenTypeAccess)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID, "Token should carry the user id")
			assert.Equal(t, role, claims.Role, "Token should carry the role claim")
			assert.Equal(t, TokenTypeAccess, claims.TokenType)
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := createTestUser(models.RoleReader)

	token, err := GenerateToken(user, testSecret, testTokenDuration, TokenTypeAccess)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testWrongSecret, TokenTypeAccess)

	assert.Error(t, err, "Token signed with another secret must not validate")
	assert.Nil(t, claims)
}

func TestValidateToken_Expired(t *testing.T) {
	user := createTestUser(models.RoleReader)

	token, err := GenerateToken(user, testSecret, testExpiredDuration, TokenTypeAccess)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret, TokenTypeAccess)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Tampered(t *testing.T) {
	user := createTestUser(models.RoleReader)

	token, err := GenerateToken(user, testSecret, testTokenDuration, TokenTypeAccess)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"

	claims, err := ValidateToken(tampered, testSecret, TokenTypeAccess)

	assert.Error(t, err, "Tampered token must not validate")
	assert.Nil(t, claims)
}

// A refresh token must never pass where an access token is expected, and
// vice versa.
func TestValidateToken_TypeMismatch(t *testing.T) {
	user := createTestUser(models.RoleAuthor)

	refresh, err := GenerateToken(user, testSecret, testTokenDuration, TokenTypeRefresh)
	require.NoError(t, err)

	claims, err := ValidateToken(refresh, testSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	assert.Nil(t, claims)

	access, err := GenerateToken(user, testSecret, testTokenDuration, TokenTypeAccess)
	require.NoError(t, err)

	claims, err = ValidateToken(access, testSecret, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	assert.Nil(t, claims)
}

func TestGenerateTokenPair(t *testing.T) {
	user := createTestUser(models.RoleAuthor)

	pair, err := GenerateTokenPair(user, testSecret, 15*time.Minute, 7*24*time.Hour)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	accessClaims, err := ValidateToken(pair.AccessToken, testSecret, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, accessClaims.TokenType)

	refreshClaims, err := ValidateToken(pair.RefreshToken, testSecret, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
	assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time),
		"Refresh token should outlive the access token")
}
