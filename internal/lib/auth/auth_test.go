package auth

import (
	"testing"
	"time"

	"eventManager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokens(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour)
	user := &models.User{ID: 7, Username: "org", Role: models.RoleOrganizer}

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "org", claims.Username)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: 7, Role: models.RoleOrganizer}, actor)

	_, err = NewTokens("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Now().Add(-2 * time.Hour)
	tokens := NewTokens("secret", time.Hour)
	tokens.now = func() time.Time { return issued }

	token, err := tokens.Issue(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsActorRejectsBadSubject(t *testing.T) {
	t.Parallel()

	c := &Claims{Role: models.RoleAdmin}
	c.Subject = "abc"
	_, err := c.Actor()
	assert.ErrorIs(t, err, ErrInvalidToken)

	c.Subject = "3"
	c.Role = "root"
	_, err = c.Actor()
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswords(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
