package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homecare-api/internal/domain"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	token, expiresAt, err := tm.Issue(Identity{SubjectID: "user-1", Role: domain.RoleStaff, Email: "a@b.c", Name: "Ann Lee"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.SubjectID)
	assert.Equal(t, domain.RoleStaff, identity.Role)
	assert.Equal(t, "a@b.c", identity.Email)
	assert.Equal(t, "Ann Lee", identity.Name)
}

func TestIssuedTokenUsesCanonicalClaimNames(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	token, _, err := tm.Issue(Identity{SubjectID: "user-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	payload := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload["sub"])
	assert.Equal(t, "admin", payload["role"])
	assert.NotContains(t, payload, "userId")
	assert.NotContains(t, payload, "id")
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("other-secret", 60).Issue(Identity{SubjectID: "user-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, 60).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	issuer := NewTokenManager(testSecret, 60).WithClock(func() time.Time { return past })
	token, _, err := issuer.Issue(Identity{SubjectID: "user-1", Role: domain.RoleStaff})
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, 60).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	for _, token := range []string{"not-a-jwt", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, 60).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	claims := &Claims{Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, 60).Verify(token)
	assert.ErrorIs(t, err, ErrMalformedClaim)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyEmpty(t *testing.T) {
	_, err := NewTokenManager(testSecret, 60).Verify("  ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = BearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "Bearer    ", "Basic dXNlcjpwYXNz", "Token abc"} {
		_, err := BearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, header)
	}
}
