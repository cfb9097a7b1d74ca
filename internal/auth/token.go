package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/homecare-api/internal/domain"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// Sentinels for the verifier failure kinds. Compare with errors.Is.
var (
	ErrMissingToken   = apperrors.NewMissingToken("missing bearer token")
	ErrInvalidToken   = apperrors.NewInvalidToken("invalid or expired token")
	ErrMalformedClaim = apperrors.NewMalformedClaim("token has no subject")
)

const bearerPrefix = "Bearer "

// Claims is the token payload. Issuer and verifier both use this type so the
// subject id always travels as "sub".
type Claims struct {
	Role  domain.Role `json:"role"`
	Email string      `json:"email,omitempty"`
	Name  string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 24 * 60
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    time.Now,
	}
}

// WithClock overrides the time source used for issuing and expiry checks.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// Issue signs a token for the identity.
func (tm *TokenManager) Issue(identity Identity) (string, time.Time, error) {
	if identity.SubjectID == "" {
		return "", time.Time{}, ErrMalformedClaim
	}
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role:  identity.Role,
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates the signature and expiry of token and decodes its identity.
func (tm *TokenManager) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperrors.NewInvalidToken("token expired")
		}
		return Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrMalformedClaim
	}
	return Identity{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		Email:     claims.Email,
		Name:      claims.Name,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
