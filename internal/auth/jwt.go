package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"explore_tours/internal/domain"
	"explore_tours/pkg/contextx"
	"explore_tours/pkg/errcodes"
)

type claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 bearer tokens carrying sub and roles claims.
type JWTAuthenticator struct {
	secret []byte
	now    func() time.Time
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret), now: time.Now}
}

func (a *JWTAuthenticator) WithClock(now func() time.Time) *JWTAuthenticator {
	a.now = now
	return a
}

func (a *JWTAuthenticator) Authenticate(token string) (contextx.Subject, error) {
	var c claims

	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return contextx.Subject{}, domain.NewUnauthorizedError(errcodes.AccessTokenExpired, "access token expired")
		}

		return contextx.Subject{}, domain.NewUnauthorizedError(errcodes.AccessTokenInvalid, "access token invalid")
	}

	if c.Subject == "" {
		return contextx.Subject{}, domain.NewUnauthorizedError(errcodes.AccessTokenInvalid, "access token has no subject")
	}

	return contextx.Subject{ID: c.Subject, Roles: c.Roles}, nil
}

// Issue signs a token for subject valid for ttl.
func (a *JWTAuthenticator) Issue(subject contextx.Subject, ttl time.Duration) (string, error) {
	now := a.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Roles: subject.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}
