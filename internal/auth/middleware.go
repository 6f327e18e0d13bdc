package auth

import (
	"net/http"
	"strings"

	"explore_tours/internal/domain"
	"explore_tours/pkg/contextx"
	"explore_tours/pkg/errcodes"
	"explore_tours/pkg/httpx/reply"
	"explore_tours/pkg/logx"
)

type Authenticator interface {
	Authenticate(token string) (contextx.Subject, error)
}

// Guard protects mutating routes. Without an authenticator every request is
// let through as an anonymous subject.
type Guard struct {
	authenticator Authenticator
	authorizer    Authorizer
}

func NewGuard(authenticator Authenticator, authorizer Authorizer) *Guard {
	return &Guard{authenticator: authenticator, authorizer: authorizer}
}

// NewLocalGuard allows everything.
func NewLocalGuard() *Guard {
	return &Guard{authorizer: AllowAll{}}
}

func (g *Guard) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			subject := contextx.Subject{ID: "anonymous"}

			if g.authenticator != nil {
				token, ok := bearerToken(r)
				if !ok {
					reply.Error(ctx, w, domain.NewUnauthorizedError(errcodes.AccessTokenInvalid, "bearer token required"))
					return
				}

				var err error
				if subject, err = g.authenticator.Authenticate(token); err != nil {
					reply.Error(ctx, w, err)
					return
				}
			}

			if !g.authorizer.IsAuthorized(action, subject) {
				reply.Error(ctx, w, domain.NewForbiddenError(errcodes.Forbidden, "not allowed to "+string(action)))
				return
			}

			ctx = contextx.WithSubject(ctx, subject)
			ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.FieldSubject, subject.String()))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}
