package contextx

import (
	"context"
	"fmt"
	"slices"
)

// Subject is the authenticated caller of a request.
type Subject struct {
	ID    string
	Roles []string
}

type contextKeySubject struct{}

func (s Subject) String() string {
	return s.ID
}

func (s Subject) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

func WithSubject(ctx context.Context, subject Subject) context.Context {
	return context.WithValue(ctx, contextKeySubject{}, subject)
}

func SubjectFromContext(ctx context.Context) (Subject, error) {
	subject, ok := ctx.Value(contextKeySubject{}).(Subject)
	if !ok {
		return Subject{}, fmt.Errorf("subject: %w", ErrNoValue)
	}

	return subject, nil
}
