package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"explore_tours/pkg/contextx"
)

func TestSubject(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	subject, err := contextx.SubjectFromContext(ctx)
	rq.Equal(contextx.Subject{}, subject)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "subject: no value in context")

	ctx = contextx.WithSubject(ctx, contextx.Subject{ID: "csr-1", Roles: []string{"CSR"}})

	subject, err = contextx.SubjectFromContext(ctx)
	rq.NoError(err)
	rq.Equal("csr-1", subject.String())
	rq.True(subject.HasRole("CSR"))
	rq.False(subject.HasRole("ADMIN"))
}
