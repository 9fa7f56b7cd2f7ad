//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"staybooker/internal/infra"
	"staybooker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryErrorKinds(t *testing.T) {
	notFound := infra.NewRepoErr(infra.KindNotFound, "row missing")
	assert.True(t, infra.IsKind(notFound, infra.KindNotFound))
	assert.False(t, infra.IsKind(notFound, infra.KindConflict))

	wrapped := errs.Wrap(notFound, "loading unit")
	assert.True(t, infra.IsKind(wrapped, infra.KindNotFound))

	cause := errors.New("connection refused")
	dbErr := infra.WrapRepoErr(infra.KindDBFailure, "query failed", cause)
	assert.True(t, infra.IsKind(dbErr, infra.KindDBFailure))
	assert.ErrorIs(t, dbErr, cause)

	assert.False(t, infra.IsKind(errors.New("plain"), infra.KindNotFound))
	assert.False(t, infra.IsKind(nil, infra.KindNotFound))
}
