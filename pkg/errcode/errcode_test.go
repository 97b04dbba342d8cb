package errcode

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodeValuesAreStable(t *testing.T) {
	// The numeric values cross the boundary; a reorder would break callers.
	assert.Equal(t, Code(0), Ok)
	assert.Equal(t, Code(5), UnexpectedError)
	assert.Equal(t, Code(14), SpendPlanError)
	assert.Equal(t, Code(51), InvalidLength)
	assert.Equal(t, Code(63), PrecisionTooLarge)
	assert.Equal(t, Code(76), CluePlanDecodeError)
}

func TestEveryCodeHasAName(t *testing.T) {
	for c := Ok; c <= CluePlanDecodeError; c++ {
		assert.NotEmpty(t, codeNames[c], "code %d has no name", c)
	}
	assert.Equal(t, "code(999)", Code(999).String())
}

func TestFromError(t *testing.T) {
	assert.Equal(t, Ok, FromError(nil))
	assert.Equal(t, InvalidFq, FromError(InvalidFq))
	assert.Equal(t, InvalidFq, FromError(errors.Wrap(InvalidFq, "decode note")))
	assert.Equal(t, InvalidFq, FromError(fmt.Errorf("decode: %w", InvalidFq)))

	relabelled := Wrap(InvalidFq, SpendPlanError, "spend body")
	assert.Equal(t, SpendPlanError, FromError(relabelled))
	assert.Equal(t, SpendPlanError, FromError(errors.Wrap(relabelled, "effect hash")))
	assert.ErrorIs(t, relabelled, InvalidFq)

	assert.Equal(t, UnexpectedError, FromError(errors.New("boom")))
}

func TestErrorMessage(t *testing.T) {
	err := New(InvalidLength, "output buffer too small")
	assert.Equal(t, "[invalid length] output buffer too small", err.Error())

	wrapped := Wrap(InvalidAddress, OutputPlanError, "destination")
	assert.Equal(t, "[output plan error] destination: invalid address", wrapped.Error())
}
