package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassValidation, ClassOf(Validation("bad input")))
	assert.Equal(t, ClassNotFound, ClassOf(NotFound("Word", "w-1")))
	assert.Equal(t, ClassPreconditionFailed, ClassOf(Precondition("locked")))
	assert.Equal(t, ClassStoreFailure, ClassOf(Store("find", "Word", errors.New("boom"))))

	// Errors from outside the taxonomy are treated as store failures.
	assert.Equal(t, ClassStoreFailure, ClassOf(errors.New("plain")))
}

func TestClassOf_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("Statement", "s-1"))
	assert.Equal(t, ClassNotFound, ClassOf(err))
	assert.True(t, Is(err, ClassNotFound))
}

func TestStore_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("cast vote on", "Statement", cause)

	assert.Equal(t, "cast vote on Statement: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNotFound_Message(t *testing.T) {
	assert.Equal(t, `Word "w-1" not found`, NotFound("Word", "w-1").Error())
}
