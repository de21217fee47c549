package opserr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")
	if e.Message == "changed" {
		t.Errorf("Expected immutable error with message not equal to 'changed', got '%s'", e.Message)
	}
	if changedE.Message != "changed" {
		t.Errorf("Expected immutable error with message equal to 'changed', got '%s'", changedE.Message)
	}
}

func TestIsMatchesDerivedErrors(t *testing.T) {
	derived := ErrConfiguration.Msg("table is required")
	assert.True(t, errors.Is(derived, ErrConfiguration))
	assert.False(t, errors.Is(derived, ErrExecution))
	assert.Equal(t, "CONFIGURATION_ERROR: table is required", derived.Error())
}

func TestInvalidViolationsDoesNotMutateSentinel(t *testing.T) {
	e := NewInvalidViolations([]string{"primary.spec.table"})
	assert.NotNil(t, e.Extras)
	assert.Nil(t, ErrInvalidReq.Extras)
}
