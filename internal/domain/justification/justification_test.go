package justification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanValidate(t *testing.T) {
	assert.NoError(t, CanValidate(StatusPending, true))

	assert.ErrorIs(t, CanValidate(StatusPending, false), ErrNoJustification)
	assert.ErrorIs(t, CanValidate(StatusApproved, true), ErrAlreadyValidated)
	assert.ErrorIs(t, CanValidate(StatusRejected, true), ErrAlreadyValidated)

	// missing justification is reported before the state check
	assert.ErrorIs(t, CanValidate(StatusApproved, false), ErrNoJustification)
}

func TestParseDecision(t *testing.T) {
	status, err := ParseDecision("APPROVED")
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	status, err = ParseDecision("REJECTED")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, status)

	for _, bad := range []string{"", "PENDING", "approved", "ACCEPTED"} {
		_, err := ParseDecision(bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, "input %q", bad)
	}
}
