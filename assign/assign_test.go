package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeterministicID(t *testing.T) {
	a := New("pal", 31821, "a1", 0)
	b := New("pal", 31821, "a1", 0)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.ID)

	assert.NotEqual(t, a.ID, New("pal", 31821, "a2", 0).ID)
	assert.NotEqual(t, a.ID, New("pal", 31821, "a1", 500).ID)
	assert.NotEqual(t, a.ID, New("pri", 31821, "a1", 0).ID)
}

func TestCastAt(t *testing.T) {
	a := New("pal", 1, "a1", 2000)
	assert.EqualValues(t, 8000, a.CastAt(10000))
	assert.Equal(t, "pal", string(a.Key().Character))
}

func TestStateString(t *testing.T) {
	var s State
	assert.Equal(t, Proposed, s.Status, "zero value is proposed")
	assert.Equal(t, "proposed", s.String())
	assert.Equal(t, "valid", StateValid.String())
	assert.True(t, StateValid.IsValid())
	assert.Equal(t, "invalid(no-charge-available)", InvalidState(ReasonNoCharge).String())
	assert.False(t, InvalidState(ReasonDanglingReference).IsValid())
}
