package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalMachine(t *testing.T) {
	sm := NewApprovalMachine()

	assert.True(t, sm.CanTransition(StatusPending, StatusApproved))
	assert.True(t, sm.CanTransition(StatusPending, StatusRejected))
	assert.False(t, sm.CanTransition(StatusPending, StatusValidated))
	assert.False(t, sm.CanTransition(StatusPending, StatusPending))

	// Decided records stay decided.
	assert.False(t, sm.CanTransition(StatusApproved, StatusRejected))
	assert.False(t, sm.CanTransition(StatusApproved, StatusApproved))
	assert.False(t, sm.CanTransition(StatusRejected, StatusApproved))

	assert.True(t, sm.IsTerminal(StatusApproved))
	assert.True(t, sm.IsTerminal(StatusRejected))
	assert.False(t, sm.IsTerminal(StatusPending))
}

func TestValidationMachine(t *testing.T) {
	sm := NewValidationMachine()

	assert.True(t, sm.CanTransition(StatusPending, StatusValidated))
	assert.True(t, sm.CanTransition(StatusPending, StatusRejected))
	assert.False(t, sm.CanTransition(StatusPending, StatusApproved))
	assert.False(t, sm.CanTransition(StatusValidated, StatusRejected))
	assert.True(t, sm.IsTerminal(StatusValidated))
}

func TestTransitionError(t *testing.T) {
	sm := NewApprovalMachine()

	require.NoError(t, sm.Transition(StatusPending, StatusApproved))

	err := sm.Transition(StatusApproved, StatusRejected)
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusApproved, invalid.From)
	assert.Equal(t, StatusRejected, invalid.To)
	assert.Empty(t, invalid.Allowed)
	assert.Contains(t, err.Error(), "Refusé")
}

func TestUnknownStatus(t *testing.T) {
	sm := NewApprovalMachine()

	assert.False(t, sm.CanTransition(Status("Brouillon"), StatusApproved))
	assert.False(t, sm.IsTerminal(Status("Brouillon")))
	assert.Empty(t, sm.AllowedTransitions(Status("Brouillon")))
}

func TestCustomMachine(t *testing.T) {
	sm := NewStateMachine(map[Status][]Status{
		Status("Planifiée"): {Status("En cours")},
		Status("En cours"):  {Status("Terminée")},
		Status("Terminée"):  {},
	})

	assert.True(t, sm.CanTransition(Status("Planifiée"), Status("En cours")))
	assert.False(t, sm.CanTransition(Status("Planifiée"), Status("Terminée")))
	assert.True(t, sm.IsTerminal(Status("Terminée")))
}
