package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusTransitions checks the full transition table: pending may move to
// either approval or rejection, adminApproved may only move forward or be
// rejected, and the terminal states accept nothing.
func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAdminApproved, true},
		{StatusPending, StatusApproverApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusAdminApproved, StatusApproverApproved, true},
		{StatusAdminApproved, StatusRejected, true},
		{StatusAdminApproved, StatusAdminApproved, false},
		{StatusApproverApproved, StatusRejected, false},
		{StatusApproverApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusAdminApproved, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminality(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAdminApproved.IsTerminal())
	assert.True(t, StatusApproverApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	// Unknown strings count as terminal so nothing can be moved out of them.
	assert.True(t, Status("garbage").IsTerminal())
}

// TestRoleMaySet verifies the permission table: admins set the intermediate
// approval, approvers set the final one, both may reject, and plain users may
// set nothing at all.
func TestRoleMaySet(t *testing.T) {
	tests := []struct {
		role   Role
		target Status
		want   bool
	}{
		{RoleAdmin, StatusAdminApproved, true},
		{RoleAdmin, StatusRejected, true},
		{RoleAdmin, StatusApproverApproved, false},
		{RoleApprover, StatusApproverApproved, true},
		{RoleApprover, StatusRejected, true},
		{RoleApprover, StatusAdminApproved, false},
		{RoleUser, StatusAdminApproved, false},
		{RoleUser, StatusApproverApproved, false},
		{RoleUser, StatusRejected, false},
		{RoleAdmin, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" sets "+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.MaySet(tt.target))
		})
	}
}

func TestApproveTarget(t *testing.T) {
	got, ok := ApproveTarget(RoleAdmin)
	require.True(t, ok)
	assert.Equal(t, StatusAdminApproved, got)

	got, ok = ApproveTarget(RoleApprover)
	require.True(t, ok)
	assert.Equal(t, StatusApproverApproved, got)

	_, ok = ApproveTarget(RoleUser)
	assert.False(t, ok)
}

// TestTransitionSources pins down the allowed source sets fed into the
// compare-and-swap update.  An approver can approve straight from pending, so
// the admin step is a visible intermediate rather than a required gate.
func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t,
		[]Status{StatusPending},
		TransitionSources(RoleAdmin, StatusAdminApproved))

	assert.ElementsMatch(t,
		[]Status{StatusPending, StatusAdminApproved},
		TransitionSources(RoleApprover, StatusApproverApproved))

	assert.ElementsMatch(t,
		[]Status{StatusPending, StatusAdminApproved},
		TransitionSources(RoleAdmin, StatusRejected))

	assert.ElementsMatch(t,
		[]Status{StatusPending, StatusAdminApproved},
		TransitionSources(RoleApprover, StatusRejected))

	// Roles without the permission get no sources at all.
	assert.Nil(t, TransitionSources(RoleUser, StatusRejected))
	assert.Nil(t, TransitionSources(RoleApprover, StatusAdminApproved))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "adminApproved", "approverApproved", "rejected"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}
	_, err := ParseStatus("approved")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "approver", "user"} {
		got, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), got)
	}
	_, err := ParseRole("Admin")
	assert.Error(t, err)
	_, err = ParseRole("owner")
	assert.Error(t, err)
}
