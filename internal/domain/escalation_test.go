package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEscalationTarget(t *testing.T) {
	target, err := ParseEscalationTarget("system_role", "it_manager")
	require.NoError(t, err)
	assert.Equal(t, SystemRoleTarget{Role: RoleITManager}, target)

	target, err = ParseEscalationTarget("USER", " u-1 ")
	require.NoError(t, err)
	assert.Equal(t, UserTarget{ID: "u-1"}, target)

	_, err = ParseEscalationTarget("system_role", "SUPERUSER")
	assert.ErrorIs(t, err, ErrInvalidEscalationTarget)

	_, err = ParseEscalationTarget("team", "t-1")
	assert.ErrorIs(t, err, ErrInvalidEscalationTarget)

	_, err = ParseEscalationTarget("custom_role", "")
	assert.ErrorIs(t, err, ErrInvalidEscalationTarget)
}

func TestEscalationColumns_ExactlyOneSet(t *testing.T) {
	targets := []EscalationTarget{
		SystemRoleTarget{Role: RoleAgent},
		CustomRoleTarget{ID: "cr-1"},
		UserTarget{ID: "u-1"},
	}
	for _, target := range targets {
		sysRole, customRole, user := EscalationColumns(target)
		set := 0
		for _, col := range []*string{sysRole, customRole, user} {
			if col != nil {
				set++
			}
		}
		assert.Equal(t, 1, set, "target %T", target)

		back, err := EscalationTargetFromColumns(sysRole, customRole, user)
		require.NoError(t, err)
		assert.Equal(t, target, back)
	}
}

func TestEscalationTargetFromColumns_RejectsMultiple(t *testing.T) {
	role, id := "AGENT", "u-1"
	_, err := EscalationTargetFromColumns(&role, nil, &id)
	assert.ErrorIs(t, err, ErrInvalidEscalationTarget)

	target, err := EscalationTargetFromColumns(nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestTicketStatusIsOpen(t *testing.T) {
	assert.True(t, TicketStatusOpen.IsOpen())
	assert.True(t, TicketStatusPending.IsOpen())
	assert.False(t, TicketStatusResolved.IsOpen())
	assert.False(t, TicketStatusClosed.IsOpen())
}

func TestTenantAssignmentCovers(t *testing.T) {
	hardware := "Hardware"
	software := "Software"
	all := TenantAssignment{}
	scoped := TenantAssignment{Category: &hardware}

	assert.True(t, all.Covers(&software))
	assert.True(t, all.Covers(nil))
	assert.True(t, scoped.Covers(&hardware))
	assert.False(t, scoped.Covers(&software))
	assert.False(t, scoped.Covers(nil))
}
