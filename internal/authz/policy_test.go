package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/authz"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

func TestRoleOrdering(t *testing.T) {
	// technician-level operations
	for _, op := range []authz.Operation{authz.OpClientWrite, authz.OpActivityWrite, authz.OpTimeTrack, authz.OpBillingSet} {
		assert.False(t, authz.Allow(op, domain.RoleClient), string(op))
		assert.True(t, authz.Allow(op, domain.RoleTechnician), string(op))
		assert.True(t, authz.Allow(op, domain.RoleSupervisor), string(op))
		assert.True(t, authz.Allow(op, domain.RoleAdmin), string(op))
	}

	// supervisor-level operations
	for _, op := range []authz.Operation{authz.OpRequestDelete, authz.OpClientContractWrite} {
		assert.False(t, authz.Allow(op, domain.RoleTechnician), string(op))
		assert.True(t, authz.Allow(op, domain.RoleSupervisor), string(op))
	}

	// admin-only operations
	for _, op := range []authz.Operation{
		authz.OpUserManage, authz.OpScopeWrite, authz.OpWorkTypeWrite,
		authz.OpContractTemplateWrite, authz.OpContractTopUp, authz.OpScheduleWrite,
	} {
		assert.False(t, authz.Allow(op, domain.RoleSupervisor), string(op))
		assert.True(t, authz.Allow(op, domain.RoleAdmin), string(op))
	}
}

func TestSelfServiceReads(t *testing.T) {
	for _, op := range []authz.Operation{
		authz.OpRequestRead, authz.OpChatRead, authz.OpChatWrite,
		authz.OpScopeRead, authz.OpClientContractRead, authz.OpScheduleRead,
	} {
		assert.True(t, authz.Allow(op, domain.RoleClient), string(op))
	}
}

func TestUnknownOperationDenied(t *testing.T) {
	assert.False(t, authz.Allow(authz.Operation("nope"), domain.RoleAdmin))
}

func TestCanTransition(t *testing.T) {
	assert.False(t, authz.CanTransition(domain.RoleClient))
	assert.True(t, authz.CanTransition(domain.RoleTechnician))
	assert.True(t, authz.CanTransition(domain.RoleAdmin))
}
