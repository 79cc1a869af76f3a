// Package authz maps (operation, role) to an allow/deny decision. Keeping
// the table here, away from the transport, lets the policy be tested in
// isolation and keeps route registration down to naming the operation.
package authz

import "github.com/re-fagiano/Project-feffoemaurizia/internal/domain"

// Operation names one guarded capability of the API surface.
type Operation string

const (
	OpUserManage          Operation = "user.manage"
	OpClientRead          Operation = "client.read"
	OpClientWrite         Operation = "client.write"
	OpScopeRead           Operation = "scope.read"
	OpScopeWrite          Operation = "scope.write"
	OpWorkTypeRead        Operation = "worktype.read"
	OpWorkTypeWrite       Operation = "worktype.write"
	OpRequestRead         Operation = "request.read"
	OpRequestWrite        Operation = "request.write"
	OpRequestDelete       Operation = "request.delete"
	OpActivityRead        Operation = "activity.read"
	OpActivityWrite       Operation = "activity.write"
	OpTimeTrack           Operation = "activity.timetrack"
	OpBillingSet          Operation = "activity.billing"
	OpContractTemplateRead  Operation = "contract.template.read"
	OpContractTemplateWrite Operation = "contract.template.write"
	OpClientContractRead  Operation = "contract.instance.read"
	OpClientContractWrite Operation = "contract.instance.write"
	OpContractTopUp       Operation = "contract.topup"
	OpScheduleRead        Operation = "schedule.read"
	OpScheduleWrite       Operation = "schedule.write"
	OpChatRead            Operation = "chat.read"
	OpChatWrite           Operation = "chat.write"
)

var roleLevel = map[domain.UserRole]int{
	domain.RoleClient:     1,
	domain.RoleTechnician: 2,
	domain.RoleSupervisor: 3,
	domain.RoleAdmin:      4,
}

// minRole holds the weakest role allowed to perform each operation.
// Operations absent from the table are denied to everyone.
var minRole = map[Operation]domain.UserRole{
	OpUserManage:            domain.RoleAdmin,
	OpClientRead:            domain.RoleClient,
	OpClientWrite:           domain.RoleTechnician,
	OpScopeRead:             domain.RoleClient,
	OpScopeWrite:            domain.RoleAdmin,
	OpWorkTypeRead:          domain.RoleClient,
	OpWorkTypeWrite:         domain.RoleAdmin,
	OpRequestRead:           domain.RoleClient,
	OpRequestWrite:          domain.RoleClient,
	OpRequestDelete:         domain.RoleSupervisor,
	OpActivityRead:          domain.RoleClient,
	OpActivityWrite:         domain.RoleTechnician,
	OpTimeTrack:             domain.RoleTechnician,
	OpBillingSet:            domain.RoleTechnician,
	OpContractTemplateRead:  domain.RoleClient,
	OpContractTemplateWrite: domain.RoleAdmin,
	OpClientContractRead:    domain.RoleClient,
	OpClientContractWrite:   domain.RoleSupervisor,
	OpContractTopUp:         domain.RoleAdmin,
	OpScheduleRead:          domain.RoleClient,
	OpScheduleWrite:         domain.RoleAdmin,
	OpChatRead:              domain.RoleClient,
	OpChatWrite:             domain.RoleClient,
}

// Allow reports whether role may perform op.
func Allow(op Operation, role domain.UserRole) bool {
	min, ok := minRole[op]
	if !ok {
		return false
	}
	return roleLevel[role] >= roleLevel[min]
}

// CanTransition reports whether role may drive request/activity lifecycle
// changes. Lifecycle writes are operational work, so clients are out.
func CanTransition(role domain.UserRole) bool {
	return roleLevel[role] >= roleLevel[domain.RoleTechnician]
}
