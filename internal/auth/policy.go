package auth

import "github.com/dukerupert/airshop/internal/domain"

// Capability names one privileged action.
type Capability string

const (
	CapOrdersRead     Capability = "orders:read"
	CapOrdersWrite    Capability = "orders:write"
	CapOrdersDelete   Capability = "orders:delete"
	CapPaymentsRefund Capability = "payments:refund"
	CapAdminsManage   Capability = "admins:manage"
)

var roleCapabilities = map[domain.Role]map[Capability]bool{
	domain.RoleAdmin: {
		CapOrdersRead:     true,
		CapOrdersWrite:    true,
		CapOrdersDelete:   true,
		CapPaymentsRefund: true,
	},
	domain.RoleSuperadmin: {
		CapOrdersRead:     true,
		CapOrdersWrite:    true,
		CapOrdersDelete:   true,
		CapPaymentsRefund: true,
		CapAdminsManage:   true,
	},
}

// Can reports whether role grants capability. Unknown roles grant nothing.
func Can(role domain.Role, capability Capability) bool {
	return roleCapabilities[role][capability]
}

// Authorize returns a forbidden error unless the principal holds capability.
func Authorize(principal *domain.Principal, capability Capability) error {
	if principal == nil {
		return domain.Unauthorized("auth.authorize", "Authentication required")
	}
	if !Can(principal.Role, capability) {
		return domain.Forbidden("auth.authorize", "Insufficient permissions")
	}
	return nil
}
