package auth

import "github.com/labsalud/api/internal/enum"

// Capability is a single permission a role grants. Handlers and services check
// capabilities instead of re-deriving role logic at every call site.
type Capability string

const (
	CapabilityManageUsers      Capability = "users:manage"
	CapabilityManageCatalog    Capability = "catalog:manage"
	CapabilityRegisterPatients Capability = "patients:register"
	CapabilityCreateOrders     Capability = "orders:create"
	CapabilityAdvanceOrders    Capability = "orders:advance"
	CapabilityCaptureResults   Capability = "results:capture"
	CapabilitySettle           Capability = "billing:settle"
)

// roleCapabilities maps each role to the set of capabilities it holds.
// ADMIN holds everything by construction, see Can.
var roleCapabilities = map[string][]Capability{
	enum.UserRoleReception: {
		CapabilityRegisterPatients,
		CapabilityCreateOrders,
	},
	enum.UserRoleTechnician: {
		CapabilityCaptureResults,
		CapabilityAdvanceOrders,
	},
	enum.UserRoleCashier: {
		CapabilityCreateOrders,
		CapabilitySettle,
	},
}

// Can reports whether the claims' role grants the given capability.
func (c *Claims) Can(cap Capability) bool {
	if c == nil {
		return false
	}
	if c.Role == enum.UserRoleAdmin {
		return true
	}
	for _, granted := range roleCapabilities[c.Role] {
		if granted == cap {
			return true
		}
	}
	return false
}
