package identity

import "strings"

// Role is the closed set of roles a user can hold
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// AllRoles returns every known role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleCashier}
}

// ParseRole converts a string into a Role, case-insensitively
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// Permission is a coarse capability checked per route
type Permission string

const (
	PermUserRegister  Permission = "user:register"
	PermUserRead      Permission = "user:read"
	PermUserManage    Permission = "user:manage"
	PermProductRead   Permission = "product:read"
	PermProductWrite  Permission = "product:write"
	PermSaleRead      Permission = "sale:read"
	PermSaleCreate    Permission = "sale:create"
	PermSaleCancel    Permission = "sale:cancel"
	PermFinanceRead   Permission = "finance:read"
	PermFinanceWrite  Permission = "finance:write"
	PermReportView    Permission = "report:view"
	PermSettingsRead  Permission = "settings:read"
	PermSettingsWrite Permission = "settings:write"
	PermAuditLogRead  Permission = "audit:read"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermUserRegister, PermUserRead, PermUserManage,
		PermProductRead, PermProductWrite,
		PermSaleRead, PermSaleCreate, PermSaleCancel,
		PermFinanceRead, PermFinanceWrite,
		PermReportView,
		PermSettingsRead, PermSettingsWrite,
		PermAuditLogRead,
	},
	RoleManager: {
		PermUserRead,
		PermProductRead, PermProductWrite,
		PermSaleRead, PermSaleCreate, PermSaleCancel,
		PermFinanceRead, PermFinanceWrite,
		PermReportView,
		PermSettingsRead,
	},
	RoleCashier: {
		PermProductRead,
		PermSaleRead, PermSaleCreate,
		PermFinanceRead,
		PermSettingsRead,
	},
}

// Permissions returns the permissions granted to the role
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Can reports whether the role grants the permission
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// RolesWith returns the roles that grant the permission, in AllRoles order
func RolesWith(p Permission) []Role {
	roles := make([]Role, 0, 3)
	for _, r := range AllRoles() {
		if r.Can(p) {
			roles = append(roles, r)
		}
	}
	return roles
}
