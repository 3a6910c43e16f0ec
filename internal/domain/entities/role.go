package entities

import "strings"

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCommon Role = "comum"
)

// Permission representa uma permissão específica
type Permission string

const (
	// Customer permissions
	PermissionCustomerRead   Permission = "customers.read"
	PermissionCustomerWrite  Permission = "customers.write"
	PermissionCustomerDelete Permission = "customers.delete"

	// Product / policy / claim permissions
	PermissionProductWrite Permission = "products.write"
	PermissionPolicyWrite  Permission = "policies.write"
	PermissionClaimWrite   Permission = "claims.write"

	// Reports
	PermissionReportRead   Permission = "reports.read"
	PermissionReportExport Permission = "reports.export"

	// Users
	PermissionUserManage Permission = "users.manage"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionCustomerRead,
		PermissionCustomerWrite,
		PermissionCustomerDelete,
		PermissionProductWrite,
		PermissionPolicyWrite,
		PermissionClaimWrite,
		PermissionReportRead,
		PermissionReportExport,
		PermissionUserManage,
	},
	RoleCommon: {
		PermissionCustomerRead,
		PermissionCustomerWrite,
		PermissionProductWrite,
		PermissionPolicyWrite,
		PermissionClaimWrite,
		PermissionReportRead,
		PermissionReportExport,
	},
}

// ParseRole aceita "admin", "comum" e o alias "common"
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "comum", "common":
		return RoleCommon, true
	}
	return "", false
}

// GetPermissions retorna permissões de um role
func (r Role) GetPermissions() []Permission {
	return RolePermissions[r]
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
