// account-hub/app/domain/permission.go
package domain

type Permission string

const (
	// アカウントデータ権限
	PermissionAccountRead    Permission = "account:read"
	PermissionAccountRefresh Permission = "account:refresh"

	// 課金データ権限
	PermissionBillingRead Permission = "billing:read"

	// テナント管理権限
	PermissionTenantManage Permission = "tenant:manage"
	PermissionTenantSwitch Permission = "tenant:switch"

	// メンバー管理権限
	PermissionMemberRead   Permission = "member:read"
	PermissionMemberInvite Permission = "member:invite"
	PermissionMemberManage Permission = "member:manage"

	// 運用権限
	PermissionOpsReplay Permission = "ops:replay"

	// 管理者権限
	PermissionAdminAll Permission = "admin:all"
)

// ロール別権限定義
var rolePermissions = map[TenantRole][]Permission{
	TenantRoleOwner: {
		PermissionAdminAll,
	},
	TenantRoleAdmin: {
		PermissionAccountRead, PermissionAccountRefresh,
		PermissionBillingRead,
		PermissionTenantManage, PermissionTenantSwitch,
		PermissionMemberRead, PermissionMemberInvite, PermissionMemberManage,
		PermissionOpsReplay,
	},
	TenantRoleMember: {
		PermissionAccountRead, PermissionAccountRefresh,
		PermissionTenantSwitch,
		PermissionMemberRead,
	},
}

// HasPermission はロールが特定の権限を持っているかチェック
func (r TenantRole) HasPermission(permission Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
		// 管理者権限は全てを含む
		if p == PermissionAdminAll {
			return true
		}
	}
	return false
}

// HasPermission checks the caller's permission within the resolved tenant
func (sc *SessionContext) HasPermission(permission Permission) bool {
	return sc.Role.HasPermission(permission)
}

// IsAdmin returns true if the caller can administer the resolved tenant
func (sc *SessionContext) IsAdmin() bool {
	return sc.Role == TenantRoleOwner || sc.Role == TenantRoleAdmin
}
