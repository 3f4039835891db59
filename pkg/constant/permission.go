// pkg/constant/permission.go
package constant

// 后台操作所需的权限能力名。权限列表由登录时签发的 Token 携带。
const (
	PermissionAdminArticle         = "admin_article"
	PermissionAdminSettingSecurity = "admin_setting_security"
)

// AdminGroupID 约定管理员的用户组ID为 1。
const AdminGroupID uint = 1
