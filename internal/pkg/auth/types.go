package auth

import "github.com/golang-jwt/jwt/v5"

// ClaimsKey 是用于在 gin.Context 中存储和检索整个用户信息结构体的键。
const ClaimsKey = "user_claims"

// CustomClaims 定义了 JWT 的自定义 Claims 结构体。
// OrgCode 是操作者所属机构的编码，后台列表按它做租户过滤。
type CustomClaims struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	GroupID     uint     `json:"group_id"`
	OrgCode     string   `json:"org_code"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// ID 返回操作者的用户 ID，审计日志用它标识操作人。
func (c *CustomClaims) ID() uint {
	return c.UserID
}

// HasPermission 检查当前用户是否持有指定的权限能力。
// 编排层在执行敏感变更前调用它，而不是各处内嵌判断逻辑。
func (c *CustomClaims) HasPermission(name string) bool {
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
