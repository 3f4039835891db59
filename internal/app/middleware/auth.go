// internal/app/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/internal/pkg/auth"
	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/response"
)

type Middleware struct {
	jwtSecret []byte
}

func NewMiddleware(jwtSecret []byte) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// JWTAuth 是一个强制性的JWT认证中间件
func (m *Middleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Fail(c, http.StatusUnauthorized, "Token格式不正确")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1], m.jwtSecret)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "无效或过期的Token")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// AdminAuth 校验当前用户是否属于管理员用户组，必须在 JWTAuth 之后挂载
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "无法获取用户信息")
			c.Abort()
			return
		}
		if claims.GroupID != constant.AdminGroupID {
			response.Fail(c, http.StatusForbidden, "没有管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims 从请求上下文中取出认证通过的用户信息。
func GetClaims(c *gin.Context) (*auth.CustomClaims, bool) {
	raw, exists := c.Get(auth.ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*auth.CustomClaims)
	return claims, ok
}
