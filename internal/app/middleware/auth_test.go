package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/internal/pkg/auth"
	"github.com/qingshu-lab/qingshu-app/pkg/constant"
)

var testSecret = []byte("test-secret")

// newProtectedEngine 挂载认证链和一个探针接口。
func newProtectedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewMiddleware(testSecret)
	engine := gin.New()
	engine.GET("/probe", mw.JWTAuth(), mw.AdminAuth(), func(c *gin.Context) {
		claims, _ := GetClaims(c)
		c.String(http.StatusOK, claims.OrgCode)
	})
	return engine
}

func requestWithToken(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	engine := newProtectedEngine()

	t.Run("未携带Token", func(t *testing.T) {
		w := requestWithToken(engine, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("状态码 = %d, 期望 401", w.Code)
		}
	})

	t.Run("格式不正确", func(t *testing.T) {
		w := requestWithToken(engine, "Basic abc")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("状态码 = %d, 期望 401", w.Code)
		}
	})

	t.Run("密钥不匹配", func(t *testing.T) {
		token, err := auth.GenerateToken(1, "admin", constant.AdminGroupID, "org01", nil, []byte("other-secret"))
		if err != nil {
			t.Fatalf("生成 Token 失败: %v", err)
		}
		w := requestWithToken(engine, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("状态码 = %d, 期望 401", w.Code)
		}
	})

	t.Run("合法Token放行并注入用户信息", func(t *testing.T) {
		token, err := auth.GenerateToken(1, "admin", constant.AdminGroupID, "org01", nil, testSecret)
		if err != nil {
			t.Fatalf("生成 Token 失败: %v", err)
		}
		w := requestWithToken(engine, "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Fatalf("状态码 = %d, 应答 %s", w.Code, w.Body.String())
		}
		if w.Body.String() != "org01" {
			t.Errorf("机构编码 = %q", w.Body.String())
		}
	})
}

func TestAdminAuth(t *testing.T) {
	engine := newProtectedEngine()

	token, err := auth.GenerateToken(2, "editor", 2, "org01", nil, testSecret)
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	w := requestWithToken(engine, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Errorf("状态码 = %d, 期望 403", w.Code)
	}
}
