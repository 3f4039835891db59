// pkg/service/security/guard.go
package security

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/service/auditlog"
	"github.com/qingshu-lab/qingshu-app/pkg/service/setting"
)

// Operator 表示一次请求的操作者，由鉴权层的 Claims 实现。
// Guard 只关心权限判定与审计身份，不关心 Token 细节。
type Operator interface {
	HasPermission(name string) bool
	ID() uint
}

// AddDomainResult 是一次白名单放行请求的结果。
type AddDomainResult struct {
	Host    string `json:"host"`
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

// Guard 维护允许嵌入外部内容的域名白名单。
type Guard struct {
	settingSvc setting.SettingService
	auditSvc   *auditlog.Service
}

// NewGuard 是 Guard 的构造函数
func NewGuard(settingSvc setting.SettingService, auditSvc *auditlog.Service) *Guard {
	return &Guard{
		settingSvc: settingSvc,
		auditSvc:   auditSvc,
	}
}

// IsSafeDomain 判断一个 URL 是否命中域名白名单。
// 匹配按子串包含进行：白名单里的任意一项出现在 URL 文本中即视为命中。
// 列表为空或未配置时一律返回 false。
func (g *Guard) IsSafeDomain(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	for _, domain := range g.settingSvc.GetStrings(constant.KeySafeIframeDomains.String()) {
		if domain == "" {
			continue
		}
		if strings.Contains(rawURL, domain) {
			return true
		}
	}
	return false
}

// AddDomain 把 URL 的主机名追加到白名单。
// 操作者缺少安全配置权限时不做任何修改，仅返回提示；追加不做去重。
func (g *Guard) AddDomain(ctx context.Context, rawURL string, operator Operator) (*AddDomainResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return nil, fmt.Errorf("无法从 %q 中解析出域名: %w", rawURL, constant.ErrBadRequest)
	}
	host := parsed.Hostname()

	if !operator.HasPermission(constant.PermissionAdminSettingSecurity) {
		return &AddDomainResult{
			Host:    host,
			Added:   false,
			Message: "当前账号没有安全配置权限，域名未加入白名单",
		}, nil
	}

	if err := g.settingSvc.AppendToStrings(ctx, constant.KeySafeIframeDomains.String(), host); err != nil {
		return nil, fmt.Errorf("更新域名白名单失败: %w", err)
	}

	g.auditSvc.Info(ctx, operator.ID(), "security", "add_safe_domain",
		fmt.Sprintf("域名 %s 已加入嵌入白名单", host),
		map[string]string{"host": host, "url": rawURL})

	return &AddDomainResult{
		Host:    host,
		Added:   true,
		Message: "域名已加入白名单",
	}, nil
}
