// pkg/constant/setting.go
package constant

// SettingKey 为所有在应用中使用的运行时配置键定义了类型安全的常量。
type SettingKey string

// String 方便地将 SettingKey 转换为 string 类型。
func (k SettingKey) String() string {
	return string(k)
}

const (
	// --- 站点基础配置 ---
	KeySiteName SettingKey = "site.name"
	KeySiteURL  SettingKey = "site.url"

	// --- 安全配置 ---
	// KeySafeIframeDomains 的值是一个 JSON 字符串数组，
	// 记录允许直接嵌入外部内容的域名白名单。
	KeySafeIframeDomains SettingKey = "security.safe_iframe_domains"

	// --- 资讯配置 ---
	KeyArticlePageSize SettingKey = "article.page_size"
)
