package uri

import (
	"errors"
	"net/url"
	"strings"
)

// ParsedURI 用于存放从文件 URI 字符串中解析出的结构化信息
type ParsedURI struct {
	Scheme string // 存储协议, 目前只有 "local"
	Path   string // 相对存储根目录的文件路径
}

// Parse 将一个符合 qingshu 规范的文件 URI 字符串解析为结构体
func Parse(uriStr string) (*ParsedURI, error) {
	parsed, err := url.Parse(uriStr)
	if err != nil {
		return nil, errors.New("无效的 URI 格式")
	}

	if parsed.Scheme != "local" {
		return nil, errors.New("只支持 'local' 协议")
	}

	// 路径需要标准化：host 段并入路径，去掉开头的 "/"
	path := parsed.Host + parsed.Path
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, errors.New("URI 缺少文件路径")
	}

	return &ParsedURI{
		Scheme: parsed.Scheme,
		Path:   path,
	}, nil
}

// Resolver 把存储 URI 转换为可对外访问的公开 URL。
type Resolver struct {
	publicPrefix string
}

// NewResolver 构造路径解析器，publicPrefix 例如 "/uploads"。
func NewResolver(publicPrefix string) *Resolver {
	return &Resolver{publicPrefix: strings.TrimRight(publicPrefix, "/")}
}

// PublicURL 返回 URI 对应的公开 URL；解析失败时返回空串。
func (r *Resolver) PublicURL(uriStr string) string {
	parsed, err := Parse(uriStr)
	if err != nil {
		return ""
	}
	return r.publicPrefix + "/" + parsed.Path
}
