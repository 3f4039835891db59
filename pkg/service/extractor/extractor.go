// pkg/service/extractor/extractor.go
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// ExtractedContent 是一次正文识别的产物。
type ExtractedContent struct {
	Title string
	Body  string
	Image string
}

// ContentExtractor 从一段 HTML 中识别出文章正文。
type ContentExtractor interface {
	Extract(htmlBody []byte, pageURL *url.URL) (*ExtractedContent, error)
}

// readabilityExtractor 基于 Readability 算法识别正文，
// 识别结果经过 HTML 白名单过滤后才返回。
type readabilityExtractor struct {
	sanitizer *bluemonday.Policy
}

// NewReadabilityExtractor 是 readabilityExtractor 的构造函数
func NewReadabilityExtractor() ContentExtractor {
	return &readabilityExtractor{
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Extract 识别正文并清洗。主图优先取 Readability 的结果，
// 没有时回退到页面的 og:image 声明。
func (e *readabilityExtractor) Extract(htmlBody []byte, pageURL *url.URL) (*ExtractedContent, error) {
	article, err := readability.FromReader(bytes.NewReader(htmlBody), pageURL)
	if err != nil {
		return nil, fmt.Errorf("正文识别失败: %w", err)
	}

	image := article.Image
	if image == "" {
		image = extractOGImage(bytes.NewReader(htmlBody))
	}

	return &ExtractedContent{
		Title: article.Title,
		Body:  e.sanitizer.Sanitize(article.Content),
		Image: image,
	}, nil
}

// extractOGImage 从页面头部取 og:image 标签的内容，取不到时返回空串。
func extractOGImage(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}
	content, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return content
}
