// pkg/service/extractor/importer.go
package extractor

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// maxFetchBytes 限制单次抓取的响应体大小，防止异常页面耗尽内存。
const maxFetchBytes = 8 << 20

// Importer 负责从外部网址抓取页面并识别为文章草稿。
type Importer struct {
	client    *http.Client
	extractor ContentExtractor
}

// NewImporter 是 Importer 的构造函数
func NewImporter(extractor ContentExtractor) *Importer {
	return &Importer{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		extractor: extractor,
	}
}

// ImportFromURL 把一个 URL 编码过的外部网址识别为文章草稿。
// 网址为空时直接返回空草稿，不发起任何网络请求；
// 抓取或识别过程中的任何失败都不向上抛出，草稿保持已填到的字段。
func (i *Importer) ImportFromURL(ctx context.Context, encodedURL string) *model.ArticleDraft {
	draft := &model.ArticleDraft{}
	if encodedURL == "" {
		return draft
	}

	decoded, err := url.QueryUnescape(encodedURL)
	if err != nil {
		decoded = encodedURL
	}
	draft.SourceURL = decoded

	content, err := i.fetchAndExtract(ctx, decoded)
	if err != nil {
		log.Printf("[Importer] 识别外部内容失败 (%s): %v", decoded, err)
		return draft
	}

	draft.Title = content.Title
	draft.Body = content.Body
	draft.Thumb = content.Image
	draft.OriginalThumb = content.Image
	return draft
}

func (i *Importer) fetchAndExtract(ctx context.Context, rawURL string) (*ExtractedContent, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("网址无法解析: %w", err)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return nil, fmt.Errorf("不支持的协议: %s", pageURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("页面返回了非预期的状态码 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	return i.extractor.Extract(body, pageURL)
}
