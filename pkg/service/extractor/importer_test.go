package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>测试新闻标题</title>
<meta property="og:image" content="https://img.example.com/cover.jpg">
</head>
<body>
<article>
<h1>测试新闻标题</h1>
<p>这是第一段正文内容，长度需要足够才能被正文识别算法选中。算法会优先挑选文本密度高的节点作为文章主体。</p>
<p>这是第二段正文内容，继续补充一些有意义的句子，保证正文块的权重明显高于页面上的其它部分。</p>
<p>这是第三段正文内容，包含的文字越多，识别出的结果越稳定，测试也就越不容易出现偶发的失败。</p>
</article>
</body>
</html>`

func TestImportFromURL(t *testing.T) {
	t.Run("空网址直接返回空草稿", func(t *testing.T) {
		importer := NewImporter(NewReadabilityExtractor())
		draft := importer.ImportFromURL(context.Background(), "")
		if draft.Title != "" || draft.Body != "" || draft.SourceURL != "" {
			t.Errorf("空网址应返回全空草稿, 实际 %+v", draft)
		}
	})

	t.Run("成功识别外部页面", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(samplePage))
		}))
		defer server.Close()

		importer := NewImporter(NewReadabilityExtractor())
		encoded := url.QueryEscape(server.URL + "/news/1")
		draft := importer.ImportFromURL(context.Background(), encoded)

		if draft.SourceURL != server.URL+"/news/1" {
			t.Errorf("SourceURL = %q, 期望解码后的原始网址", draft.SourceURL)
		}
		if !strings.Contains(draft.Title, "测试新闻标题") {
			t.Errorf("标题未被识别: %q", draft.Title)
		}
		if !strings.Contains(draft.Body, "第一段正文") {
			t.Errorf("正文未被识别: %q", draft.Body)
		}
		if draft.Thumb != "https://img.example.com/cover.jpg" {
			t.Errorf("主图 = %q, 期望 og:image 的值", draft.Thumb)
		}
		if draft.OriginalThumb != draft.Thumb {
			t.Errorf("OriginalThumb 应与 Thumb 一致")
		}
	})

	t.Run("识别结果经过HTML白名单过滤", func(t *testing.T) {
		page := strings.Replace(samplePage, "</article>",
			`<p>尾段<script>alert(1)</script>继续写一些正文文字让段落有足够的识别权重。</p></article>`, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		importer := NewImporter(NewReadabilityExtractor())
		draft := importer.ImportFromURL(context.Background(), server.URL)
		if strings.Contains(draft.Body, "<script") {
			t.Error("正文中不应残留 script 标签")
		}
	})

	t.Run("抓取失败时吞掉错误保留来源网址", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		importer := NewImporter(NewReadabilityExtractor())
		draft := importer.ImportFromURL(context.Background(), server.URL)
		if draft.SourceURL != server.URL {
			t.Errorf("SourceURL = %q, 期望保留原网址", draft.SourceURL)
		}
		if draft.Title != "" || draft.Body != "" {
			t.Errorf("失败时表单字段应保持空白, 实际 %+v", draft)
		}
	})

	t.Run("非法协议不发起请求", func(t *testing.T) {
		importer := NewImporter(NewReadabilityExtractor())
		draft := importer.ImportFromURL(context.Background(), url.QueryEscape("ftp://example.com/file"))
		if draft.Title != "" || draft.Body != "" {
			t.Errorf("非法协议应返回空白字段, 实际 %+v", draft)
		}
		if draft.SourceURL != "ftp://example.com/file" {
			t.Errorf("SourceURL = %q", draft.SourceURL)
		}
	})
}
