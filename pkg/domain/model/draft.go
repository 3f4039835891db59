package model

// ArticleDraft 是从外部网址识别出的文章草稿。
// 它不落库，只用于预填创建表单；识别失败时字段保持默认值。
type ArticleDraft struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	SourceURL     string `json:"sourceUrl,omitempty"`
	Thumb         string `json:"thumb,omitempty"`
	OriginalThumb string `json:"originalThumb,omitempty"`
}
