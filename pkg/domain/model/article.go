package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// Article 是资讯文章的核心领域模型，业务逻辑（Service层）围绕它进行。
type Article struct {
	ID            uint
	Title         string
	Body          string
	Thumb         string
	OriginalThumb string
	CategoryID    uint
	Source        string
	SourceURL     string
	OrgCode       string
	Status        string
	Published     bool
	PublishedTime *time.Time
	Sticky        bool
	Featured      bool
	Promoted      bool
	HitNum        int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// Attachment 描述一次提交随带的文件关联：
// 把此前上传的若干文件挂到目标文章上，本服务只做转发。
type Attachment struct {
	FileIDs    []uint `json:"fileIds"`
	TargetType string `json:"targetType"`
	Type       string `json:"type"`
}

// SaveArticleRequest 定义了创建/更新文章的请求体。
// Tags 是逗号分隔的标签串，由服务端负责切分。
type SaveArticleRequest struct {
	Title         string      `json:"title" binding:"required"`
	Body          string      `json:"body"`
	Thumb         string      `json:"thumb"`
	OriginalThumb string      `json:"originalThumb"`
	CategoryID    uint        `json:"categoryId"`
	Source        string      `json:"source"`
	SourceURL     string      `json:"sourceUrl"`
	Tags          string      `json:"tags"`
	Attachment    *Attachment `json:"attachment"`
	PublishedTime *time.Time  `json:"publishedTime"`
}

// ArticleResponse 定义了文章信息的标准 API 响应结构
type ArticleResponse struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Body          string     `json:"body,omitempty"`
	Thumb         string     `json:"thumb"`
	OriginalThumb string     `json:"originalThumb,omitempty"`
	CategoryID    uint       `json:"categoryId"`
	Source        string     `json:"source"`
	SourceURL     string     `json:"sourceUrl"`
	OrgCode       string     `json:"orgCode,omitempty"`
	Status        string     `json:"status"`
	Published     bool       `json:"published"`
	PublishedTime *time.Time `json:"publishedTime,omitempty"`
	Sticky        bool       `json:"sticky"`
	Featured      bool       `json:"featured"`
	Promoted      bool       `json:"promoted"`
	HitNum        int        `json:"hitNum"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ArticleSearchConditions 是后台列表查询的过滤条件。
// CategoryIDs 在 CategoryID 指定时由服务端展开为含全部子孙分类的集合。
type ArticleSearchConditions struct {
	CategoryID  uint
	CategoryIDs []uint
	Keyword     string
	OrgCode     string
}

// Paginator 描述分页信息，后台列表固定每页 20 条。
type Paginator struct {
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PerPage   int   `json:"perPage"`
	PageCount int   `json:"pageCount"`
}

// Offset 返回当前页的偏移量。
func (p *Paginator) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// NewPaginator 根据总数和页码构造分页器。
func NewPaginator(total int64, page, perPage int) *Paginator {
	if page < 1 {
		page = 1
	}
	pageCount := int((total + int64(perPage) - 1) / int64(perPage))
	return &Paginator{
		Total:     total,
		Page:      page,
		PerPage:   perPage,
		PageCount: pageCount,
	}
}

// ArticleListResponse 是后台列表接口的视图模型。
type ArticleListResponse struct {
	Articles     []*ArticleResponse  `json:"articles"`
	Categories   map[uint]*Category  `json:"categories"`
	Paginator    *Paginator          `json:"paginator"`
	CategoryTree []*CategoryTreeNode `json:"categoryTree"`
	CategoryID   uint                `json:"categoryId"`
}

// BatchDeleteResult 汇总批量删除的结果。
type BatchDeleteResult struct {
	SuccessCount int
	FailedCount  int
	FailedIDs    []uint
}
