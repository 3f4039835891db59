// pkg/constant/article.go
package constant

// 文章状态。回收站中的文章不再出现在正常列表里，但尚未被物理删除。
const (
	ArticleStatusNormal = "normal"
	ArticleStatusTrash  = "trash"
)

// 文章可开关的属性名。属性与发布状态相互独立。
const (
	ArticlePropertySticky   = "sticky"
	ArticlePropertyFeatured = "featured"
	ArticlePropertyPromoted = "promoted"
)

// ArticleProperties 是 setProperty/cancelProperty 接受的属性全集。
var ArticleProperties = map[string]bool{
	ArticlePropertySticky:   true,
	ArticlePropertyFeatured: true,
	ArticlePropertyPromoted: true,
}

// 文件关联的目标类型与用途。
const (
	FileTargetTypeArticle = "article"
	FileUseTypeAttachment = "attachment"
	FileUseTypeThumb      = "thumb"
)

// TagOwnerTypeArticle 是资讯文章在标签归属表中的 ownerType。
const TagOwnerTypeArticle = "article"
