// pkg/handler/article/handler.go
package article

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qingshu-lab/qingshu-app/internal/app/middleware"
	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/response"
	"github.com/qingshu-lab/qingshu-app/pkg/service/category"
	"github.com/qingshu-lab/qingshu-app/pkg/service/extractor"
	"github.com/qingshu-lab/qingshu-app/pkg/service/file"
	"github.com/qingshu-lab/qingshu-app/pkg/service/security"
	"github.com/qingshu-lab/qingshu-app/pkg/service/tag"

	articleSvc "github.com/qingshu-lab/qingshu-app/pkg/service/article"
)

// Handler 封装了所有与后台资讯文章相关的 HTTP 处理器。
type Handler struct {
	svc         articleSvc.Service
	categorySvc *category.Service
	tagSvc      *tag.Service
	fileSvc     *file.Service
	importer    *extractor.Importer
	guard       *security.Guard
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(
	svc articleSvc.Service,
	categorySvc *category.Service,
	tagSvc *tag.Service,
	fileSvc *file.Service,
	importer *extractor.Importer,
	guard *security.Guard,
) *Handler {
	return &Handler{
		svc:         svc,
		categorySvc: categorySvc,
		tagSvc:      tagSvc,
		fileSvc:     fileSvc,
		importer:    importer,
		guard:       guard,
	}
}

// handleError 把业务层错误映射为 HTTP 应答。
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		response.Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, constant.ErrBadRequest):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, constant.ErrForbidden):
		response.Fail(c, http.StatusForbidden, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, err.Error())
	}
}

// parseID 解析路径参数中的文章 ID。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, "无效的文章ID")
		return 0, false
	}
	return uint(id), true
}

// List 返回分页的文章列表，带分类索引与完整分类树。
// 列表按操作者 Token 中的机构编码做租户过滤。
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	categoryID, _ := strconv.ParseUint(c.Query("categoryId"), 10, 64)
	keyword := c.Query("keyword")

	orgCode := ""
	if claims, ok := middleware.GetClaims(c); ok {
		orgCode = claims.OrgCode
	}

	result, err := h.svc.List(c.Request.Context(), page, uint(categoryID), keyword, orgCode)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result, "获取文章列表成功")
}

// ShowForm 返回创建表单的视图模型：空白文章与分类树。
func (h *Handler) ShowForm(c *gin.Context) {
	tree, err := h.categorySvc.GetCategoryTree(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"article":      &model.ArticleDraft{},
		"categoryTree": tree,
	}, "获取创建表单成功")
}

// ShowFormFromURL 从外部网址识别内容并预填创建表单。
// 网址经过 URL 编码传入；识别失败时表单字段保持空白，不报错。
func (h *Handler) ShowFormFromURL(c *gin.Context) {
	draft := h.importer.ImportFromURL(c.Request.Context(), c.Query("url"))

	tree, err := h.categorySvc.GetCategoryTree(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"article":      draft,
		"isSafeDomain": h.guard.IsSafeDomain(draft.SourceURL),
		"categoryTree": tree,
	}, "识别外部内容成功")
}

// AddDomain 把来源网址的域名加入嵌入白名单，并原样带回网址，
// 以便前端回到识别页继续刚才的导入流程。
// 缺少安全配置权限时不会修改白名单，只在应答里给出提示。
func (h *Handler) AddDomain(c *gin.Context) {
	rawURL := c.Query("url")
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "无法获取用户信息")
		return
	}

	result, err := h.guard.AddDomain(c.Request.Context(), rawURL, claims)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"url":     rawURL,
		"host":    result.Host,
		"added":   result.Added,
		"message": result.Message,
	}, result.Message)
}

// Create 创建一篇文章。
func (h *Handler) Create(c *gin.Context) {
	var req model.SaveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	orgCode := ""
	if claims, ok := middleware.GetClaims(c); ok {
		orgCode = claims.OrgCode
	}

	created, err := h.svc.Create(c.Request.Context(), &req, orgCode)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, created, "文章创建成功")
}

// ShowEditForm 返回编辑表单的视图模型，文章不存在时返回 404。
// 除标签与分类树外，还带上文章自己所属的分类记录；
// 分类已被删除时该字段为空，不阻塞编辑。
func (h *Handler) ShowEditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	article, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	tags, err := h.tagSvc.FindArticleTags(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}

	var articleCategory *model.Category
	if article.CategoryID > 0 {
		articleCategory, err = h.categorySvc.GetCategory(c.Request.Context(), article.CategoryID)
		if err != nil && !errors.Is(err, constant.ErrNotFound) {
			handleError(c, err)
			return
		}
	}

	tree, err := h.categorySvc.GetCategoryTree(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"article":      article,
		"category":     articleCategory,
		"tags":         tagNames,
		"categoryTree": tree,
	}, "获取编辑表单成功")
}

// Update 更新一篇文章，文章不存在时返回 404。
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.SaveArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, updated, "文章更新成功")
}

// SetProperty 开启文章的展示属性，应答裸 true。
func (h *Handler) SetProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.SetProperty(c.Request.Context(), id, c.Param("property")); err != nil {
		handleError(c, err)
		return
	}
	response.Ack(c)
}

// CancelProperty 关闭文章的展示属性，应答裸 true。
func (h *Handler) CancelProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.CancelProperty(c.Request.Context(), id, c.Param("property")); err != nil {
		handleError(c, err)
		return
	}
	response.Ack(c)
}

// Trash 把文章移入回收站，应答裸 true。
func (h *Handler) Trash(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Trash(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Ack(c)
}

// RemoveThumb 清除文章缩略图，应答裸 true。
func (h *Handler) RemoveThumb(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveThumb(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Ack(c)
}

// Publish 上线一篇文章，应答裸 true。
func (h *Handler) Publish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Publish(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Ack(c)
}

// Unpublish 下线一篇文章，应答裸 true。
func (h *Handler) Unpublish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Unpublish(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Ack(c)
}

// batchDeleteRequest 是批量删除的请求体。
type batchDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// BatchDelete 批量物理删除文章。
// ID 可以通过请求体的 ids 数组传入，也可以通过查询参数 id 传入单个。
// 只有全部删除成功时应答 success，任何一条失败都应答 failed。
func (h *Handler) BatchDelete(c *gin.Context) {
	var req batchDeleteRequest
	_ = c.ShouldBindJSON(&req)

	ids := req.IDs
	if raw := c.Query("id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	if len(ids) == 0 {
		response.Fail(c, http.StatusBadRequest, "未指定要删除的文章")
		return
	}

	result := h.svc.BatchDelete(c.Request.Context(), ids)
	if result.FailedCount > 0 {
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
