// pkg/service/article/service.go
package article

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
	"github.com/qingshu-lab/qingshu-app/pkg/service/category"
	"github.com/qingshu-lab/qingshu-app/pkg/service/file"
	"github.com/qingshu-lab/qingshu-app/pkg/service/setting"
	"github.com/qingshu-lab/qingshu-app/pkg/service/tag"
)

// CropBoxSize 是裁剪界面显示框的边长，选区坐标在这个坐标系里表达。
const CropBoxSize = 270

// defaultPageSize 后台列表默认每页条数，可被配置项覆盖。
const defaultPageSize = 20

// Service 定义了资讯文章的业务接口
type Service interface {
	List(ctx context.Context, page int, categoryID uint, keyword, orgCode string) (*model.ArticleListResponse, error)
	Get(ctx context.Context, id uint) (*model.ArticleResponse, error)
	Create(ctx context.Context, req *model.SaveArticleRequest, orgCode string) (*model.ArticleResponse, error)
	Update(ctx context.Context, id uint, req *model.SaveArticleRequest) (*model.ArticleResponse, error)
	SetProperty(ctx context.Context, id uint, property string) error
	CancelProperty(ctx context.Context, id uint, property string) error
	Trash(ctx context.Context, id uint) error
	RemoveThumb(ctx context.Context, id uint) error
	BatchDelete(ctx context.Context, ids []uint) *model.BatchDeleteResult
	Publish(ctx context.Context, id uint) error
	Unpublish(ctx context.Context, id uint) error
	CropIndexPicture(ctx context.Context, fileID uint, selections []model.CropSelection) ([]*model.CropFile, error)
	ToAPIResponse(a *model.Article) *model.ArticleResponse
}

type serviceImpl struct {
	repo        repository.ArticleRepository
	tagSvc      *tag.Service
	categorySvc *category.Service
	fileSvc     *file.Service
	settingSvc  setting.SettingService
}

// NewService 是文章服务的构造函数
func NewService(
	repo repository.ArticleRepository,
	tagSvc *tag.Service,
	categorySvc *category.Service,
	fileSvc *file.Service,
	settingSvc setting.SettingService,
) Service {
	return &serviceImpl{
		repo:        repo,
		tagSvc:      tagSvc,
		categorySvc: categorySvc,
		fileSvc:     fileSvc,
		settingSvc:  settingSvc,
	}
}

// pageSize 读取配置的每页条数，未配置或非法时用默认值。
func (s *serviceImpl) pageSize() int {
	raw := s.settingSvc.Get(constant.KeyArticlePageSize.String())
	if size, err := strconv.Atoi(raw); err == nil && size > 0 {
		return size
	}
	return defaultPageSize
}

// List 检索分页的文章列表。
// 指定分类时会展开为含全部子孙分类的集合，让父分类带出子分类下的文章；
// orgCode 来自操作者的 Token，用于租户隔离。
func (s *serviceImpl) List(ctx context.Context, page int, categoryID uint, keyword, orgCode string) (*model.ArticleListResponse, error) {
	conditions := &model.ArticleSearchConditions{
		CategoryID: categoryID,
		Keyword:    keyword,
		OrgCode:    orgCode,
	}
	if categoryID > 0 {
		ids, err := s.categorySvc.FindCategoryChildrenIDs(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		conditions.CategoryIDs = ids
	}

	total, err := s.repo.Count(ctx, conditions, constant.ArticleStatusNormal)
	if err != nil {
		return nil, err
	}
	paginator := model.NewPaginator(total, page, s.pageSize())

	articles, err := s.repo.Search(ctx, conditions, constant.ArticleStatusNormal, paginator.Offset(), paginator.PerPage)
	if err != nil {
		return nil, err
	}

	list := make([]*model.ArticleResponse, 0, len(articles))
	categoryIDs := make([]uint, 0, len(articles))
	seen := make(map[uint]bool)
	for _, a := range articles {
		resp := s.ToAPIResponse(a)
		resp.Body = "" // 列表不携带正文
		list = append(list, resp)
		if a.CategoryID > 0 && !seen[a.CategoryID] {
			seen[a.CategoryID] = true
			categoryIDs = append(categoryIDs, a.CategoryID)
		}
	}

	categories, err := s.categorySvc.FindCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	tree, err := s.categorySvc.GetCategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	return &model.ArticleListResponse{
		Articles:     list,
		Categories:   categories,
		Paginator:    paginator,
		CategoryTree: tree,
		CategoryID:   categoryID,
	}, nil
}

// Get 获取单篇文章的完整信息，不存在时返回 ErrNotFound。
func (s *serviceImpl) Get(ctx context.Context, id uint) (*model.ArticleResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ToAPIResponse(a), nil
}

// Create 创建一篇文章并同步标签与附件关联。
func (s *serviceImpl) Create(ctx context.Context, req *model.SaveArticleRequest, orgCode string) (*model.ArticleResponse, error) {
	a := &model.Article{
		Title:         req.Title,
		Body:          req.Body,
		Thumb:         req.Thumb,
		OriginalThumb: req.OriginalThumb,
		CategoryID:    req.CategoryID,
		Source:        req.Source,
		SourceURL:     req.SourceURL,
		OrgCode:       orgCode,
		Status:        constant.ArticleStatusNormal,
		PublishedTime: req.PublishedTime,
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.tagSvc.SyncArticleTags(ctx, created.ID, req.Tags); err != nil {
		return nil, fmt.Errorf("同步文章标签失败: %w", err)
	}
	if err := s.fileSvc.CreateUseFiles(ctx, req.Attachment, created.ID); err != nil {
		return nil, fmt.Errorf("关联文章附件失败: %w", err)
	}
	return s.ToAPIResponse(created), nil
}

// Update 更新一篇文章，文章不存在时返回 ErrNotFound。
func (s *serviceImpl) Update(ctx context.Context, id uint, req *model.SaveArticleRequest) (*model.ArticleResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Title = req.Title
	a.Body = req.Body
	a.Thumb = req.Thumb
	a.OriginalThumb = req.OriginalThumb
	a.CategoryID = req.CategoryID
	a.Source = req.Source
	a.SourceURL = req.SourceURL
	a.PublishedTime = req.PublishedTime

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if err := s.tagSvc.SyncArticleTags(ctx, a.ID, req.Tags); err != nil {
		return nil, fmt.Errorf("同步文章标签失败: %w", err)
	}
	if err := s.fileSvc.CreateUseFiles(ctx, req.Attachment, a.ID); err != nil {
		return nil, fmt.Errorf("关联文章附件失败: %w", err)
	}
	return s.ToAPIResponse(a), nil
}

// SetProperty 开启文章的某个展示属性，属性名不在允许集合内时拒绝。
func (s *serviceImpl) SetProperty(ctx context.Context, id uint, property string) error {
	if !constant.ArticleProperties[property] {
		return fmt.Errorf("不支持的文章属性 %q: %w", property, constant.ErrBadRequest)
	}
	return s.repo.SetProperty(ctx, id, property, true)
}

// CancelProperty 关闭文章的某个展示属性。
func (s *serviceImpl) CancelProperty(ctx context.Context, id uint, property string) error {
	if !constant.ArticleProperties[property] {
		return fmt.Errorf("不支持的文章属性 %q: %w", property, constant.ErrBadRequest)
	}
	return s.repo.SetProperty(ctx, id, property, false)
}

// Trash 把文章移入回收站，不做物理删除。
func (s *serviceImpl) Trash(ctx context.Context, id uint) error {
	return s.repo.UpdateStatus(ctx, id, constant.ArticleStatusTrash)
}

// RemoveThumb 清除文章的缩略图与原始缩略图。
func (s *serviceImpl) RemoveThumb(ctx context.Context, id uint) error {
	return s.repo.RemoveThumb(ctx, id)
}

// BatchDelete 逐条物理删除文章，单条失败不会中断其余删除。
func (s *serviceImpl) BatchDelete(ctx context.Context, ids []uint) *model.BatchDeleteResult {
	result := &model.BatchDeleteResult{
		FailedIDs: make([]uint, 0),
	}
	for _, id := range ids {
		if err := s.repo.Delete(ctx, id); err != nil {
			log.Printf("[BatchDelete] 删除文章 %d 失败: %v", id, err)
			result.FailedCount++
			result.FailedIDs = append(result.FailedIDs, id)
		} else {
			result.SuccessCount++
		}
	}
	return result
}

// Publish 上线一篇文章。没有预设发布时间时用当前时间补齐。
func (s *serviceImpl) Publish(ctx context.Context, id uint) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	publishedTime := a.PublishedTime
	if publishedTime == nil {
		now := time.Now()
		publishedTime = &now
	}
	return s.repo.SetPublished(ctx, id, true, publishedTime)
}

// Unpublish 下线一篇文章，发布时间保留以便再次上线。
func (s *serviceImpl) Unpublish(ctx context.Context, id uint) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetPublished(ctx, id, false, a.PublishedTime)
}

// CropIndexPicture 按选区生成封面图的裁剪变体。
// 选区坐标在显示框坐标系里，这里换算回原图坐标后裁剪，
// 每个变体作为新的上传文件建档并返回公开 URL。
func (s *serviceImpl) CropIndexPicture(ctx context.Context, fileID uint, selections []model.CropSelection) ([]*model.CropFile, error) {
	meta, err := s.fileSvc.GetImgFileMetaInfo(ctx, fileID, CropBoxSize, CropBoxSize)
	if err != nil {
		return nil, err
	}
	if meta.Scaled.Width <= 0 {
		return nil, fmt.Errorf("图片尺寸异常: %w", constant.ErrBadRequest)
	}
	src, err := s.fileSvc.LoadImage(ctx, fileID)
	if err != nil {
		return nil, err
	}
	ratio := float64(meta.Natural.Width) / float64(meta.Scaled.Width)

	results := make([]*model.CropFile, 0, len(selections))
	for _, sel := range selections {
		rect := image.Rect(
			int(float64(sel.X)*ratio),
			int(float64(sel.Y)*ratio),
			int(float64(sel.X+sel.Width)*ratio),
			int(float64(sel.Y+sel.Height)*ratio),
		)
		cropped := imaging.Crop(src, rect)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, cropped, imaging.JPEG); err != nil {
			return nil, fmt.Errorf("编码裁剪图 %q 失败: %w", sel.Name, err)
		}
		record, err := s.fileSvc.SaveUpload(ctx, sel.Name+".jpg", "image/jpeg", int64(buf.Len()), &buf)
		if err != nil {
			return nil, fmt.Errorf("保存裁剪图 %q 失败: %w", sel.Name, err)
		}
		results = append(results, &model.CropFile{
			Name: sel.Name,
			File: record,
			URL:  s.fileSvc.PublicURL(record),
		})
	}
	return results, nil
}

// ToAPIResponse 把领域模型转换为 API 响应结构
func (s *serviceImpl) ToAPIResponse(a *model.Article) *model.ArticleResponse {
	return &model.ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Body:          a.Body,
		Thumb:         a.Thumb,
		OriginalThumb: a.OriginalThumb,
		CategoryID:    a.CategoryID,
		Source:        a.Source,
		SourceURL:     a.SourceURL,
		OrgCode:       a.OrgCode,
		Status:        a.Status,
		Published:     a.Published,
		PublishedTime: a.PublishedTime,
		Sticky:        a.Sticky,
		Featured:      a.Featured,
		Promoted:      a.Promoted,
		HitNum:        a.HitNum,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
