// pkg/service/category/service.go
package category

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
	"github.com/qingshu-lab/qingshu-app/pkg/service/utility"
)

// categoryTreeCacheKey 是分类树在缓存中的键。
const categoryTreeCacheKey = "category:tree"

// categoryTreeCacheTTL 分类由站群平台低频维护，可以缓存较长时间。
const categoryTreeCacheTTL = 10 * time.Minute

// Service 封装了分类的查询逻辑。分类数据由站群平台维护，这里只读。
type Service struct {
	repo     repository.CategoryRepository
	cacheSvc utility.CacheService
}

// NewService 是分类服务的构造函数
func NewService(repo repository.CategoryRepository, cacheSvc utility.CacheService) *Service {
	return &Service{
		repo:     repo,
		cacheSvc: cacheSvc,
	}
}

// GetCategory 查询单个分类。
func (s *Service) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	return s.repo.FindByID(ctx, id)
}

// FindCategoriesByIDs 批量查询分类并按 ID 建立索引，供列表页展示分类名。
func (s *Service) FindCategoriesByIDs(ctx context.Context, ids []uint) (map[uint]*model.Category, error) {
	categories, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	indexed := make(map[uint]*model.Category, len(categories))
	for _, category := range categories {
		indexed[category.ID] = category
	}
	return indexed, nil
}

// GetCategoryTree 返回完整的分类树，优先走缓存。
func (s *Service) GetCategoryTree(ctx context.Context) ([]*model.CategoryTreeNode, error) {
	if cached, err := s.cacheSvc.Get(ctx, categoryTreeCacheKey); err == nil && cached != "" {
		var tree []*model.CategoryTreeNode
		if err := json.Unmarshal([]byte(cached), &tree); err == nil {
			return tree, nil
		}
		// 缓存内容损坏时当作未命中，回源重建
		_ = s.cacheSvc.Delete(ctx, categoryTreeCacheKey)
	}

	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tree := buildTree(categories)

	if encoded, err := json.Marshal(tree); err == nil {
		if err := s.cacheSvc.Set(ctx, categoryTreeCacheKey, string(encoded), categoryTreeCacheTTL); err != nil {
			log.Printf("[CategoryService] 写入分类树缓存失败: %v", err)
		}
	}
	return tree, nil
}

// FindCategoryChildrenIDs 返回指定分类及其全部子孙分类的 ID 集合。
// 列表按分类过滤时用它展开，让父分类能带出子分类下的文章。
func (s *Service) FindCategoryChildrenIDs(ctx context.Context, id uint) ([]uint, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[uint][]uint, len(categories))
	for _, category := range categories {
		children[category.ParentID] = append(children[category.ParentID], category.ID)
	}

	ids := []uint{id}
	queue := []uint{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, childID := range children[current] {
			ids = append(ids, childID)
			queue = append(queue, childID)
		}
	}
	return ids, nil
}

// buildTree 把平铺的分类列表组装成树，ParentID 为 0 的节点是根。
func buildTree(categories []*model.Category) []*model.CategoryTreeNode {
	nodes := make(map[uint]*model.CategoryTreeNode, len(categories))
	for _, category := range categories {
		nodes[category.ID] = &model.CategoryTreeNode{Category: *category}
	}

	var roots []*model.CategoryTreeNode
	for _, category := range categories {
		node := nodes[category.ID]
		if category.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[category.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// 父节点缺失的孤儿分类提升为根，避免在树里丢失
			roots = append(roots, node)
		}
	}
	return roots
}
