// pkg/service/tag/service.go
package tag

import (
	"context"
	"strings"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

// Service 封装了标签的查询与同步逻辑。
type Service struct {
	repo repository.TagRepository
}

// NewService 是标签服务的构造函数
func NewService(repo repository.TagRepository) *Service {
	return &Service{repo: repo}
}

// FindArticleTags 查询一篇文章当前挂载的全部标签。
func (s *Service) FindArticleTags(ctx context.Context, articleID uint) ([]*model.Tag, error) {
	return s.repo.FindByOwner(ctx, &model.TagOwnerConditions{
		OwnerType: constant.TagOwnerTypeArticle,
		OwnerID:   articleID,
	})
}

// ParseTagNames 把逗号分隔的标签串切分为名称列表。
// 只丢弃切分出的空串，名称内的空白原样保留。
func ParseTagNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if part == "" {
			continue
		}
		names = append(names, part)
	}
	return names
}

// SyncArticleTags 把文章的标签整体替换为标签串解析出的集合。
// 标签串为空时清空文章的全部标签。
func (s *Service) SyncArticleTags(ctx context.Context, articleID uint, rawTags string) error {
	return s.repo.ReplaceOwnerTags(ctx, constant.TagOwnerTypeArticle, articleID, ParseTagNames(rawTags))
}
