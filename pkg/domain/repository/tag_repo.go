package repository

import (
	"context"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// TagRepository 定义了标签数据操作的契约
type TagRepository interface {
	FindByOwner(ctx context.Context, conditions *model.TagOwnerConditions) ([]*model.Tag, error)
	// ReplaceOwnerTags 把归属对象的标签整体替换为给定名称集合。
	ReplaceOwnerTags(ctx context.Context, ownerType string, ownerID uint, names []string) error
}
