package repository

import (
	"context"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// CategoryRepository 定义了分类数据操作的契约（本服务只读）
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*model.Category, error)
	FindAll(ctx context.Context) ([]*model.Category, error)
}
