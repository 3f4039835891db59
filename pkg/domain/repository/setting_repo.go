package repository

import (
	"context"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// SettingRepository 定义了配置数据操作的契约
type SettingRepository interface {
	FindByKey(ctx context.Context, key string) (*model.Setting, error)
	FindAll(ctx context.Context) ([]*model.Setting, error)
	Save(ctx context.Context, key, value string) error
	// UpdateValueCAS 在同一事务内读取-修改-写回单个配置键，
	// 避免多位管理员并发修改时互相覆盖。modify 收到的 old 在键不存在时为空串。
	UpdateValueCAS(ctx context.Context, key string, modify func(old string) (string, error)) (string, error)
}
