package repository

import (
	"context"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// UploadFileRepository 定义了上传文件及其关联关系的数据契约
type UploadFileRepository interface {
	Create(ctx context.Context, file *model.UploadFile) (*model.UploadFile, error)
	FindByID(ctx context.Context, id uint) (*model.UploadFile, error)
	CreateUses(ctx context.Context, fileIDs []uint, targetType string, targetID uint, useType string) error
}
