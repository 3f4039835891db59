package repository

import (
	"context"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// LogRepository 定义了审计日志的数据契约
type LogRepository interface {
	Create(ctx context.Context, entry *model.Log) error
}
