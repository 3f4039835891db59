// internal/infra/persistence/sqlrepo/log_repo.go
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

type logRepo struct {
	db *sql.DB
}

// NewLogRepository 创建审计日志仓储的 MySQL 实现。
func NewLogRepository(db *sql.DB) repository.LogRepository {
	return &logRepo{db: db}
}

func (r *logRepo) Create(ctx context.Context, entry *model.Log) error {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO logs (module, action, message, data, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.Module, entry.Action, entry.Message, entry.Data, entry.UserID, now)
	if err != nil {
		return fmt.Errorf("写入审计日志失败: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = uint(id)
	}
	entry.CreatedAt = now
	return nil
}
