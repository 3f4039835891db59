// internal/infra/persistence/sqlrepo/tag_repo.go
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

type tagRepo struct {
	db *sql.DB
}

// NewTagRepository 创建标签仓储的 MySQL 实现。
func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) FindByOwner(ctx context.Context, conditions *model.TagOwnerConditions) ([]*model.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, owner_type, owner_id, created_at FROM tags WHERE owner_type = ? AND owner_id = ? ORDER BY id ASC",
		conditions.OwnerType, conditions.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("查询标签失败: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.OwnerType, &tag.OwnerID, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("扫描标签数据失败: %w", err)
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// ReplaceOwnerTags 在一个事务内先清空归属对象的旧标签，再插入新标签集合。
func (r *tagRepo) ReplaceOwnerTags(ctx context.Context, ownerType string, ownerID uint, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启标签事务失败: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE owner_type = ? AND owner_id = ?", ownerType, ownerID); err != nil {
		return fmt.Errorf("清除旧标签失败: %w", err)
	}
	now := time.Now()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tags (name, owner_type, owner_id, created_at) VALUES (?, ?, ?, ?)",
			name, ownerType, ownerID, now); err != nil {
			return fmt.Errorf("插入标签 %q 失败: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交标签事务失败: %w", err)
	}
	return nil
}
