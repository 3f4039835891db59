// internal/infra/persistence/sqlrepo/category_repo.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

const categoryColumns = `id, parent_id, name, code, weight, created_at`

type categoryRepo struct {
	db *sql.DB
}

// NewCategoryRepository 创建分类仓储的 MySQL 实现。分类由站群平台维护，本服务只读。
func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id).
		Scan(&category.ID, &category.ParentID, &category.Name, &category.Code, &category.Weight, &category.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分类 (ID: %d) 失败: %w", id, err)
	}
	return &category, nil
}

func (r *categoryRepo) FindByIDs(ctx context.Context, ids []uint) ([]*model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM categories WHERE id IN (%s)", categoryColumns, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("批量查询分类失败: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCategories(rows)
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY weight DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("查询全部分类失败: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCategories(rows)
}

func scanCategories(rows *sql.Rows) ([]*model.Category, error) {
	var categories []*model.Category
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.ParentID, &category.Name, &category.Code, &category.Weight, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("扫描分类数据失败: %w", err)
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}
