// internal/infra/persistence/sqlrepo/article_repo.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/constant"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

const articleColumns = `id, title, body, thumb, original_thumb, category_id, source, source_url, org_code, status, published, published_time, sticky, featured, promoted, hit_num, created_at, updated_at`

type articleRepo struct {
	db *sql.DB
}

// NewArticleRepository 创建文章仓储的 MySQL 实现。
func NewArticleRepository(db *sql.DB) repository.ArticleRepository {
	return &articleRepo{db: db}
}

// buildSearchClause 把查询条件拼装为 WHERE 子句与参数列表。
// 分类过滤优先使用已展开的 CategoryIDs（含子孙分类）。
func buildSearchClause(conditions *model.ArticleSearchConditions, status string) (string, []any) {
	clauses := []string{"status = ?"}
	args := []any{status}

	if conditions != nil {
		if len(conditions.CategoryIDs) > 0 {
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(conditions.CategoryIDs)), ",")
			clauses = append(clauses, fmt.Sprintf("category_id IN (%s)", placeholders))
			for _, id := range conditions.CategoryIDs {
				args = append(args, id)
			}
		} else if conditions.CategoryID > 0 {
			clauses = append(clauses, "category_id = ?")
			args = append(args, conditions.CategoryID)
		}
		if conditions.Keyword != "" {
			clauses = append(clauses, "title LIKE ?")
			args = append(args, "%"+conditions.Keyword+"%")
		}
		if conditions.OrgCode != "" {
			clauses = append(clauses, "org_code = ?")
			args = append(args, conditions.OrgCode)
		}
	}
	return strings.Join(clauses, " AND "), args
}

func (r *articleRepo) Count(ctx context.Context, conditions *model.ArticleSearchConditions, status string) (int64, error) {
	where, args := buildSearchClause(conditions, status)
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE "+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("统计文章数量失败: %w", err)
	}
	return count, nil
}

func (r *articleRepo) Search(ctx context.Context, conditions *model.ArticleSearchConditions, status string, offset, limit int) ([]*model.Article, error) {
	where, args := buildSearchClause(conditions, status)
	query := fmt.Sprintf("SELECT %s FROM articles WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?", articleColumns, where)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*model.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *articleRepo) FindByID(ctx context.Context, id uint) (*model.Article, error) {
	query := fmt.Sprintf("SELECT %s FROM articles WHERE id = ?", articleColumns)
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询文章 (ID: %d) 失败: %w", id, err)
	}
	return article, nil
}

func (r *articleRepo) Create(ctx context.Context, article *model.Article) (*model.Article, error) {
	now := time.Now()
	result, err := r.db.ExecContext(ctx, `
INSERT INTO articles (title, body, thumb, original_thumb, category_id, source, source_url, org_code, status, published, published_time, sticky, featured, promoted, hit_num, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.Title, article.Body, article.Thumb, article.OriginalThumb,
		article.CategoryID, article.Source, article.SourceURL, article.OrgCode,
		article.Status, article.Published, article.PublishedTime,
		article.Sticky, article.Featured, article.Promoted, article.HitNum,
		now, now)
	if err != nil {
		return nil, fmt.Errorf("创建文章失败: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("获取新文章 ID 失败: %w", err)
	}
	article.ID = uint(id)
	article.CreatedAt = now
	article.UpdatedAt = now
	return article, nil
}

func (r *articleRepo) Update(ctx context.Context, article *model.Article) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE articles
SET title = ?, body = ?, thumb = ?, original_thumb = ?, category_id = ?, source = ?, source_url = ?, published_time = ?, updated_at = ?
WHERE id = ?`,
		article.Title, article.Body, article.Thumb, article.OriginalThumb,
		article.CategoryID, article.Source, article.SourceURL,
		article.PublishedTime, time.Now(), article.ID)
	if err != nil {
		return fmt.Errorf("更新文章 (ID: %d) 失败: %w", article.ID, err)
	}
	return nil
}

func (r *articleRepo) SetProperty(ctx context.Context, id uint, property string, value bool) error {
	if !constant.ArticleProperties[property] {
		return constant.ErrBadRequest
	}
	// property 已经过白名单校验，拼入列名是安全的
	query := fmt.Sprintf("UPDATE articles SET %s = ?, updated_at = ? WHERE id = ?", property)
	_, err := r.db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return fmt.Errorf("更新文章属性 %s (ID: %d) 失败: %w", property, id, err)
	}
	return nil
}

func (r *articleRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET status = ?, updated_at = ? WHERE id = ?", status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("更新文章状态 (ID: %d) 失败: %w", id, err)
	}
	return nil
}

func (r *articleRepo) RemoveThumb(ctx context.Context, id uint) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET thumb = '', original_thumb = '', updated_at = ? WHERE id = ?", time.Now(), id)
	if err != nil {
		return fmt.Errorf("清除文章缩略图 (ID: %d) 失败: %w", id, err)
	}
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("删除文章 (ID: %d) 失败: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("删除文章 (ID: %d) 失败: %w", id, err)
	}
	if affected == 0 {
		return constant.ErrNotFound
	}
	return nil
}

func (r *articleRepo) SetPublished(ctx context.Context, id uint, published bool, publishedTime *time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET published = ?, published_time = ?, updated_at = ? WHERE id = ?",
		published, publishedTime, time.Now(), id)
	if err != nil {
		return fmt.Errorf("更新文章发布状态 (ID: %d) 失败: %w", id, err)
	}
	return nil
}

func (r *articleRepo) FindScheduledToPublish(ctx context.Context, now time.Time) ([]*model.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE published = FALSE AND status = ? AND published_time IS NOT NULL AND published_time <= ?`, articleColumns)
	rows, err := r.db.QueryContext(ctx, query, constant.ArticleStatusNormal, now)
	if err != nil {
		return nil, fmt.Errorf("查询待定时发布文章失败: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []*model.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// rowScanner 同时覆盖 *sql.Row 与 *sql.Rows。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*model.Article, error) {
	var article model.Article
	var publishedTime sql.NullTime
	err := row.Scan(&article.ID, &article.Title, &article.Body,
		&article.Thumb, &article.OriginalThumb, &article.CategoryID,
		&article.Source, &article.SourceURL, &article.OrgCode,
		&article.Status, &article.Published, &publishedTime,
		&article.Sticky, &article.Featured, &article.Promoted,
		&article.HitNum, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("扫描文章数据失败: %w", err)
	}
	if publishedTime.Valid {
		t := publishedTime.Time
		article.PublishedTime = &t
	}
	return &article, nil
}
