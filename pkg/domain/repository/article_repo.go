package repository

import (
	"context"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/model"
)

// ArticleRepository 定义了文章数据操作的契约
type ArticleRepository interface {
	Count(ctx context.Context, conditions *model.ArticleSearchConditions, status string) (int64, error)
	Search(ctx context.Context, conditions *model.ArticleSearchConditions, status string, offset, limit int) ([]*model.Article, error)
	FindByID(ctx context.Context, id uint) (*model.Article, error)
	Create(ctx context.Context, article *model.Article) (*model.Article, error)
	Update(ctx context.Context, article *model.Article) error
	SetProperty(ctx context.Context, id uint, property string, value bool) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	RemoveThumb(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	SetPublished(ctx context.Context, id uint, published bool, publishedTime *time.Time) error
	FindScheduledToPublish(ctx context.Context, now time.Time) ([]*model.Article, error)
}
