// internal/app/task/job_scheduled_publish.go
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/qingshu-lab/qingshu-app/pkg/domain/repository"
)

// ScheduledPublishJob 是定时发布文章的任务。
// 每分钟执行一次，把发布时间已到但尚未上线的文章置为已发布。
type ScheduledPublishJob struct {
	articleRepo repository.ArticleRepository
	logger      *slog.Logger
}

// NewScheduledPublishJob 创建定时发布任务实例
func NewScheduledPublishJob(articleRepo repository.ArticleRepository, logger *slog.Logger) *ScheduledPublishJob {
	return &ScheduledPublishJob{
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// Name 返回任务名称
func (j *ScheduledPublishJob) Name() string {
	return "ScheduledPublishJob"
}

// Run 执行定时发布任务
func (j *ScheduledPublishJob) Run() {
	ctx := context.Background()
	now := time.Now()

	articles, err := j.articleRepo.FindScheduledToPublish(ctx, now)
	if err != nil {
		j.logger.Error("查询定时发布文章失败", slog.Any("error", err))
		return
	}
	if len(articles) == 0 {
		return
	}

	j.logger.Info("找到待发布的定时文章", slog.Int("count", len(articles)))

	successCount := 0
	failCount := 0
	for _, article := range articles {
		if err := j.articleRepo.SetPublished(ctx, article.ID, true, article.PublishedTime); err != nil {
			j.logger.Error("发布定时文章失败",
				slog.Uint64("article_id", uint64(article.ID)),
				slog.String("title", article.Title),
				slog.Any("error", err),
			)
			failCount++
			continue
		}
		j.logger.Info("定时文章发布成功",
			slog.Uint64("article_id", uint64(article.ID)),
			slog.String("title", article.Title),
		)
		successCount++
	}

	j.logger.Info("定时发布任务执行完成",
		slog.Int("success", successCount),
		slog.Int("failed", failCount),
	)
}
