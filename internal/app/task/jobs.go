/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2025-10-22 16:20:31
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/ranking"
)

// Job 与 cron.Job 接口兼容，并提供一个可读的名称用于日志。
type Job interface {
	Run()
	Name() string
}

// defaultJobTimeout 是单次任务执行的超时时间
const defaultJobTimeout = 2 * time.Minute

// CategoryMerger 是合并同名分类任务所依赖的服务
type CategoryMerger interface {
	MergeCategories(ctx context.Context) (*model.MergeReport, error)
}

// CategoryMergeJob 定期合并同名分类
type CategoryMergeJob struct {
	merger CategoryMerger
	logger *slog.Logger
}

func NewCategoryMergeJob(merger CategoryMerger, logger *slog.Logger) *CategoryMergeJob {
	return &CategoryMergeJob{merger: merger, logger: logger}
}

func (j *CategoryMergeJob) Name() string { return "CategoryMergeJob" }

func (j *CategoryMergeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
	defer cancel()

	report, err := j.merger.MergeCategories(ctx)
	if err != nil {
		j.logger.Error("合并同名分类失败", slog.Any("error", err))
		return
	}
	if len(report.Groups) == 0 {
		j.logger.Info("没有需要合并的同名分类")
		return
	}
	j.logger.Info("同名分类合并完成",
		slog.Int("groups", len(report.Groups)),
		slog.Int("removed_categories", len(report.RemovedIDs())),
		slog.Int("relinked_articles", report.RelinkedArticles),
	)
}

// RankingSource 提供排行榜的权威数据
type RankingSource interface {
	RankingSnapshot(ctx context.Context, limit int) ([]model.RankingItem, error)
}

// RankingRebuildJob 用数据库中的赞数重建排行榜，纠正事件丢失造成的偏差
type RankingRebuildJob struct {
	source  RankingSource
	ranking ranking.Service
	logger  *slog.Logger
}

func NewRankingRebuildJob(source RankingSource, rankingSvc ranking.Service, logger *slog.Logger) *RankingRebuildJob {
	return &RankingRebuildJob{source: source, ranking: rankingSvc, logger: logger}
}

func (j *RankingRebuildJob) Name() string { return "RankingRebuildJob" }

func (j *RankingRebuildJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
	defer cancel()

	if err := j.Rebuild(ctx); err != nil {
		j.logger.Error("重建排行榜失败", slog.Any("error", err))
	}
}

// Rebuild 执行一次重建，启动时也会直接调用
func (j *RankingRebuildJob) Rebuild(ctx context.Context) error {
	items, err := j.source.RankingSnapshot(ctx, 0)
	if err != nil {
		return err
	}
	if err := j.ranking.Rebuild(ctx, items); err != nil {
		return err
	}
	j.logger.Info("排行榜已重建", slog.Int("articles", len(items)))
	return nil
}
