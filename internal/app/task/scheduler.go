/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2025-10-22 16:31:12
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/anzhiyu-c/anheyu-press/pkg/service/utility"
)

// lockKeyPrefix 是任务锁在 Redis 中的键前缀
const lockKeyPrefix = "task:lock:"

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	locker utility.JobLocker
}

// NewLogger 创建带有 "system":"cron" 属性的结构化日志器
func NewLogger() *slog.Logger {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(slogHandler).With("system", "cron")
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(logger *slog.Logger) *Scheduler {
	// cron 的装饰器按倒序应用，日志装饰器最先包裹原始任务才能拿到任务名
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			cron.DelayIfStillRunning(cron.DefaultLogger),
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
		),
	)

	return &Scheduler{
		cron:   c,
		logger: logger,
	}
}

// UseLocker 设置任务锁，之后注册的任务在执行前都需要先拿到锁
func (s *Scheduler) UseLocker(locker utility.JobLocker) {
	s.locker = locker
}

// Register 按 spec 注册一个任务，spec 为空时跳过
func (s *Scheduler) Register(spec string, job Job) error {
	if spec == "" {
		s.logger.Info("-> Skipped job without schedule", "job_name", job.Name())
		return nil
	}
	if s.locker != nil {
		job = &lockedJob{Job: job, locker: s.locker, logger: s.logger}
	}
	if _, err := s.cron.AddJob(spec, job); err != nil {
		s.logger.Error("Failed to add job", "job_name", job.Name(), slog.Any("error", err))
		return fmt.Errorf("注册定时任务 %s 失败: %w", job.Name(), err)
	}
	s.logger.Info("-> Successfully registered job", "job_name", job.Name(), "schedule", spec)
	return nil
}

// Len 返回已注册的任务数量
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器，等待正在执行的任务结束。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}

// lockedJob 在执行前获取以任务名为键的锁，拿不到锁时本次直接跳过
type lockedJob struct {
	Job
	locker utility.JobLocker
	logger *slog.Logger
}

func (j *lockedJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
	defer cancel()

	release, ok, err := j.locker.TryLock(ctx, lockKeyPrefix+j.Name(), defaultJobTimeout)
	if err != nil {
		j.logger.Error("获取任务锁失败", slog.String("job_name", j.Name()), slog.Any("error", err))
		return
	}
	if !ok {
		j.logger.Info("任务正在其他实例上执行，跳过本次", slog.String("job_name", j.Name()))
		return
	}
	defer release()

	j.Job.Run()
}
