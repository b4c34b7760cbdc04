package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"env-report/internal/pkg/config"
	"env-report/internal/pkg/logger"
	"env-report/internal/service"
)

// Scheduler 缓存预热调度器。
// 只负责按计划填充缓存，过期条目仍由读取路径惰性淘汰。
type Scheduler struct {
	cron      *cron.Cron
	logger    *zap.Logger
	reportSvc service.ReportService
	entryID   cron.EntryID
}

// NewScheduler 创建调度器
func NewScheduler(reportSvc service.ReportService, log *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持），cron 自身的日志走统一的日志输出
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.PrintfLogger(logger.GetWriter())))

	return &Scheduler{
		cron:      c,
		logger:    log,
		reportSvc: reportSvc,
	}
}

// Start 启动调度器。未配置 warm.cron 时跳过，按需拉取仍然可用。
func (s *Scheduler) Start(cfg *config.Config) error {
	log := s.logger.Sugar()

	cronExpr := cfg.Warm.Cron
	if cronExpr == "" {
		log.Info("未配置warm.cron，跳过缓存预热任务")
		return nil
	}

	// cron 表达式格式: 秒 分 时 日 月 周
	entryID, err := s.cron.AddFunc(cronExpr, func() {
		log.Info("执行定时任务: 缓存预热")
		if err := s.reportSvc.Warm(); err != nil {
			log.Errorf("缓存预热任务执行失败: %v", err)
		}
	})
	if err != nil {
		log.Errorf("注册缓存预热任务: %v 失败: %v", cronExpr, err)
		return err
	}

	s.entryID = entryID
	log.Infof("缓存预热任务已注册: %s entry_id=%d", cronExpr, entryID)

	s.cron.Start()
	return nil
}

// Stop 停止调度器（等待正在执行的任务完成）
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("缓存预热调度器已停止")
}

// TriggerWarm 手动触发缓存预热
func (s *Scheduler) TriggerWarm() error {
	return s.reportSvc.Warm()
}
