package scheduler

import (
	"context"
	"fmt"

	"agrodrone-automation/internal/config"
	"agrodrone-automation/internal/evaluator"
	"agrodrone-automation/internal/metrics"
	"agrodrone-automation/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper 定时规则扫描器
// 按配置的 cron 表达式对所有存在启用规则的区做一次无测量值评估，
// 让 always 条件的规则在没有数据上报时也能周期性触发
type Sweeper struct {
	config     *config.Config
	ruleRepo   repository.AutomationRuleRepository
	ruleEngine *evaluator.RuleEngine
	logger     *zap.Logger
	cron       *cron.Cron
}

// NewSweeper 创建扫描器
func NewSweeper(
	cfg *config.Config,
	ruleRepo repository.AutomationRuleRepository,
	ruleEngine *evaluator.RuleEngine,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		config:     cfg,
		ruleRepo:   ruleRepo,
		ruleEngine: ruleEngine,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start 注册并启动定时任务
func (s *Sweeper) Start() error {
	schedule := s.config.Automation.Sweep.Schedule

	if _, err := s.cron.AddFunc(schedule, s.runSweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Rule sweeper started", zap.String("schedule", schedule))

	return nil
}

// Stop 停止定时任务，等待在途扫描完成
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Rule sweeper stopped")
}

// runSweep 执行一轮全区扫描
// 单个区的失败只记日志，不影响其余区
func (s *Sweeper) runSweep() {
	ctx := context.Background()
	metrics.SweepRunsTotal.Inc()

	zoneIDs, err := s.ruleRepo.ListZoneIDsWithActiveRules(ctx)
	if err != nil {
		s.logger.Error("Failed to list zones for sweep", zap.Error(err))
		return
	}

	for _, zoneID := range zoneIDs {
		if err := s.ruleEngine.RunZoneRules(ctx, zoneID); err != nil {
			s.logger.Error("Zone sweep failed",
				zap.Int64("zone_id", zoneID),
				zap.Error(err),
			)
		}
	}

	s.logger.Debug("Rule sweep completed", zap.Int("zones", len(zoneIDs)))
}
