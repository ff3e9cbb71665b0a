package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"agrodrone-automation/internal/config"
	"agrodrone-automation/internal/consumer"
	"agrodrone-automation/internal/database"
	"agrodrone-automation/internal/evaluator"
	"agrodrone-automation/internal/mqtt"
	"agrodrone-automation/internal/notifier"
	redisclient "agrodrone-automation/internal/redis"
	"agrodrone-automation/internal/repository"
	"agrodrone-automation/internal/scheduler"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// AutomationService 自动化服务（整合各层）
type AutomationService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqtt.Client
	logger      *zap.Logger

	// 各层组件
	sensorRepo      *repository.PostgresSensorRepository
	actuatorRepo    *repository.PostgresActuatorRepository
	thresholdRepo   *repository.PostgresThresholdConfigRepository
	alertRepo       *repository.PostgresAlertRepository
	ruleRepo        *repository.PostgresAutomationRuleRepository
	logRepo         *repository.PostgresAutomationLogRepository
	notifRepo       *repository.PostgresNotificationRepository
	measurementRepo *repository.PostgresMeasurementRepository

	cacheManager  *consumer.CacheManager
	thresholdEval *evaluator.ThresholdEvaluator
	ruleEngine    *evaluator.RuleEngine
	dispatcher    *notifier.Dispatcher
	msmtConsumer  *consumer.MeasurementConsumer
	sweeper       *scheduler.Sweeper

	httpServer *http.Server
}

// NewAutomationService 创建自动化服务
func NewAutomationService(cfg *config.Config, logger *zap.Logger) (*AutomationService, error) {
	// 1. 连接数据库
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// 2. 连接 Redis
	redisClient := redisclient.NewRedisClient(&cfg.Redis)
	if err := redisclient.Ping(context.Background(), redisClient); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// 3. 连接 MQTT
	mqttClient, err := mqtt.NewClient(&cfg.MQTT, logger)
	if err != nil {
		return nil, err
	}

	// 4. 创建 Repository 层
	sensorRepo := repository.NewPostgresSensorRepository(db, logger)
	actuatorRepo := repository.NewPostgresActuatorRepository(db, logger)
	thresholdRepo := repository.NewPostgresThresholdConfigRepository(db, logger)
	alertRepo := repository.NewPostgresAlertRepository(db, logger)
	ruleRepo := repository.NewPostgresAutomationRuleRepository(db, logger)
	logRepo := repository.NewPostgresAutomationLogRepository(db, logger)
	notifRepo := repository.NewPostgresNotificationRepository(db, logger)
	measurementRepo := repository.NewPostgresMeasurementRepository(db, logger)

	// 5. 创建评估与分发层
	cacheManager := consumer.NewCacheManager(cfg, redisClient, logger)
	thresholdEval := evaluator.NewThresholdEvaluator(sensorRepo, thresholdRepo, alertRepo, logger)
	ruleEngine := evaluator.NewRuleEngine(sensorRepo, ruleRepo, actuatorRepo, logRepo, logger)
	dispatcher := notifier.NewDispatcher(notifRepo, logger)

	// 6. 创建消费者与定时扫描
	msmtConsumer := consumer.NewMeasurementConsumer(
		cfg,
		mqttClient,
		measurementRepo,
		cacheManager,
		thresholdEval,
		ruleEngine,
		logger,
	)
	sweeper := scheduler.NewSweeper(cfg, ruleRepo, ruleEngine, logger)

	return &AutomationService{
		config:          cfg,
		db:              db,
		redisClient:     redisClient,
		mqttClient:      mqttClient,
		logger:          logger,
		sensorRepo:      sensorRepo,
		actuatorRepo:    actuatorRepo,
		thresholdRepo:   thresholdRepo,
		alertRepo:       alertRepo,
		ruleRepo:        ruleRepo,
		logRepo:         logRepo,
		notifRepo:       notifRepo,
		measurementRepo: measurementRepo,
		cacheManager:    cacheManager,
		thresholdEval:   thresholdEval,
		ruleEngine:      ruleEngine,
		dispatcher:      dispatcher,
		msmtConsumer:    msmtConsumer,
		sweeper:         sweeper,
	}, nil
}

// Dispatcher 通知分发器（供外部调用方使用）
func (s *AutomationService) Dispatcher() *notifier.Dispatcher {
	return s.dispatcher
}

// Start 启动服务
func (s *AutomationService) Start(ctx context.Context) error {
	s.logger.Info("Starting automation service")

	// 启动测量值消费
	if err := s.msmtConsumer.Start(); err != nil {
		return fmt.Errorf("failed to start measurement consumer: %w", err)
	}

	// 启动定时规则扫描
	if s.config.Automation.Sweep.Enabled {
		if err := s.sweeper.Start(); err != nil {
			return fmt.Errorf("failed to start sweeper: %w", err)
		}
	}

	// 启动健康检查与指标端点
	s.startHTTP()

	return nil
}

// Stop 停止服务
func (s *AutomationService) Stop() error {
	s.logger.Info("Stopping automation service")

	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		}
	}

	if s.config.Automation.Sweep.Enabled {
		s.sweeper.Stop()
	}

	if err := s.msmtConsumer.Stop(); err != nil {
		s.logger.Error("Failed to stop measurement consumer", zap.Error(err))
	}
	s.mqttClient.Disconnect()

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database", zap.Error(err))
	}

	if err := s.redisClient.Close(); err != nil {
		s.logger.Error("Failed to close redis", zap.Error(err))
	}

	return nil
}

// startHTTP 启动健康检查与指标端点
func (s *AutomationService) startHTTP() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:    s.config.HTTP.Addr,
		Handler: mux,
	}

	go func() {
		s.logger.Info("HTTP endpoint listening", zap.String("addr", s.config.HTTP.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// handleHealth 健康检查：数据库、Redis、MQTT 任一不可用即 503
func (s *AutomationService) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}
	if !s.mqttClient.IsConnected() {
		http.Error(w, "mqtt disconnected", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
