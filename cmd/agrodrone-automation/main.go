package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agrodrone-automation/internal/config"
	"agrodrone-automation/internal/logger"
	"agrodrone-automation/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log := logger.Must(cfg.Log.Level, cfg.Log.Format, "agrodrone-automation")
	defer log.Sync()

	// 3. 创建服务
	automationService, err := service.NewAutomationService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create automation service",
			zap.Error(err),
		)
	}
	defer automationService.Stop()

	// 4. 创建上下文（支持优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. 启动服务（在 goroutine 中）
	serviceErrChan := make(chan error, 1)
	go func() {
		if err := automationService.Start(ctx); err != nil {
			serviceErrChan <- err
		}
	}()

	// 6. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
	case err := <-serviceErrChan:
		log.Fatal("Service error",
			zap.Error(err),
		)
	}

	log.Info("Automation service stopped")
}
