// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/api"
	"github.com/xudq789/runzang/internal/config"
	"github.com/xudq789/runzang/internal/di"
	"github.com/xudq789/runzang/internal/services"
	"github.com/xudq789/runzang/internal/storage"
	"github.com/xudq789/runzang/internal/upstream"
)

// InitServices 按依赖顺序初始化所有服务并注册到容器
// 调用前必须先完成 config.Load
func InitServices() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("配置未加载")
	}

	logger, err := buildLogger(cfg.DebugMode)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	store, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("初始化存储失败: %w", err)
	}

	client := upstream.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, logger)

	catalogService := services.NewCatalogService()
	unlockService := services.NewUnlockService(store, client, logger)
	analysisService := services.NewAnalysisService(catalogService, client, logger)
	paymentService := services.NewPaymentService(catalogService, client, unlockService, logger)
	hub := api.NewUnlockHub(logger)

	// 支付确认后通过websocket推给在线页面
	unlockService.OnUnlock(hub.BroadcastUnlock)

	container := di.GetContainer()
	container.Register("logger", logger)
	container.Register("storage", store)
	container.Register("upstream", client)
	container.Register("catalog", catalogService)
	container.Register("unlock", unlockService)
	container.Register("analysis", analysisService)
	container.Register("payment", paymentService)
	container.Register("hub", hub)

	// 对启动时恢复出的已购订单补取完整报告，不阻塞启动
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		unlockService.Bootstrap(ctx)
	}()

	return nil
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
