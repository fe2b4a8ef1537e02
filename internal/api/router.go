// internal/api/router.go
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/config"
	"github.com/xudq789/runzang/internal/di"
	"github.com/xudq789/runzang/internal/services"
)

// SetupRouter 配置HTTP路由
// 只从容器获取服务，不创建新实例
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()
	if cfg != nil && !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	container := di.GetContainer()

	catalogService, ok := container.Get("catalog").(*services.CatalogService)
	if !ok {
		return nil, fmt.Errorf("服务目录未正确初始化")
	}

	analysisService, ok := container.Get("analysis").(*services.AnalysisService)
	if !ok {
		return nil, fmt.Errorf("分析服务未正确初始化")
	}

	paymentService, ok := container.Get("payment").(*services.PaymentService)
	if !ok {
		return nil, fmt.Errorf("支付服务未正确初始化")
	}

	unlockService, ok := container.Get("unlock").(*services.UnlockService)
	if !ok {
		return nil, fmt.Errorf("解锁服务未正确初始化")
	}

	hub, ok := container.Get("hub").(*UnlockHub)
	if !ok {
		return nil, fmt.Errorf("推送中心未正确初始化")
	}

	logger, _ := container.Get("logger").(*zap.Logger)

	handler := NewHandler(
		catalogService,
		analysisService,
		paymentService,
		unlockService,
		hub,
		logger,
	)

	router := gin.Default()

	apiGroup := router.Group("/api", DefaultRateLimit())
	{
		apiGroup.GET("/health", handler.Health)
		apiGroup.GET("/services", handler.GetServices)

		apiGroup.POST("/analysis", AnalysisRateLimit(), handler.SubmitAnalysis)
		apiGroup.GET("/analysis/result/:orderId", handler.GetAnalysisResult)

		payGroup := apiGroup.Group("/payment", PaymentRateLimit())
		{
			payGroup.POST("/create", handler.CreatePayment)
			payGroup.GET("/status/:orderId", handler.GetPaymentStatus)
			payGroup.GET("/callback", handler.PaymentCallback)
		}
	}

	router.GET("/ws/unlock", hub.HandleConnection)

	return router, nil
}
