// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xudq789/runzang/internal/api"
	"github.com/xudq789/runzang/internal/app"
	"github.com/xudq789/runzang/internal/config"
	"github.com/xudq789/runzang/internal/di"
)

func main() {
	log.Println("🚀 启动 runzang 命理分析服务...")

	// 1. 加载基础配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	log.Printf("✅ 配置加载完成，端口: %s", cfg.Port)

	// 2. 初始化所有服务（按依赖顺序）
	if err := app.InitServices(); err != nil {
		log.Fatalf("初始化服务失败: %v", err)
	}
	log.Printf("✅ 服务初始化完成，服务数量: %d", len(di.GetContainer().GetNames()))

	// 3. 健康检查
	if err := performHealthCheck(); err != nil {
		log.Fatalf("❌ 服务健康检查失败: %v", err)
	}

	// 4. 设置路由
	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("❌ 设置路由失败: %v", err)
	}
	log.Println("✅ 路由设置完成")

	// 5. 启动服务器
	log.Printf("🌐 服务器启动在端口 %s", cfg.Port)
	runWithGracefulShutdown(router, cfg.Port)
}

// performHealthCheck 检查关键服务是否已注册
func performHealthCheck() error {
	container := di.GetContainer()

	criticalServices := []string{"catalog", "analysis", "payment", "unlock", "hub"}
	for _, serviceName := range criticalServices {
		if service := container.Get(serviceName); service == nil {
			return &missingServiceError{name: serviceName}
		}
	}

	log.Println("✅ 服务健康检查通过")
	return nil
}

type missingServiceError struct {
	name string
}

func (e *missingServiceError) Error() string {
	return "关键服务未注册: " + e.name
}

// runWithGracefulShutdown 启动HTTP服务并处理退出信号
func runWithGracefulShutdown(router *gin.Engine, port string) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器运行失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⏳ 收到退出信号，正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("服务器关闭异常: %v", err)
	}
	log.Println("✅ 服务器已退出")
}
