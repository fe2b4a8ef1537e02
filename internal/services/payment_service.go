// internal/services/payment_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/models"
	"github.com/xudq789/runzang/internal/upstream"
)

// PaymentService 对接支付网关并驱动解锁状态机
type PaymentService struct {
	catalog *CatalogService
	client  *upstream.Client
	unlock  *UnlockService
	logger  *zap.Logger
}

// NewPaymentService 创建支付服务
func NewPaymentService(catalog *CatalogService, client *upstream.Client, unlock *UnlockService, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		catalog: catalog,
		client:  client,
		unlock:  unlock,
		logger:  logger,
	}
}

// CreateOrder 为某个服务创建支付订单
// 金额取服务定价并固定两位小数，前端订单号本地生成
func (s *PaymentService) CreateOrder(ctx context.Context, serviceName, paymentMethod string) (*models.PaymentOrder, error) {
	svc, err := s.catalog.GetByName(serviceName)
	if err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		paymentMethod = "alipay"
	}

	req := models.CreatePaymentRequest{
		ServiceType:     svc.Name,
		Amount:          svc.Price.StringFixed(2),
		FrontendOrderID: "RZ-" + uuid.NewString(),
		PaymentMethod:   paymentMethod,
	}

	gateway, err := s.client.CreatePaymentOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("支付订单已创建",
		zap.String("service", svc.Name),
		zap.String("frontend_order_id", req.FrontendOrderID),
		zap.String("amount", req.Amount))

	return &models.PaymentOrder{
		FrontendOrderID: req.FrontendOrderID,
		ServiceName:     svc.Name,
		Amount:          req.Amount,
		PaymentMethod:   paymentMethod,
		Gateway:         gateway,
		CreatedAt:       time.Now(),
	}, nil
}

// CheckStatus 轮询支付状态，确认已支付则解锁对应服务
// 查询失败或状态不是paid 一律按"尚未支付"处理，不视作错误：
// 前端会继续轮询，这里报错只会打断正常的等待支付流程
func (s *PaymentService) CheckStatus(ctx context.Context, serviceName, orderID string) bool {
	status, err := s.client.QueryPaymentStatus(ctx, orderID)
	if err != nil {
		s.logger.Debug("查询支付状态失败",
			zap.String("order_id", orderID),
			zap.Error(err))
		return false
	}
	if status != models.PaymentStatusPaid {
		return false
	}

	s.unlock.ConfirmPayment(ctx, serviceName, orderID, true)
	return true
}

// HandleCallback 处理托管收银台的回跳验证
// 回跳参数 payment_success=true 且 verified=true 时记账并解锁
func (s *PaymentService) HandleCallback(ctx context.Context, serviceName, orderID string, paymentSuccess, verified bool) bool {
	if !paymentSuccess || !verified || orderID == "" {
		return false
	}

	s.unlock.ConfirmPayment(ctx, serviceName, orderID, true)
	return true
}
