// internal/api/payment_handlers.go
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/models"
)

// PaymentForm 下单请求表单
type PaymentForm struct {
	Service       string `json:"service"`
	PaymentMethod string `json:"payment_method"`
}

// CreatePayment 创建支付订单
// POST /api/payment/create
func (h *Handler) CreatePayment(c *gin.Context) {
	var form PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.Response.BadRequest(c, "请求体格式错误")
		return
	}
	if form.Service == "" {
		h.Response.BadRequest(c, "缺少服务类型")
		return
	}

	order, err := h.Payment.CreateOrder(c.Request.Context(), form.Service, form.PaymentMethod)
	if err != nil {
		h.Logger.Warn("创建支付订单失败",
			zap.String("service", form.Service),
			zap.Error(err))
		h.Response.Error(c, err)
		return
	}

	h.Response.Success(c, order)
}

// GetPaymentStatus 轮询支付状态，已支付则解锁对应服务
// GET /api/payment/status/:orderId?service=服务名
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	serviceName := c.Query("service")
	if serviceName == "" {
		h.Response.BadRequest(c, "缺少service参数")
		return
	}

	paid := h.Payment.CheckStatus(c.Request.Context(), serviceName, orderID)

	status := models.PaymentStatusPending
	if paid {
		status = models.PaymentStatusPaid
	}
	h.Response.Success(c, gin.H{
		"status":   status,
		"unlocked": h.Unlock.IsUnlocked(serviceName),
	})
}

// PaymentCallback 处理托管收银台回跳
// GET /api/payment/callback?payment_success=true&order_id=X&verified=true&service=服务名
// 前端在收到响应后负责把这些参数从地址栏里清掉
func (h *Handler) PaymentCallback(c *gin.Context) {
	serviceName := c.Query("service")
	orderID := c.Query("order_id")
	paymentSuccess := c.Query("payment_success") == "true"
	verified := c.Query("verified") == "true"

	if serviceName == "" {
		h.Response.BadRequest(c, "缺少service参数")
		return
	}

	unlocked := h.Payment.HandleCallback(c.Request.Context(), serviceName, orderID, paymentSuccess, verified)

	h.Response.Success(c, gin.H{
		"unlocked": unlocked,
	})
}

// Health 健康检查
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"status":     "ok",
		"services":   len(h.Catalog.List()),
		"ws_clients": h.Hub.ClientCount(),
	})
}
