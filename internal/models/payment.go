// internal/models/payment.go
package models

import "time"

// 支付状态，后端只承认 paid 一种成功终态
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// PaymentRecord 本地持久化的支付凭据
// 启动时读取，用于自动恢复已购服务的解锁状态
type PaymentRecord struct {
	OrderID         string    `json:"order_id"`
	Verified        bool      `json:"verified"`
	BackendVerified bool      `json:"backend_verified"`
	Timestamp       time.Time `json:"timestamp"`
}

// CreatePaymentRequest 支付网关的下单请求体
// Amount 为两位小数的字符串，由服务定价格式化而来
type CreatePaymentRequest struct {
	ServiceType     string `json:"serviceType"`
	Amount          string `json:"amount"`
	FrontendOrderID string `json:"frontendOrderId"`
	PaymentMethod   string `json:"paymentMethod"`
}

// PaymentOrder 下单成功后返回给前端的订单信息
type PaymentOrder struct {
	FrontendOrderID string                 `json:"frontend_order_id"`
	ServiceName     string                 `json:"service_name"`
	Amount          string                 `json:"amount"`
	PaymentMethod   string                 `json:"payment_method"`
	Gateway         map[string]interface{} `json:"gateway,omitempty"` // 网关透传数据（收银台地址等）
	CreatedAt       time.Time              `json:"created_at"`
}
