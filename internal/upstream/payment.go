// internal/upstream/payment.go
package upstream

import (
	"context"
	"encoding/json"

	"github.com/xudq789/runzang/internal/models"
)

// CreatePaymentOrder 向支付网关下单
// 返回网关透传数据（收银台地址、二维码等，字段因支付方式而异）
func (c *Client) CreatePaymentOrder(ctx context.Context, req models.CreatePaymentRequest) (map[string]interface{}, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/api/payment/create", req, &raw); err != nil {
		return nil, err
	}

	gateway := map[string]interface{}{}
	if len(raw) > 0 {
		// 透传数据解析失败不影响下单本身
		json.Unmarshal(raw, &gateway)
	}
	return gateway, nil
}

// QueryPaymentStatus 查询支付状态
// 后端只有 paid 一种成功终态，其余取值调用方按未支付处理
func (c *Client) QueryPaymentStatus(ctx context.Context, orderID string) (string, error) {
	var data struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/api/payment/status/"+orderID, &data); err != nil {
		return "", err
	}
	return data.Status, nil
}
