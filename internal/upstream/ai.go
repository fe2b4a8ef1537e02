// internal/upstream/ai.go
package upstream

import (
	"context"

	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/models"
)

// SubmitQuery 提交一次分析请求
// code 是服务编码（rsxp/csyz/lnyc/bzhh），body 为对应服务的请求体
func (c *Client) SubmitQuery(ctx context.Context, code string, body interface{}) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := c.postJSON(ctx, "/api/ai/query-"+code, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchFullContent 按订单号取回已购买的完整报告
// 尽力而为的补偿查询，不在关键路径上：任何失败都只记日志并返回ok=false，
// 调用方继续使用手头已有的部分内容
func (c *Client) FetchFullContent(ctx context.Context, orderID string) (string, bool) {
	var data struct {
		Content string `json:"content"`
	}
	if err := c.getJSON(ctx, "/api/ai/result/"+orderID, &data); err != nil {
		c.logger.Debug("获取完整报告失败",
			zap.String("order_id", orderID),
			zap.Error(err))
		return "", false
	}
	if data.Content == "" {
		return "", false
	}
	return data.Content, true
}
