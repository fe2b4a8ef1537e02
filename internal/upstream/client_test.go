// internal/upstream/client_test.go
package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/xudq789/runzang/internal/errors"
	"github.com/xudq789/runzang/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", zap.NewNop()), server
}

// TestSubmitQuery_Success 正常提交并拿到订单号和内容
func TestSubmitQuery_Success(t *testing.T) {
	var gotPath, gotKey string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`{"success":true,"data":{"orderId":"AI20250901001","content":"【八字排盘】\n年柱：甲子(金)"}}`))
	}))

	result, err := client.SubmitQuery(context.Background(), "csyz", models.SingleAnalysisRequest{Name: "张三"})

	require.NoError(t, err)
	assert.Equal(t, "/api/ai/query-csyz", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "AI20250901001", result.OrderID)
	assert.Contains(t, result.Content, "八字排盘")
}

// TestSubmitQuery_HTTPError 非2xx映射为携带状态码的上游HTTP错误
func TestSubmitQuery_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.SubmitQuery(context.Background(), "rsxp", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamHTTPError(err))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Status)
	assert.Contains(t, appErr.Message, "请求过于频繁")
}

// TestSubmitQuery_APIError success=false时原样透出后端消息
func TestSubmitQuery_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"出生时间不合法"}`))
	}))

	_, err := client.SubmitQuery(context.Background(), "lnyc", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsAPIError(err))
	assert.Contains(t, err.Error(), "出生时间不合法")
}

// TestFetchFullContent_Success 已购订单能取回完整内容
func TestFetchFullContent_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/result/AI001", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"content":"完整报告内容"}}`))
	}))

	content, ok := client.FetchFullContent(context.Background(), "AI001")

	assert.True(t, ok)
	assert.Equal(t, "完整报告内容", content)
}

// TestFetchFullContent_SwallowsErrors 任何失败都不抛错，只返回ok=false
func TestFetchFullContent_SwallowsErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"服务器错误": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"业务失败": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"订单不存在"}`))
		},
		"响应损坏": func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{{{`)) },
		"内容为空": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"content":""}}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, handler)
			content, ok := client.FetchFullContent(context.Background(), "AI002")
			assert.False(t, ok)
			assert.Empty(t, content)
		})
	}
}

// TestQueryPaymentStatus 状态字段照原样带回
func TestQueryPaymentStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/status/PAY001", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"status":"paid"}}`))
	}))

	status, err := client.QueryPaymentStatus(context.Background(), "PAY001")

	require.NoError(t, err)
	assert.Equal(t, "paid", status)
}

// TestCreatePaymentOrder 下单请求体字段符合网关约定
func TestCreatePaymentOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, jsonDecode(r, &req))
		assert.Equal(t, "测算验证", req["serviceType"])
		assert.Equal(t, "38.00", req["amount"])
		assert.Equal(t, "alipay", req["paymentMethod"])
		assert.NotEmpty(t, req["frontendOrderId"])
		w.Write([]byte(`{"success":true,"data":{"payUrl":"https://pay.example.com/cashier/123"}}`))
	}))

	gateway, err := client.CreatePaymentOrder(context.Background(), models.CreatePaymentRequest{
		ServiceType:     "测算验证",
		Amount:          "38.00",
		FrontendOrderID: "RZ-001",
		PaymentMethod:   "alipay",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cashier/123", gateway["payUrl"])
}

func jsonDecode(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}
