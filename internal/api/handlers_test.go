// internal/api/handlers_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/services"
	"github.com/xudq789/runzang/internal/storage"
	"github.com/xudq789/runzang/internal/upstream"
)

const testReport = "【八字排盘】\n年柱：甲子(海中金)\n月柱：庚午(路旁土)\n日柱：戊辰(大林木)\n时柱：壬子(桑柘木)\n" +
	"【性格特点】性格坚毅果断，为人正直\n【富贵层次评估】中上等富贵格局\n【六亲情况验证】父母缘分深厚"

// fakeBackend 模拟分析+支付后端
type fakeBackend struct {
	paid bool
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/ai/query-"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]string{"orderId": "AI-100", "content": testReport},
			})
		case strings.HasPrefix(r.URL.Path, "/api/ai/result/"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]string{"content": testReport},
			})
		case r.URL.Path == "/api/payment/create":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]string{"payUrl": "https://pay.example.com/c/9"},
			})
		case strings.HasPrefix(r.URL.Path, "/api/payment/status/"):
			status := "pending"
			if b.paid {
				status = "paid"
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]string{"status": status},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

func newTestRouter(t *testing.T, backend *fakeBackend) (*gin.Engine, *services.UnlockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client := upstream.NewClient(server.URL, "k", zap.NewNop())
	store, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	catalog := services.NewCatalogService()
	unlock := services.NewUnlockService(store, client, zap.NewNop())
	analysis := services.NewAnalysisService(catalog, client, zap.NewNop())
	payment := services.NewPaymentService(catalog, client, unlock, zap.NewNop())
	hub := NewUnlockHub(zap.NewNop())

	handler := NewHandler(catalog, analysis, payment, unlock, hub, zap.NewNop())

	router := gin.New()
	router.GET("/api/services", handler.GetServices)
	router.POST("/api/analysis", handler.SubmitAnalysis)
	router.GET("/api/analysis/result/:orderId", handler.GetAnalysisResult)
	router.POST("/api/payment/create", handler.CreatePayment)
	router.GET("/api/payment/status/:orderId", handler.GetPaymentStatus)
	router.GET("/api/payment/callback", handler.PaymentCallback)
	return router, unlock
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

const validForm = `{"service":"测算验证","user":{"name":"张三","gender":"male","birth_year":1992,"birth_month":6,"birth_day":8,"birth_city":"杭州"}}`

// TestGetServices 服务目录接口返回四个服务
func TestGetServices(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBackend{})

	w, resp := doJSON(t, router, http.MethodGet, "/api/services", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Len(t, resp["data"], 4)
}

// TestSubmitAnalysis_LockedByDefault 未支付时只下发免费内容
func TestSubmitAnalysis_LockedByDefault(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBackend{})

	w, resp := doJSON(t, router, http.MethodPost, "/api/analysis", validForm)

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "AI-100", data["order_id"])
	assert.Equal(t, false, data["unlocked"])
	assert.Contains(t, data["free_content"], "【性格特点】")
	_, hasLocked := data["locked_content"]
	assert.False(t, hasLocked, "未解锁时不能下发付费内容")

	chart := data["chart"].(map[string]interface{})
	user := chart["user"].(map[string]interface{})
	assert.Equal(t, "甲子", user["yearColumn"])
}

// TestSubmitAnalysis_MissingFields 缺必填字段返回验证错误
func TestSubmitAnalysis_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBackend{})

	w, resp := doJSON(t, router, http.MethodPost, "/api/analysis",
		`{"service":"测算验证","user":{"name":"张三"}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "请补全")
}

// TestSubmitAnalysis_MarriageNeedsPartner 合婚服务缺少伴侣信息返回验证错误
func TestSubmitAnalysis_MarriageNeedsPartner(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBackend{})

	form := `{"service":"八字合婚","user":{"name":"张三","gender":"male","birth_year":1992,"birth_month":6,"birth_day":8,"birth_city":"杭州"}}`
	w, resp := doJSON(t, router, http.MethodPost, "/api/analysis", form)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["message"], "伴侣")
}

// TestPaymentFlow 轮询到paid后解锁，再次分析下发付费内容，完整报告可取
func TestPaymentFlow(t *testing.T) {
	backend := &fakeBackend{}
	router, unlock := newTestRouter(t, backend)

	// 先做一次分析拿到订单号
	_, resp := doJSON(t, router, http.MethodPost, "/api/analysis", validForm)
	orderID := resp["data"].(map[string]interface{})["order_id"].(string)

	// 未支付时轮询返回pending
	w, resp := doJSON(t, router, http.MethodGet, "/api/payment/status/"+orderID+"?service=测算验证", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", resp["data"].(map[string]interface{})["status"])
	assert.False(t, unlock.IsUnlocked("测算验证"))

	// 后端确认已支付
	backend.paid = true
	w, resp = doJSON(t, router, http.MethodGet, "/api/payment/status/"+orderID+"?service=测算验证", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["status"])
	assert.Equal(t, true, data["unlocked"])

	// 解锁后再次分析能拿到付费内容
	_, resp = doJSON(t, router, http.MethodPost, "/api/analysis", validForm)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["unlocked"])
	assert.Contains(t, data["locked_content"], "【富贵层次评估】")

	// 按订单号取回完整报告
	w, resp = doJSON(t, router, http.MethodGet, "/api/analysis/result/"+orderID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp["data"].(map[string]interface{})["content"], "【六亲情况验证】")
}

// TestPaymentCallback 回跳参数齐全时直接解锁
func TestPaymentCallback(t *testing.T) {
	router, unlock := newTestRouter(t, &fakeBackend{})

	w, resp := doJSON(t, router, http.MethodGet,
		"/api/payment/callback?payment_success=true&order_id=AI-100&verified=true&service=测算验证", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["data"].(map[string]interface{})["unlocked"])
	assert.True(t, unlock.IsUnlocked("测算验证"))
}

// TestGetAnalysisResult_UnknownOrder 未解锁订单取不到完整报告
func TestGetAnalysisResult_UnknownOrder(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBackend{})

	w, resp := doJSON(t, router, http.MethodGet, "/api/analysis/result/NO-SUCH", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
}

// TestCreatePayment 下单接口透传网关数据
func TestCreatePayment(t *testing.T) {
	router, _ := newTestRouter(t, &fakeBackend{})

	w, resp := doJSON(t, router, http.MethodPost, "/api/payment/create",
		`{"service":"测算验证","payment_method":"alipay"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "38.00", data["amount"])
	gateway := data["gateway"].(map[string]interface{})
	assert.Equal(t, "https://pay.example.com/c/9", gateway["payUrl"])
}
