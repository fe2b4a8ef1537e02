// internal/services/unlock_service.go
package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xudq789/runzang/internal/models"
	"github.com/xudq789/runzang/internal/storage"
	"github.com/xudq789/runzang/internal/upstream"
)

const (
	paymentRecordDir  = "payments"
	paymentRecordFile = "records.json"
)

// UnlockService 维护每个服务的解锁状态机
//
// 状态只有 Locked/Unlocked 两个。解锁由支付确认触发，且单向：
// 会话内不存在 Unlocked -> Locked 的迁移，重新发起分析也不会改写
// 已持久化的解锁状态。各服务的状态彼此隔离
type UnlockService struct {
	mu       sync.RWMutex
	store    *storage.FileStorage
	client   *upstream.Client
	logger   *zap.Logger
	records  map[string]models.PaymentRecord // 服务名 -> 支付凭据
	contents map[string]string               // 服务名 -> 已取回的完整报告
	onUnlock []func(serviceName, orderID string)
}

// NewUnlockService 创建解锁服务并恢复持久化的支付凭据
func NewUnlockService(store *storage.FileStorage, client *upstream.Client, logger *zap.Logger) *UnlockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &UnlockService{
		store:    store,
		client:   client,
		logger:   logger,
		records:  make(map[string]models.PaymentRecord),
		contents: make(map[string]string),
	}

	if store != nil && store.Exists(paymentRecordDir, paymentRecordFile) {
		if err := store.LoadJSON(paymentRecordDir, paymentRecordFile, &s.records); err != nil {
			// 凭据文件损坏按全部未解锁处理，不阻断启动
			s.logger.Warn("读取支付凭据失败", zap.Error(err))
			s.records = make(map[string]models.PaymentRecord)
		}
	}
	return s
}

// Bootstrap 对启动时恢复出的已验证订单补取完整报告
// 尽力而为：取不到就继续用付费墙之前缓存的部分内容
func (s *UnlockService) Bootstrap(ctx context.Context) {
	s.mu.RLock()
	verified := make(map[string]string)
	for name, record := range s.records {
		if record.Verified {
			verified[name] = record.OrderID
		}
	}
	s.mu.RUnlock()

	for name, orderID := range verified {
		if content, ok := s.client.FetchFullContent(ctx, orderID); ok {
			s.mu.Lock()
			s.contents[name] = content
			s.mu.Unlock()
			s.logger.Info("已恢复完整报告",
				zap.String("service", name),
				zap.String("order_id", orderID))
		}
	}
}

// IsUnlocked 查询某个服务当前是否已解锁
func (s *UnlockService) IsUnlocked(serviceName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[serviceName]
	return ok && record.Verified
}

// RecordFor 返回某个服务的支付凭据副本
func (s *UnlockService) RecordFor(serviceName string) (models.PaymentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[serviceName]
	return record, ok
}

// ServiceForOrder 按订单号反查服务名
func (s *UnlockService) ServiceForOrder(orderID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, record := range s.records {
		if record.OrderID == orderID {
			return name, true
		}
	}
	return "", false
}

// FullContent 返回已取回的完整报告
func (s *UnlockService) FullContent(serviceName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[serviceName]
	return content, ok && content != ""
}

// EnsureContent 返回某个已解锁服务的完整报告，没有缓存时现场补取
// 补取依旧是尽力而为，取不到返回ok=false
func (s *UnlockService) EnsureContent(ctx context.Context, serviceName string) (string, bool) {
	if content, ok := s.FullContent(serviceName); ok {
		return content, true
	}

	record, ok := s.RecordFor(serviceName)
	if !ok || !record.Verified {
		return "", false
	}

	content, ok := s.client.FetchFullContent(ctx, record.OrderID)
	if !ok {
		return "", false
	}
	s.CacheContent(serviceName, content)
	return content, true
}

// CacheContent 缓存某个服务的完整报告，供解锁后展示
func (s *UnlockService) CacheContent(serviceName, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[serviceName] = content
}

// OnUnlock 注册解锁事件回调（websocket推送等）
func (s *UnlockService) OnUnlock(fn func(serviceName, orderID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUnlock = append(s.onUnlock, fn)
}

// ConfirmPayment 支付确认，驱动 Locked -> Unlocked 迁移
// 已解锁的服务重复确认是幂等的no-op，保证状态单调
func (s *UnlockService) ConfirmPayment(ctx context.Context, serviceName, orderID string, backendVerified bool) {
	s.mu.Lock()
	if existing, ok := s.records[serviceName]; ok && existing.Verified {
		s.mu.Unlock()
		return
	}

	record := models.PaymentRecord{
		OrderID:         orderID,
		Verified:        true,
		BackendVerified: backendVerified,
		Timestamp:       time.Now(),
	}
	s.records[serviceName] = record
	snapshot := make(map[string]models.PaymentRecord, len(s.records))
	for name, r := range s.records {
		snapshot[name] = r
	}
	callbacks := make([]func(string, string), len(s.onUnlock))
	copy(callbacks, s.onUnlock)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveJSON(paymentRecordDir, paymentRecordFile, snapshot); err != nil {
			s.logger.Error("持久化支付凭据失败",
				zap.String("service", serviceName),
				zap.Error(err))
		}
	}

	s.logger.Info("服务已解锁",
		zap.String("service", serviceName),
		zap.String("order_id", orderID),
		zap.Bool("backend_verified", backendVerified))

	for _, fn := range callbacks {
		fn(serviceName, orderID)
	}

	// 解锁后顺手补取完整报告，失败不影响解锁结果
	if content, ok := s.client.FetchFullContent(ctx, orderID); ok {
		s.CacheContent(serviceName, content)
	}
}
