// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket 升级器配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该进行更严格的检查
		return true
	},
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsReadTimeout  = 60 * time.Second
)

// unlockClient 一个订阅解锁事件的客户端连接
type unlockClient struct {
	conn   *websocket.Conn
	send   chan []byte
	closed int32 // 原子操作标志，0=开启，1=关闭
}

func (client *unlockClient) close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		client.conn.Close()
	}
}

func (client *unlockClient) isClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

// UnlockHub 管理订阅解锁事件的 WebSocket 连接
// 支付确认后把解锁事件推给所有在线页面，省掉前端轮询
type UnlockHub struct {
	mutex   sync.RWMutex
	clients map[*unlockClient]bool
	logger  *zap.Logger
}

// NewUnlockHub 创建解锁事件推送中心
func NewUnlockHub(logger *zap.Logger) *UnlockHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnlockHub{
		clients: make(map[*unlockClient]bool),
		logger:  logger,
	}
}

// HandleConnection 升级HTTP连接并注册客户端
// GET /ws/unlock
func (hub *UnlockHub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("WebSocket升级失败", zap.Error(err))
		return
	}

	client := &unlockClient{
		conn: conn,
		send: make(chan []byte, 16),
	}

	hub.mutex.Lock()
	hub.clients[client] = true
	hub.mutex.Unlock()

	go hub.writeLoop(client)
	go hub.readLoop(client)
}

// BroadcastUnlock 向所有在线客户端推送解锁事件
func (hub *UnlockHub) BroadcastUnlock(serviceName, orderID string) {
	message, err := json.Marshal(map[string]interface{}{
		"type":      "unlock",
		"service":   serviceName,
		"order_id":  orderID,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return
	}

	hub.mutex.RLock()
	defer hub.mutex.RUnlock()

	for client := range hub.clients {
		if client.isClosed() {
			continue
		}
		select {
		case client.send <- message:
		default:
			// 发送队列已满的连接视为僵死，直接放弃本次推送
			hub.logger.Debug("客户端发送队列已满，跳过推送")
		}
	}
}

// ClientCount 当前在线客户端数
func (hub *UnlockHub) ClientCount() int {
	hub.mutex.RLock()
	defer hub.mutex.RUnlock()
	return len(hub.clients)
}

func (hub *UnlockHub) removeClient(client *unlockClient) {
	hub.mutex.Lock()
	delete(hub.clients, client)
	hub.mutex.Unlock()
	client.close()
}

// writeLoop 将队列消息写入连接，并定期发送ping保活
func (hub *UnlockHub) writeLoop(client *unlockClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		hub.removeClient(client)
	}()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop 只消费pong和关闭帧，客户端不上行业务消息
func (hub *UnlockHub) readLoop(client *unlockClient) {
	defer hub.removeClient(client)

	client.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
