// internal/config/config.go
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// 当前配置的单例实例
var (
	currentConfig *Config
	configMutex   sync.RWMutex
)

// Config 存储应用配置
type Config struct {
	Port      string
	AIBaseURL string // 分析/支付后端的基础地址
	AIAPIKey  string // 上游共享接口密钥，X-API-Key
	DataDir   string
	DebugMode bool
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		AIBaseURL: getEnv("AI_BASE_URL", "https://api.mingli-ai.com"),
		AIAPIKey:  getEnv("AI_API_KEY", ""),
		DataDir:   getEnvPath("DATA_DIR", "data"),
		DebugMode: getEnvBool("DEBUG_MODE", true),
	}

	// 验证上游接口密钥
	if cfg.AIAPIKey == "" {
		// 只记录警告，不返回错误：没有密钥时上游调用会在请求阶段失败
		log.Println("警告: 未设置AI_API_KEY，无法调用分析后端")
	}

	configMutex.Lock()
	currentConfig = cfg
	configMutex.Unlock()

	return cfg, nil
}

// GetCurrentConfig 获取当前配置，Load之前调用返回nil
func GetCurrentConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return currentConfig
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath 获取路径类环境变量并转为绝对路径
func getEnvPath(key, defaultValue string) string {
	value := getEnv(key, defaultValue)
	abs, err := filepath.Abs(value)
	if err != nil {
		return value
	}
	return abs
}

// getEnvBool 获取布尔类环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
