package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Mongo     MongoConfig
	Retention RetentionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	mongo, err := loadMongoConfig()
	if err != nil {
		return nil, err
	}

	retention, err := loadRetentionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Mongo: mongo, Retention: retention}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr        string
	FrontendURL string
}

// loadServerConfig 解析服务器监听地址与前端来源。
func loadServerConfig() (ServerConfig, error) {
	frontend := getEnvOrDefault("FRONTEND_URL", "http://localhost:3000")

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3001" 或 "127.0.0.1:3001"。
		return ServerConfig{Addr: port, FrontendURL: frontend}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, FrontendURL: frontend}, nil
}

// MongoConfig 描述文档数据库连接配置。
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Enabled 表示是否提供了连接串。
func (c MongoConfig) Enabled() bool {
	return c.URI != ""
}

func loadMongoConfig() (MongoConfig, error) {
	timeout, err := parseDurationEnv("MONGODB_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return MongoConfig{}, err
	}

	return MongoConfig{
		URI:            strings.TrimSpace(os.Getenv("MONGODB_URI")),
		Database:       getEnvOrDefault("MONGODB_DATABASE", "Industrial_Startup_Chatbot"),
		ConnectTimeout: timeout,
	}, nil
}

// RetentionConfig 描述过期会话清理策略。
type RetentionConfig struct {
	MaxAge   time.Duration
	Interval time.Duration
}

func loadRetentionConfig() (RetentionConfig, error) {
	maxAge, err := parseDurationEnv("RETENTION_MAX_AGE", time.Hour)
	if err != nil {
		return RetentionConfig{}, err
	}

	interval, err := parseDurationEnv("RETENTION_INTERVAL", time.Hour)
	if err != nil {
		return RetentionConfig{}, err
	}

	if maxAge <= 0 || interval <= 0 {
		return RetentionConfig{}, fmt.Errorf("retention durations must be positive (max age %s, interval %s)", maxAge, interval)
	}

	return RetentionConfig{MaxAge: maxAge, Interval: interval}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
