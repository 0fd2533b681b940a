package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	ServerPort      string
	DBPath          string
	BaseURL         string
	MaxUploadSizeKB int64 // 单个文件大小上限（KB）
}

var config *Config

// GetConfig 获取配置
func GetConfig() *Config {
	if config == nil {
		config = &Config{
			ServerPort: getEnv("SERVER_PORT", "8080"),
			// 使用绝对路径，方便 Docker 挂载
			DBPath:          getEnv("DB_PATH", "data/files.db"),
			BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
			MaxUploadSizeKB: getEnvInt64("MAX_UPLOAD_SIZE_KB", 4096),
		}

		log.Printf("Config loaded - ServerPort: %s, DBPath: %s, MaxUploadSizeKB: %d",
			config.ServerPort, config.DBPath, config.MaxUploadSizeKB)
	}
	return config
}

// MaxUploadSizeBytes 单个文件大小上限（字节）
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.MaxUploadSizeKB * 1024
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("%s 配置错误，使用默认值 %d: %v", key, defaultValue, err)
		return defaultValue
	}
	return n
}
