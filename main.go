package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"docmanager/config"
	"docmanager/database"
	"docmanager/handlers"
	"docmanager/middleware"
	"docmanager/services"
)

func main() {
	// 加载 .env（不存在时直接用系统环境变量）
	if err := godotenv.Load(); err != nil {
		log.Printf("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.GetConfig()

	// 初始化数据库
	database.InitDB()

	// 初始化存储后端
	storageCfg := config.LoadStorageConfig()
	if err := storageCfg.Validate(); err != nil {
		log.Fatalf("存储配置错误: %v", err)
	}

	var storage services.Storage
	if storageCfg.IsS3Enabled() {
		s3Storage, err := services.NewS3Storage(services.S3Config{
			AccessKey: storageCfg.S3AccessKey,
			SecretKey: storageCfg.S3SecretKey,
			Region:    storageCfg.S3Region,
			Bucket:    storageCfg.S3Bucket,
			Endpoint:  storageCfg.S3Endpoint,
		})
		if err != nil {
			log.Fatalf("初始化 S3 存储失败: %v", err)
		}
		storage = s3Storage
		log.Printf("Storage backend: s3 (bucket=%s)", storageCfg.S3Bucket)
	} else {
		localStorage, err := services.NewLocalStorage(afero.NewOsFs(), storageCfg.UploadDir, cfg.BaseURL)
		if err != nil {
			log.Fatalf("初始化本地存储失败: %v", err)
		}
		storage = localStorage
		log.Printf("Storage backend: local (dir=%s)", storageCfg.UploadDir)
	}

	policy := services.DefaultUploadPolicy()
	policy.MaxSizeBytes = cfg.MaxUploadSizeBytes()

	fileService := services.NewFileService(database.DB, storage, policy)
	fileHandler := handlers.NewFileHandler(fileService)

	// 创建 Gin 路由
	r := gin.Default()

	// CORS 配置
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true, // 允许所有来源（仅开发环境）
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 本地存储时通过静态路由暴露上传目录，响应里的 url 才可访问
	if !storageCfg.IsS3Enabled() {
		r.Static("/"+storageCfg.UploadDir, storageCfg.UploadDir)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(300))

	files := api.Group("/files")
	files.Use(middleware.BodySizeLimit(cfg.MaxUploadSizeBytes()))
	{
		files.GET("/requirements", fileHandler.GetUploadRequirements)
		files.POST("/single", fileHandler.StoreSingle)
		files.POST("", fileHandler.Store)
		files.GET("", fileHandler.Index)
		files.GET("/sessions/:sessionId", fileHandler.SessionFiles)
		files.GET("/:id/download", fileHandler.Download)
		files.DELETE("/:id", fileHandler.Destroy)
	}

	addr := ":" + cfg.ServerPort
	log.Printf("Server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}
