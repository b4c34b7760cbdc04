package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"env-report/internal/api/handler"
	"env-report/internal/api/middleware"
	"env-report/internal/pkg/cache"
	"env-report/internal/pkg/config"
	"env-report/internal/service"
	"env-report/pkg/constants"
)

// Services 路由依赖的服务集合，由 main 构造注入
type Services struct {
	Report    service.ReportService
	Pipeline  service.PipelineService
	Bitbucket service.BitbucketService
	Cache     *cache.Cache
}

// Setup 设置路由
func Setup(cfg *config.Config, svcs *Services) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   constants.ServiceVersion,
		})
	})

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 初始化Handler
	reportHandler := handler.NewReportHandler(svcs.Report)
	pipelineHandler := handler.NewPipelineHandler(svcs.Pipeline)
	bitbucketHandler := handler.NewBitbucketHandler(svcs.Bitbucket)
	cacheHandler := handler.NewCacheHandler(svcs.Cache)

	// API
	api := r.Group("/api")
	{
		api.GET("/EnvironmentReport", reportHandler.List)
		api.GET("/Pipeline/:definitionId/branches", pipelineHandler.Branches)
		api.GET("/Bitbucket/commits/:branchName", bitbucketHandler.Commits)

		// 缓存管理
		api.POST("/cache/clear", cacheHandler.Clear)
		api.GET("/cache/stats", cacheHandler.Stats)
	}

	// 静态面板
	r.Static("/web", "./web")

	return r
}
