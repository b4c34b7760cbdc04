package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"env-report/internal/api/router"
	"env-report/internal/pkg/azdevops"
	"env-report/internal/pkg/bitbucket"
	"env-report/internal/pkg/cache"
	"env-report/internal/pkg/config"
	"env-report/internal/pkg/logger"
	"env-report/internal/scheduler"
	"env-report/internal/service"
	"env-report/pkg/constants"

	_ "env-report/docs" // Swagger docs
)

// @title Environment Report API
// @version 1.0
// @description 环境报告聚合服务 API 文档
// @description 聚合 Azure DevOps 环境/部署/构建/变量组与 Bitbucket 提交记录

// @contact.name API Support
// @contact.email support@example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

var (
	configFile = flag.String("config", "", "配置文件路径 (例如: -config=configs/config.yaml)")
	version    = flag.Bool("version", false, "显示版本信息")
)

const (
	appVersion = constants.ServiceVersion
	appName    = constants.ServiceName
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 显示版本信息
	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	// init config logger
	var cfg *config.Config
	{
		// 优先级: 命令行参数 > 环境变量 > 默认路径
		configPath := getConfigPath()

		// 加载配置
		c, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("加载配置失败: %v\n", err)
			fmt.Println("\n使用方式:")
			fmt.Println("  1. 命令行参数指定:")
			fmt.Println("     ./env-report -config=configs/config.yaml")
			fmt.Println("  2. 环境变量指定:")
			fmt.Println("     export CONFIG_FILE=configs/config.yaml")
			fmt.Println("     ./env-report")
			fmt.Println("  3. 使用默认配置:")
			fmt.Println("     ./env-report  (将使用 configs/config.yaml)")
			os.Exit(1)
		}
		cfg = c

		// 初始化日志
		if err := logger.Init(&cfg.Log); err != nil {
			fmt.Printf("初始化日志失败: %v\n", err)
			os.Exit(1)
		}
		logger.Info(fmt.Sprintf("Load config file: %s of %s", configPath, getConfigSource()))

		defer func() {
			_ = logger.Close()
		}()
	}

	logger.Info(fmt.Sprintf("服务 %s 启动中...", appName), zap.String("version", appVersion))

	// 初始化上游客户端
	azdoClient, err := azdevops.NewClient(&azdevops.ClientConfig{
		BaseURL:      cfg.AzureDevOps.BaseURL,
		Organization: cfg.AzureDevOps.Organization,
		Project:      cfg.AzureDevOps.Project,
		Token:        cfg.AzureDevOps.Token,
		APIVersion:   cfg.AzureDevOps.APIVersion,
	})
	if err != nil {
		logger.Fatal("初始化Azure DevOps客户端失败", zap.Error(err))
	}
	bitbucketClient, err := bitbucket.NewClient(&bitbucket.ClientConfig{
		BaseURL:     cfg.Bitbucket.BaseURL,
		Workspace:   cfg.Bitbucket.Workspace,
		Repository:  cfg.Bitbucket.Repository,
		Username:    cfg.Bitbucket.Username,
		AppPassword: cfg.Bitbucket.AppPassword,
	})
	if err != nil {
		logger.Fatal("初始化Bitbucket客户端失败", zap.Error(err))
	}

	// 初始化缓存与Service
	reportCache := cache.New()
	reportService := service.NewReportService(azdoClient, reportCache, logger.Log, &cfg.Cache)
	pipelineService := service.NewPipelineService(azdoClient, reportCache, logger.Log, &cfg.Cache)
	bitbucketService := service.NewBitbucketService(bitbucketClient, logger.Log)

	// 初始化并启动缓存预热调度器
	warmScheduler := scheduler.NewScheduler(reportService, logger.Log)
	if err := warmScheduler.Start(cfg); err != nil {
		logger.Warn("缓存预热调度器启动失败", zap.Error(err))
	}

	// 设置路由
	r := router.Setup(cfg, &router.Services{
		Report:    reportService,
		Pipeline:  pipelineService,
		Bitbucket: bitbucketService,
		Cache:     reportCache,
	})

	// 创建HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logger.Info(fmt.Sprintf("%s 服务启动成功", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务正在关闭...")

	// 关闭缓存预热调度器
	warmScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}

// getConfigPath 获取配置文件路径
// 优先级: 命令行参数 > 环境变量 > 默认路径
func getConfigPath() string {
	// 1. 命令行参数
	if *configFile != "" {
		return *configFile
	}

	// 2. 环境变量
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		return envConfig
	}

	// 3. 默认路径
	return "configs/config.yaml"
}

// getConfigSource 获取配置来源说明
func getConfigSource() string {
	if *configFile != "" {
		return "命令行参数"
	}
	if os.Getenv("CONFIG_FILE") != "" {
		return "环境变量"
	}
	return "默认配置"
}
