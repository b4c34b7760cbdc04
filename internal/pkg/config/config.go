package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var GlobalConfig *Config

// Config 全局配置
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	AzureDevOps AzureDevOpsConfig `mapstructure:"azure_devops"`
	Bitbucket   BitbucketConfig   `mapstructure:"bitbucket"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Warm        WarmConfig        `mapstructure:"warm"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, console
	Output     string `mapstructure:"output"` // stdout, file
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// AzureDevOpsConfig Azure DevOps 上游配置
type AzureDevOpsConfig struct {
	Organization string `mapstructure:"organization"`
	Project      string `mapstructure:"project"`
	Token        string `mapstructure:"token"`       // Personal Access Token
	APIVersion   string `mapstructure:"api_version"` // 如: 7.1-preview.1
	BaseURL      string `mapstructure:"base_url"`    // 默认 https://dev.azure.com
}

// BitbucketConfig Bitbucket Cloud 上游配置
type BitbucketConfig struct {
	Workspace   string `mapstructure:"workspace"`
	Repository  string `mapstructure:"repository"`
	Username    string `mapstructure:"username"`
	AppPassword string `mapstructure:"app_password"`
	BaseURL     string `mapstructure:"base_url"` // 默认 https://api.bitbucket.org/2.0
}

// CacheConfig 缓存配置（TTL单位: 秒，0表示使用默认值）
type CacheConfig struct {
	EnvironmentsTTL   int `mapstructure:"environments_ttl"`
	VariableGroupsTTL int `mapstructure:"variable_groups_ttl"`
	DeploymentsTTL    int `mapstructure:"deployments_ttl"`
	BuildTTL          int `mapstructure:"build_ttl"`
	PipelineTTL       int `mapstructure:"pipeline_ttl"`
}

// WarmConfig 缓存预热配置
type WarmConfig struct {
	Cron string `mapstructure:"cron"` // Cron表达式，留空则不启用预热任务
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// 读取环境变量（如 AZURE_DEVOPS_TOKEN 覆盖 azure_devops.token）
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	// 设置全局配置
	GlobalConfig = config

	return config, nil
}

// applyDefaults 填充默认值
func applyDefaults(c *Config) {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.AzureDevOps.BaseURL == "" {
		c.AzureDevOps.BaseURL = "https://dev.azure.com"
	}
	if c.AzureDevOps.APIVersion == "" {
		c.AzureDevOps.APIVersion = "7.1-preview.1"
	}
	if c.Bitbucket.BaseURL == "" {
		c.Bitbucket.BaseURL = "https://api.bitbucket.org/2.0"
	}
}

// validate 校验必填项
func validate(c *Config) error {
	if c.AzureDevOps.Organization == "" {
		return fmt.Errorf("配置项 azure_devops.organization 不能为空")
	}
	if c.AzureDevOps.Project == "" {
		return fmt.Errorf("配置项 azure_devops.project 不能为空")
	}
	return nil
}
