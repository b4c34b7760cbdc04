package azdevops

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgErrors "env-report/pkg/errors"
)

// API Azure DevOps 上游接口
type API interface {
	// ListEnvironments 获取项目下的环境列表
	ListEnvironments() ([]Environment, error)

	// ListDeploymentRecords 获取指定环境的部署记录
	ListDeploymentRecords(environmentID int) ([]DeploymentRecord, error)

	// GetBuild 按ID获取构建，构建不存在时返回 pkgErrors.ErrBuildNotFound
	GetBuild(buildID int) (*Build, error)

	// ListVariableGroups 获取项目下的变量组
	ListVariableGroups() ([]VariableGroup, error)

	// ListDefinitionBuilds 获取指定流水线定义最近完成的构建，按完成时间倒序，最多top条
	ListDefinitionBuilds(definitionID, top int) ([]Build, error)
}

// ClientConfig 客户端配置
type ClientConfig struct {
	BaseURL      string // 默认 https://dev.azure.com
	Organization string
	Project      string
	Token        string // Personal Access Token
	APIVersion   string
}

// Client Azure DevOps REST 客户端
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient 创建Azure DevOps客户端
func NewClient(config *ClientConfig) (*Client, error) {
	if config.Organization == "" {
		return nil, fmt.Errorf("Organization不能为空")
	}
	if config.Project == "" {
		return nil, fmt.Errorf("Project不能为空")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://dev.azure.com"
	}
	if config.APIVersion == "" {
		config.APIVersion = "7.1-preview.1"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// ListEnvironments 获取项目下的环境列表
func (c *Client) ListEnvironments() ([]Environment, error) {
	url := c.apiURL("distributedtask/environments", "")

	var result collection[Environment]
	if err := c.doGet(url, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// ListDeploymentRecords 获取指定环境的部署记录
func (c *Client) ListDeploymentRecords(environmentID int) ([]DeploymentRecord, error) {
	url := c.apiURL(fmt.Sprintf("distributedtask/environments/%d/environmentdeploymentrecords", environmentID), "")

	var result collection[DeploymentRecord]
	if err := c.doGet(url, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// GetBuild 按ID获取构建
func (c *Client) GetBuild(buildID int) (*Build, error) {
	url := c.apiURL(fmt.Sprintf("build/builds/%d", buildID), "")

	var build Build
	if err := c.doGet(url, &build); err != nil {
		if appErr, ok := err.(*pkgErrors.AppError); ok && appErr.Code == pkgErrors.CodeNotFound {
			return nil, pkgErrors.ErrBuildNotFound
		}
		return nil, err
	}
	return &build, nil
}

// ListVariableGroups 获取项目下的变量组
func (c *Client) ListVariableGroups() ([]VariableGroup, error) {
	url := c.apiURL("distributedtask/variablegroups", "")

	var result collection[VariableGroup]
	if err := c.doGet(url, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// ListDefinitionBuilds 获取指定流水线定义最近完成的构建
func (c *Client) ListDefinitionBuilds(definitionID, top int) ([]Build, error) {
	extra := fmt.Sprintf("definitions=%d&statusFilter=completed&queryOrder=finishTimeDescending&$top=%d", definitionID, top)
	url := c.apiURL("build/builds", extra)

	var result collection[Build]
	if err := c.doGet(url, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// apiURL 拼接项目级API地址
func (c *Client) apiURL(path, extraQuery string) string {
	base := strings.TrimSuffix(c.config.BaseURL, "/")
	url := fmt.Sprintf("%s/%s/%s/_apis/%s?api-version=%s",
		base, c.config.Organization, c.config.Project, path, c.config.APIVersion)
	if extraQuery != "" {
		url += "&" + extraQuery
	}
	return url
}

// doGet 发起GET请求并解析JSON响应
func (c *Client) doGet(url string, target interface{}) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}

	// PAT用Basic认证，用户名留空
	req.SetBasicAuth("", c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeUpstreamError, "请求Azure DevOps失败", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough到解析
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "Azure DevOps认证失败", fmt.Errorf("状态码: %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return pkgErrors.ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return pkgErrors.Wrap(pkgErrors.CodeUpstreamError,
			fmt.Sprintf("请求失败 (状态码: %d)", resp.StatusCode), fmt.Errorf("%s", string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeUpstreamError, "解析Azure DevOps响应失败", err)
	}
	return nil
}
