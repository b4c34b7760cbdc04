package bitbucket

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgErrors "env-report/pkg/errors"
)

// API Bitbucket Cloud 上游接口
type API interface {
	// ListCommits 获取指定分支的一页提交记录
	ListCommits(branch string, pageLength int) (*CommitsPage, error)

	// GetCommitsPage 按完整URL获取一页提交记录（用于跟随next链接）
	GetCommitsPage(pageURL string) (*CommitsPage, error)
}

// ClientConfig 客户端配置
type ClientConfig struct {
	BaseURL     string // 默认 https://api.bitbucket.org/2.0
	Workspace   string
	Repository  string
	Username    string
	AppPassword string
}

// Client Bitbucket Cloud REST v2 客户端
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient 创建Bitbucket客户端
func NewClient(config *ClientConfig) (*Client, error) {
	if config.Workspace == "" {
		return nil, fmt.Errorf("Workspace不能为空")
	}
	if config.Repository == "" {
		return nil, fmt.Errorf("Repository不能为空")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.bitbucket.org/2.0"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// ListCommits 获取指定分支的一页提交记录
func (c *Client) ListCommits(branch string, pageLength int) (*CommitsPage, error) {
	base := strings.TrimSuffix(c.config.BaseURL, "/")
	pageURL := fmt.Sprintf("%s/repositories/%s/%s/commits/%s?pagelen=%d",
		base, c.config.Workspace, c.config.Repository, url.PathEscape(branch), pageLength)
	return c.GetCommitsPage(pageURL)
}

// GetCommitsPage 按完整URL获取一页提交记录
func (c *Client) GetCommitsPage(pageURL string) (*CommitsPage, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.config.Username, c.config.AppPassword)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeUpstreamError, "请求Bitbucket失败", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough到解析
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, pkgErrors.ErrUpstreamAuthFailed
	case http.StatusNotFound:
		return nil, pkgErrors.ErrBranchNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, pkgErrors.Wrap(pkgErrors.CodeUpstreamError,
			fmt.Sprintf("请求失败 (状态码: %d)", resp.StatusCode), fmt.Errorf("%s", string(body)))
	}

	var page CommitsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeUpstreamError, "解析Bitbucket响应失败", err)
	}
	return &page, nil
}
