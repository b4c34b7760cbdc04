package dto

import (
	"strings"
	"time"

	"env-report/pkg/constants"
	pkgErrors "env-report/pkg/errors"
)

// EnvironmentReportQuery 环境报告查询参数
type EnvironmentReportQuery struct {
	EnvironmentName       string `form:"environmentName"`                            // 可选：环境名模糊过滤（忽略大小写）
	StageName             string `form:"stageName"`                                  // 可选：阶段名模糊过滤（忽略大小写）
	Result                string `form:"result"`                                     // 可选：部署结果精确过滤（忽略大小写）
	IncludeVariableGroups bool   `form:"includeVariableGroups"`                      // 是否关联变量组
	PageNumber            *int   `form:"pageNumber" binding:"omitempty,min=1"`       // 页码，默认1；显式传0或负数拒绝
	PageSize              *int   `form:"pageSize" binding:"omitempty,min=1,max=100"` // 每页数量，默认40；显式传超界值拒绝
	SortBy                string `form:"sortBy"`                                     // deploymentFinishTime / buildStartTime
	SortOrder             string `form:"sortOrder"`                                  // asc / desc（忽略大小写）
}

// GetPageNumber 获取页码
func (q *EnvironmentReportQuery) GetPageNumber() int {
	if q.PageNumber == nil || *q.PageNumber < 1 {
		return 1
	}
	return *q.PageNumber
}

// GetPageSize 获取每页数量
func (q *EnvironmentReportQuery) GetPageSize() int {
	if q.PageSize == nil || *q.PageSize < 1 {
		return 40
	}
	if *q.PageSize > 100 {
		return 100
	}
	return *q.PageSize
}

// Validate 校验排序参数。HTTP入口拒绝非法值；服务内部调用仍按默认值兜底。
func (q *EnvironmentReportQuery) Validate() error {
	if q.SortBy != "" && q.SortBy != constants.SortByDeploymentFinishTime && q.SortBy != constants.SortByBuildStartTime {
		return pkgErrors.ErrInvalidSortParams
	}
	if q.SortOrder != "" &&
		!strings.EqualFold(q.SortOrder, constants.SortOrderAsc) &&
		!strings.EqualFold(q.SortOrder, constants.SortOrderDesc) {
		return pkgErrors.ErrInvalidSortParams
	}
	return nil
}

// EnvironmentReport 环境报告（环境+主部署+构建+变量组的扁平聚合）
type EnvironmentReport struct {
	EnvironmentID   int        `json:"environmentId"`
	EnvironmentName string     `json:"environmentName"`
	LastModifiedBy  string     `json:"lastModifiedBy"`
	LastModifiedOn  *time.Time `json:"lastModifiedOn"`

	StageName            string     `json:"stageName"`
	DefinitionID         int        `json:"definitionId"`
	DefinitionName       string     `json:"definitionName"`
	Result               string     `json:"result"`
	DeploymentFinishTime *time.Time `json:"deploymentFinishTime"`

	BuildID           int        `json:"buildId"`
	BuildNumber       string     `json:"buildNumber"`
	BuildStatus       string     `json:"buildStatus"`
	BuildStartTime    *time.Time `json:"buildStartTime"`
	BuildFinishTime   *time.Time `json:"buildFinishTime"`
	SourceBranch      string     `json:"sourceBranch"`
	SourceVersion     string     `json:"sourceVersion"`
	TriggerMessage    string     `json:"triggerMessage"`
	TriggerRepository string     `json:"triggerRepository"`

	// Variables 变量名→值，密文变量的值恒为掩码占位符
	Variables map[string]string `json:"variables"`
	PortalURL *string           `json:"portalUrl"`

	// HistoricalDeployments 最多3条早于主部署的成功部署，自身不再嵌套历史
	HistoricalDeployments []*EnvironmentReport `json:"historicalDeployments,omitempty"`
}
