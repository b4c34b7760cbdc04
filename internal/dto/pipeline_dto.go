package dto

import (
	"strings"
	"time"

	"env-report/pkg/constants"
	pkgErrors "env-report/pkg/errors"
)

// PipelineBranchURI 流水线分支聚合的路径参数
type PipelineBranchURI struct {
	DefinitionID int `uri:"definitionId" binding:"required,gt=0"` // 流水线定义ID
}

// PipelineBranchQuery 流水线分支聚合查询参数
type PipelineBranchQuery struct {
	Top       *int   `form:"top" binding:"omitempty,gt=0"` // 最多取多少条最近完成的构建，默认300；显式传0或负数拒绝
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"` // asc / desc（忽略大小写）
}

// GetTop 获取构建拉取上限
func (q *PipelineBranchQuery) GetTop() int {
	if q.Top == nil || *q.Top < 1 {
		return 300
	}
	return *q.Top
}

// Validate 校验排序参数
func (q *PipelineBranchQuery) Validate() error {
	switch q.SortBy {
	case "", constants.SortByLatestBuildFinishTime, constants.SortByLatestBuildStartTime,
		constants.SortByBranchName, constants.SortByTotalBuilds:
	default:
		return pkgErrors.ErrInvalidSortParams
	}
	if q.SortOrder != "" &&
		!strings.EqualFold(q.SortOrder, constants.SortOrderAsc) &&
		!strings.EqualFold(q.SortOrder, constants.SortOrderDesc) {
		return pkgErrors.ErrInvalidSortParams
	}
	return nil
}

// PipelineBranchInfo 流水线某分支的最新构建信息
type PipelineBranchInfo struct {
	BranchName            string     `json:"branchName"`
	LatestBuildID         int        `json:"latestBuildId"`
	LatestBuildNumber     string     `json:"latestBuildNumber"`
	LatestBuildStatus     string     `json:"latestBuildStatus"`
	LatestBuildResult     string     `json:"latestBuildResult"`
	LatestBuildStartTime  *time.Time `json:"latestBuildStartTime"`
	LatestBuildFinishTime *time.Time `json:"latestBuildFinishTime"`
	TotalBuilds           int        `json:"totalBuilds"`
}
