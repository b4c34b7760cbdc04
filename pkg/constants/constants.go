package constants

import "time"

// 服务标识
const (
	ServiceName    = "env-report"
	ServiceVersion = "1.0.0"
)

// 部署结果（Azure DevOps environmentdeploymentrecords 的 result 字段取值）
const (
	DeploymentResultSucceeded = "succeeded"
	DeploymentResultFailed    = "failed"
	DeploymentResultCanceled  = "canceled"
)

// SecretMask 密文变量在对外响应中的固定占位符
const SecretMask = "[HIDDEN]"

// MaxHistoricalDeployments 每个环境报告最多携带的历史部署条数
const MaxHistoricalDeployments = 3

// 环境报告排序字段
const (
	SortByDeploymentFinishTime = "deploymentFinishTime"
	SortByBuildStartTime       = "buildStartTime"
)

// 流水线分支排序字段
const (
	SortByLatestBuildFinishTime = "latestBuildFinishTime"
	SortByLatestBuildStartTime  = "latestBuildStartTime"
	SortByBranchName            = "branchName"
	SortByTotalBuilds           = "totalBuilds"
)

// 排序方向
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// 缓存键
const (
	CacheKeyEnvironments   = "environments"
	CacheKeyVariableGroups = "variablegroups"

	CacheKeyPrefixDeployments      = "deployments:"      // + 环境ID
	CacheKeyPrefixBuild            = "build:"            // + 构建ID
	CacheKeyPrefixPipelineBranches = "pipelinebranches:" // + 定义ID:sortBy:sortOrder
)

// 缓存TTL（每类上游数据独立过期）
const (
	CacheTTLEnvironments     = 10 * time.Minute
	CacheTTLVariableGroups   = 15 * time.Minute
	CacheTTLDeployments      = 5 * time.Minute
	CacheTTLBuild            = 30 * time.Minute
	CacheTTLPipelineBranches = 5 * time.Minute
)

// 缓存条目的相对大小权重（仅做容量统计，不参与淘汰）
const (
	CacheWeightEnvironments     = 10
	CacheWeightVariableGroups   = 10
	CacheWeightDeployments      = 5
	CacheWeightBuild            = 1
	CacheWeightPipelineBranches = 5
)
