package azdevops

import "time"

// IdentityRef 人员引用
type IdentityRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

// Environment Azure DevOps 环境
type Environment struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	LastModifiedBy IdentityRef `json:"lastModifiedBy"`
	LastModifiedOn *time.Time  `json:"lastModifiedOn"`
}

// ResourceRef 带名称的资源引用
type ResourceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DeploymentRecord 环境部署记录。Owner.ID 同时是关联构建的ID。
type DeploymentRecord struct {
	ID            int64       `json:"id"`
	EnvironmentID int         `json:"environmentId"`
	StageName     string      `json:"stageName"`
	Definition    ResourceRef `json:"definition"`
	Owner         ResourceRef `json:"owner"`
	Result        string      `json:"result"`
	StartTime     *time.Time  `json:"startTime"`
	FinishTime    *time.Time  `json:"finishTime"`
}

// Build 构建记录
type Build struct {
	ID            int               `json:"id"`
	BuildNumber   string            `json:"buildNumber"`
	Status        string            `json:"status"`
	Result        string            `json:"result"`
	StartTime     *time.Time        `json:"startTime"`
	FinishTime    *time.Time        `json:"finishTime"`
	SourceBranch  string            `json:"sourceBranch"`
	SourceVersion string            `json:"sourceVersion"`
	Definition    ResourceRef       `json:"definition"`
	TriggerInfo   map[string]string `json:"triggerInfo"`
}

// TriggerMessage 触发提交的说明信息
func (b *Build) TriggerMessage() string {
	return b.TriggerInfo["ci.message"]
}

// TriggerRepository 触发构建的仓库
func (b *Build) TriggerRepository() string {
	return b.TriggerInfo["ci.triggerRepository"]
}

// Variable 变量组中的单个变量
type Variable struct {
	Value    string `json:"value"`
	IsSecret bool   `json:"isSecret"`
}

// VariableGroup 变量组
type VariableGroup struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Variables map[string]Variable `json:"variables"`
}

// collection Azure DevOps REST 的列表响应包装
type collection[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}
