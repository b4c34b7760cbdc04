package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"env-report/internal/dto"
	"env-report/internal/pkg/azdevops"
	"env-report/internal/pkg/cache"
	"env-report/pkg/constants"
	pkgErrors "env-report/pkg/errors"
)

// mockAzDevOps azdevops.API 的测试替身
type mockAzDevOps struct {
	environments []azdevops.Environment
	groups       []azdevops.VariableGroup
	deployments  map[int][]azdevops.DeploymentRecord
	builds       map[int]*azdevops.Build

	envErr        error
	deploymentErr map[int]error

	envCalls   int
	buildCalls int
}

func (m *mockAzDevOps) ListEnvironments() ([]azdevops.Environment, error) {
	m.envCalls++
	if m.envErr != nil {
		return nil, m.envErr
	}
	return m.environments, nil
}

func (m *mockAzDevOps) ListDeploymentRecords(environmentID int) ([]azdevops.DeploymentRecord, error) {
	if err := m.deploymentErr[environmentID]; err != nil {
		return nil, err
	}
	return m.deployments[environmentID], nil
}

func (m *mockAzDevOps) GetBuild(buildID int) (*azdevops.Build, error) {
	m.buildCalls++
	build, ok := m.builds[buildID]
	if !ok {
		return nil, pkgErrors.ErrBuildNotFound
	}
	return build, nil
}

func (m *mockAzDevOps) ListVariableGroups() ([]azdevops.VariableGroup, error) {
	return m.groups, nil
}

func (m *mockAzDevOps) ListDefinitionBuilds(definitionID, top int) ([]azdevops.Build, error) {
	return nil, nil
}

func timePtr(t time.Time) *time.Time { return &t }

func intPtr(v int) *int { return &v }

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func record(envID int, buildID int, result string, finish *time.Time) azdevops.DeploymentRecord {
	return azdevops.DeploymentRecord{
		ID:            int64(buildID),
		EnvironmentID: envID,
		StageName:     "Deploy",
		Definition:    azdevops.ResourceRef{ID: 1, Name: "ci"},
		Owner:         azdevops.ResourceRef{ID: buildID, Name: fmt.Sprintf("build-%d", buildID)},
		Result:        result,
		FinishTime:    finish,
	}
}

func newTestService(mock *mockAzDevOps) ReportService {
	return NewReportService(mock, cache.New(), zap.NewNop(), nil)
}

func TestList_PrimaryIsLatestFinished(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {
				record(1, 101, "succeeded", timePtr(baseTime.Add(-2*time.Hour))),
				record(1, 102, "succeeded", timePtr(baseTime)),
				record(1, 103, "succeeded", nil), // 空时间视为最早
			},
		},
		builds: map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].DeploymentFinishTime)
	assert.Equal(t, baseTime, *reports[0].DeploymentFinishTime)
}

func TestList_Filters(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{
			{ID: 1, Name: "Prod-UAT"},
			{ID: 2, Name: "Staging"},
		},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {
				record(1, 101, "succeeded", timePtr(baseTime)),
				record(1, 102, "failed", timePtr(baseTime.Add(time.Hour))),
			},
			2: {record(2, 201, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{
		EnvironmentName: "uat",
		Result:          "Succeeded",
	})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)
	assert.Equal(t, "Prod-UAT", reports[0].EnvironmentName)
	// 结果过滤忽略大小写，failed记录不作为主部署
	assert.Equal(t, "succeeded", reports[0].Result)
}

func TestList_NoMatchingDeployments_EnvironmentOmitted(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 101, "failed", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{Result: "succeeded"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalCount)
}

func TestList_HistoricalDeployments(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {
				record(1, 100, "failed", timePtr(baseTime)), // 主部署（按failed过滤）
				record(1, 101, "succeeded", timePtr(baseTime.Add(-1*time.Hour))),
				record(1, 102, "succeeded", timePtr(baseTime.Add(-2*time.Hour))),
				record(1, 103, "succeeded", timePtr(baseTime.Add(-3*time.Hour))),
				record(1, 104, "succeeded", timePtr(baseTime.Add(-4*time.Hour))), // 超出3条上限
				record(1, 105, "failed", timePtr(baseTime.Add(-30*time.Minute))), // 非succeeded不进历史
			},
		},
		builds: map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{Result: "failed"})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)

	history := reports[0].HistoricalDeployments
	require.Len(t, history, 3)
	for i, h := range history {
		assert.Equal(t, "succeeded", h.Result)
		assert.True(t, h.DeploymentFinishTime.Before(baseTime), "历史部署必须严格早于主部署")
		assert.Nil(t, h.HistoricalDeployments, "历史部署不再嵌套历史")
		if i > 0 {
			assert.True(t, !history[i-1].DeploymentFinishTime.Before(*h.DeploymentFinishTime), "历史部署按完成时间倒序")
		}
	}
}

func TestList_BuildNotFoundTolerated(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 999, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{}, // 999不存在 → 404
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].BuildID)
	assert.Empty(t, reports[0].BuildNumber)
	assert.Equal(t, "succeeded", reports[0].Result, "构建缺失不影响报告其他字段")
}

func TestList_SecretRedaction(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		groups: []azdevops.VariableGroup{
			{
				ID:   1,
				Name: "prod", // 名称匹配忽略大小写
				Variables: map[string]azdevops.Variable{
					"ConnectionString": {Value: "Server=db;Password=hunter2", IsSecret: true},
					"LogLevel":         {Value: "info"},
				},
			},
		},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 101, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{IncludeVariableGroups: true})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)
	assert.Equal(t, constants.SecretMask, reports[0].Variables["ConnectionString"])
	assert.Equal(t, "info", reports[0].Variables["LogLevel"])
}

func TestList_VariableGroupsNotRequested_EmptyVariables(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		groups: []azdevops.VariableGroup{
			{ID: 1, Name: "Prod", Variables: map[string]azdevops.Variable{"A": {Value: "1"}}},
		},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 101, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{IncludeVariableGroups: false})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Variables)
	assert.Nil(t, reports[0].PortalURL)
}

func TestList_Sorting(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{
			{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"},
		},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 101, "succeeded", timePtr(baseTime.Add(time.Hour)))},
			2: {record(2, 201, "succeeded", nil)}, // 空时间排最前（asc）
			3: {record(3, 301, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{},
	}

	svc := newTestService(mock)

	resp, err := svc.List(&dto.EnvironmentReportQuery{
		SortBy:    constants.SortByDeploymentFinishTime,
		SortOrder: "ASC",
	})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 3)
	assert.Nil(t, reports[0].DeploymentFinishTime)
	assert.Equal(t, baseTime, *reports[1].DeploymentFinishTime)
	assert.Equal(t, baseTime.Add(time.Hour), *reports[2].DeploymentFinishTime)

	// 默认倒序
	resp, err = svc.List(&dto.EnvironmentReportQuery{})
	require.NoError(t, err)
	reports = resp.Data.([]*dto.EnvironmentReport)
	assert.Equal(t, baseTime.Add(time.Hour), *reports[0].DeploymentFinishTime)
	assert.Nil(t, reports[2].DeploymentFinishTime)
}

func TestList_Pagination(t *testing.T) {
	environments := make([]azdevops.Environment, 0, 7)
	deployments := make(map[int][]azdevops.DeploymentRecord, 7)
	for i := 1; i <= 7; i++ {
		environments = append(environments, azdevops.Environment{ID: i, Name: fmt.Sprintf("env-%d", i)})
		deployments[i] = []azdevops.DeploymentRecord{
			record(i, 100+i, "succeeded", timePtr(baseTime.Add(time.Duration(i)*time.Minute))),
		}
	}
	mock := &mockAzDevOps{
		environments: environments,
		deployments:  deployments,
		builds:       map[int]*azdevops.Build{},
	}
	svc := newTestService(mock)

	// 逐页拼接应还原完整排序列表，无重复无遗漏
	var seen []string
	for page := 1; page <= 3; page++ {
		resp, err := svc.List(&dto.EnvironmentReportQuery{PageNumber: intPtr(page), PageSize: intPtr(3)})
		require.NoError(t, err)

		assert.Equal(t, 7, resp.TotalCount)
		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, page > 1, resp.HasPreviousPage)
		assert.Equal(t, page < 3, resp.HasNextPage)

		for _, r := range resp.Data.([]*dto.EnvironmentReport) {
			seen = append(seen, r.EnvironmentName)
		}
	}
	assert.Len(t, seen, 7)
	assert.Len(t, uniqueStrings(seen), 7)

	// 越界页: 空数据但元数据准确
	resp, err := svc.List(&dto.EnvironmentReportQuery{PageNumber: intPtr(9), PageSize: intPtr(3)})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, 7, resp.TotalCount)
	assert.False(t, resp.HasNextPage)
	assert.True(t, resp.HasPreviousPage)
}

func uniqueStrings(items []string) []string {
	set := map[string]struct{}{}
	var result []string
	for _, item := range items {
		if _, ok := set[item]; !ok {
			set[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}

func TestList_TopLevelFetchFailureIsFatal(t *testing.T) {
	mock := &mockAzDevOps{envErr: errors.New("azure devops unavailable")}

	_, err := newTestService(mock).List(&dto.EnvironmentReportQuery{})
	assert.Error(t, err)
}

func TestList_SingleEnvironmentFailureSkipsOnlyThatEnvironment(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{
			{ID: 1, Name: "Broken"},
			{ID: 2, Name: "Healthy"},
		},
		deployments: map[int][]azdevops.DeploymentRecord{
			2: {record(2, 201, "succeeded", timePtr(baseTime))},
		},
		deploymentErr: map[int]error{1: errors.New("boom")},
		builds:        map[int]*azdevops.Build{},
	}

	resp, err := newTestService(mock).List(&dto.EnvironmentReportQuery{})
	require.NoError(t, err)

	reports := resp.Data.([]*dto.EnvironmentReport)
	require.Len(t, reports, 1)
	assert.Equal(t, "Healthy", reports[0].EnvironmentName)
}

func TestList_CachesUpstreamFetches(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 101, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{
			101: {ID: 101, BuildNumber: "20240601.1", Status: "completed"},
		},
	}
	svc := newTestService(mock)

	_, err := svc.List(&dto.EnvironmentReportQuery{})
	require.NoError(t, err)
	_, err = svc.List(&dto.EnvironmentReportQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.envCalls, "TTL内的重复查询不应重复拉取环境列表")
	assert.Equal(t, 1, mock.buildCalls, "构建按ID缓存")
}

func TestWarm_PopulatesCache(t *testing.T) {
	mock := &mockAzDevOps{
		environments: []azdevops.Environment{{ID: 1, Name: "Prod"}},
		deployments: map[int][]azdevops.DeploymentRecord{
			1: {record(1, 101, "succeeded", timePtr(baseTime))},
		},
		builds: map[int]*azdevops.Build{},
	}
	svc := newTestService(mock)

	require.NoError(t, svc.Warm())

	_, err := svc.List(&dto.EnvironmentReportQuery{IncludeVariableGroups: true})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.envCalls, "预热后的查询应命中缓存")
}
