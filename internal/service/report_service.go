package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"env-report/internal/dto"
	"env-report/internal/pkg/azdevops"
	"env-report/internal/pkg/cache"
	"env-report/internal/pkg/config"
	"env-report/pkg/constants"
	"env-report/pkg/utils"
)

// ReportService 环境报告聚合服务
type ReportService interface {
	// List 构建环境报告并按查询参数过滤、排序、分页
	List(query *dto.EnvironmentReportQuery) (*dto.PagedResponse, error)

	// Warm 预热上游缓存（定时任务调用）
	Warm() error
}

type reportService struct {
	azdo   azdevops.API
	cache  *cache.Cache
	logger *zap.Logger
	ttls   reportTTLs
}

type reportTTLs struct {
	environments   time.Duration
	variableGroups time.Duration
	deployments    time.Duration
	build          time.Duration
}

// NewReportService 创建环境报告服务
func NewReportService(azdo azdevops.API, c *cache.Cache, logger *zap.Logger, cacheCfg *config.CacheConfig) ReportService {
	ttls := reportTTLs{
		environments:   constants.CacheTTLEnvironments,
		variableGroups: constants.CacheTTLVariableGroups,
		deployments:    constants.CacheTTLDeployments,
		build:          constants.CacheTTLBuild,
	}
	if cacheCfg != nil {
		if cacheCfg.EnvironmentsTTL > 0 {
			ttls.environments = time.Duration(cacheCfg.EnvironmentsTTL) * time.Second
		}
		if cacheCfg.VariableGroupsTTL > 0 {
			ttls.variableGroups = time.Duration(cacheCfg.VariableGroupsTTL) * time.Second
		}
		if cacheCfg.DeploymentsTTL > 0 {
			ttls.deployments = time.Duration(cacheCfg.DeploymentsTTL) * time.Second
		}
		if cacheCfg.BuildTTL > 0 {
			ttls.build = time.Duration(cacheCfg.BuildTTL) * time.Second
		}
	}

	return &reportService{
		azdo:   azdo,
		cache:  c,
		logger: logger,
		ttls:   ttls,
	}
}

func (s *reportService) List(query *dto.EnvironmentReportQuery) (*dto.PagedResponse, error) {
	reports, err := s.buildReports(query)
	if err != nil {
		return nil, err
	}

	sortReports(reports, query.SortBy, query.SortOrder)

	// 分页切片，越界页返回空数组但元数据仍准确
	pageNumber := query.GetPageNumber()
	pageSize := query.GetPageSize()
	total := len(reports)

	start := (pageNumber - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return dto.NewPagedResponse(reports[start:end], total, pageNumber, pageSize), nil
}

func (s *reportService) Warm() error {
	_, err := s.List(&dto.EnvironmentReportQuery{IncludeVariableGroups: true})
	return err
}

// buildReports 聚合环境、部署记录、构建和变量组为报告列表。
// 环境和变量组并发拉取；顶层集合拉取失败直接返回错误，
// 单个环境/部署的处理失败只降级该条数据，不影响整批。
func (s *reportService) buildReports(query *dto.EnvironmentReportQuery) ([]*dto.EnvironmentReport, error) {
	var (
		environments []azdevops.Environment
		groups       []azdevops.VariableGroup
		envErr       error
		groupErr     error
		wg           sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		environments, envErr = s.fetchEnvironments()
	}()

	if query.IncludeVariableGroups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			groups, groupErr = s.fetchVariableGroups()
		}()
	}
	wg.Wait()

	if envErr != nil {
		return nil, envErr
	}
	if groupErr != nil {
		return nil, groupErr
	}

	if query.EnvironmentName != "" {
		nameFilter := strings.ToLower(query.EnvironmentName)
		environments = lo.Filter(environments, func(env azdevops.Environment, _ int) bool {
			return strings.Contains(strings.ToLower(env.Name), nameFilter)
		})
	}

	reports := make([]*dto.EnvironmentReport, 0, len(environments))
	for _, env := range environments {
		report := s.buildEnvironmentReport(env, groups, query)
		if report != nil {
			reports = append(reports, report)
		}
	}

	return reports, nil
}

// buildEnvironmentReport 组装单个环境的报告，无符合条件的部署时返回nil
func (s *reportService) buildEnvironmentReport(env azdevops.Environment, groups []azdevops.VariableGroup, query *dto.EnvironmentReportQuery) *dto.EnvironmentReport {
	// 变量组按名称忽略大小写精确匹配，取第一个
	group, hasGroup := lo.Find(groups, func(g azdevops.VariableGroup) bool {
		return strings.EqualFold(g.Name, env.Name)
	})

	records, err := s.fetchDeployments(env.ID)
	if err != nil {
		// 单环境的部署记录拉取失败只跳过该环境
		s.logger.Warn("获取环境部署记录失败，跳过该环境",
			zap.Int("environment_id", env.ID),
			zap.String("environment", env.Name),
			zap.Error(err))
		return nil
	}

	if query.StageName != "" {
		stageFilter := strings.ToLower(query.StageName)
		records = lo.Filter(records, func(r azdevops.DeploymentRecord, _ int) bool {
			return strings.Contains(strings.ToLower(r.StageName), stageFilter)
		})
	}

	// 结果过滤只作用于主部署的选取，历史部署从未按结果过滤的记录集中选
	candidates := records
	if query.Result != "" {
		candidates = lo.Filter(records, func(r azdevops.DeploymentRecord, _ int) bool {
			return strings.EqualFold(r.Result, query.Result)
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	primary := candidates[0]
	for _, r := range candidates[1:] {
		if utils.NullableTimeAfter(r.FinishTime, primary.FinishTime) {
			primary = r
		}
	}

	var groupPtr *azdevops.VariableGroup
	if hasGroup {
		groupPtr = &group
	}

	report := s.assembleReport(env, primary, groupPtr, query.IncludeVariableGroups)
	report.HistoricalDeployments = s.buildHistory(env, records, primary, groupPtr, query.IncludeVariableGroups)

	return report
}

// buildHistory 选取最多3条严格早于主部署的成功部署，按完成时间倒序
func (s *reportService) buildHistory(env azdevops.Environment, records []azdevops.DeploymentRecord, primary azdevops.DeploymentRecord, group *azdevops.VariableGroup, includeVariables bool) []*dto.EnvironmentReport {
	succeeded := lo.Filter(records, func(r azdevops.DeploymentRecord, _ int) bool {
		return strings.EqualFold(r.Result, constants.DeploymentResultSucceeded) &&
			utils.NullableTimeBefore(r.FinishTime, primary.FinishTime)
	})

	sort.SliceStable(succeeded, func(i, j int) bool {
		return utils.CompareNullableTime(succeeded[i].FinishTime, succeeded[j].FinishTime) > 0
	})

	if len(succeeded) > constants.MaxHistoricalDeployments {
		succeeded = succeeded[:constants.MaxHistoricalDeployments]
	}

	history := make([]*dto.EnvironmentReport, 0, len(succeeded))
	for _, r := range succeeded {
		// 历史报告复用同一套组装逻辑，但不再嵌套自己的历史
		history = append(history, s.assembleReport(env, r, group, includeVariables))
	}
	return history
}

// assembleReport 组装单条报告。构建解析失败降级为空构建字段，不中断处理。
func (s *reportService) assembleReport(env azdevops.Environment, record azdevops.DeploymentRecord, group *azdevops.VariableGroup, includeVariables bool) *dto.EnvironmentReport {
	report := &dto.EnvironmentReport{
		EnvironmentID:   env.ID,
		EnvironmentName: env.Name,
		LastModifiedBy:  env.LastModifiedBy.DisplayName,
		LastModifiedOn:  env.LastModifiedOn,

		StageName:            record.StageName,
		DefinitionID:         record.Definition.ID,
		DefinitionName:       record.Definition.Name,
		Result:               record.Result,
		DeploymentFinishTime: record.FinishTime,

		Variables: map[string]string{},
	}

	build, err := s.fetchBuild(record.Owner.ID)
	if err != nil {
		s.logger.Warn("解析部署关联的构建失败，报告降级为空构建字段",
			zap.Int("environment_id", env.ID),
			zap.Int("build_id", record.Owner.ID),
			zap.Error(err))
	} else {
		report.BuildID = build.ID
		report.BuildNumber = build.BuildNumber
		report.BuildStatus = build.Status
		report.BuildStartTime = build.StartTime
		report.BuildFinishTime = build.FinishTime
		report.SourceBranch = build.SourceBranch
		report.SourceVersion = build.SourceVersion
		report.TriggerMessage = build.TriggerMessage()
		report.TriggerRepository = build.TriggerRepository()
	}

	if includeVariables && group != nil {
		for name, v := range group.Variables {
			report.Variables[name] = utils.Condexpr(v.IsSecret, constants.SecretMask, v.Value)
		}
		report.PortalURL = derivePortalURL(env.Name, group.Variables)
	}

	return report
}

func (s *reportService) fetchEnvironments() ([]azdevops.Environment, error) {
	return cache.GetOrCreateTyped(s.cache, constants.CacheKeyEnvironments, s.ttls.environments, constants.CacheWeightEnvironments,
		s.azdo.ListEnvironments)
}

func (s *reportService) fetchVariableGroups() ([]azdevops.VariableGroup, error) {
	return cache.GetOrCreateTyped(s.cache, constants.CacheKeyVariableGroups, s.ttls.variableGroups, constants.CacheWeightVariableGroups,
		s.azdo.ListVariableGroups)
}

func (s *reportService) fetchDeployments(environmentID int) ([]azdevops.DeploymentRecord, error) {
	key := fmt.Sprintf("%s%d", constants.CacheKeyPrefixDeployments, environmentID)
	return cache.GetOrCreateTyped(s.cache, key, s.ttls.deployments, constants.CacheWeightDeployments, func() ([]azdevops.DeploymentRecord, error) {
		return s.azdo.ListDeploymentRecords(environmentID)
	})
}

func (s *reportService) fetchBuild(buildID int) (*azdevops.Build, error) {
	key := fmt.Sprintf("%s%d", constants.CacheKeyPrefixBuild, buildID)
	return cache.GetOrCreateTyped(s.cache, key, s.ttls.build, constants.CacheWeightBuild, func() (*azdevops.Build, error) {
		return s.azdo.GetBuild(buildID)
	})
}

// sortReports 按排序参数原地排序。未识别的sortBy回落到部署完成时间倒序。
func sortReports(reports []*dto.EnvironmentReport, sortBy, sortOrder string) {
	keyOf := func(r *dto.EnvironmentReport) *time.Time {
		if sortBy == constants.SortByBuildStartTime {
			return r.BuildStartTime
		}
		return r.DeploymentFinishTime
	}

	ascending := strings.EqualFold(sortOrder, constants.SortOrderAsc)
	if sortBy != constants.SortByBuildStartTime && sortBy != constants.SortByDeploymentFinishTime {
		// 未识别的排序字段，回落默认排序
		ascending = false
	}

	sort.SliceStable(reports, func(i, j int) bool {
		cmp := utils.CompareNullableTime(keyOf(reports[i]), keyOf(reports[j]))
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
}
