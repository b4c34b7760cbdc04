package service

import (
	"fmt"
	"sort"
	"strings"
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

// PipelineService 流水线分支聚合服务
type PipelineService interface {
	// BranchesFor 按源分支聚合指定流水线定义最近完成的构建。
	// 上游拉取失败时记录日志并返回空列表（尽力而为语义，与报告聚合的顶层失败即报错不同）。
	BranchesFor(definitionID, top int, sortBy, sortOrder string) []dto.PipelineBranchInfo
}

type pipelineService struct {
	azdo   azdevops.API
	cache  *cache.Cache
	logger *zap.Logger
	ttl    time.Duration
}

// NewPipelineService 创建流水线分支聚合服务
func NewPipelineService(azdo azdevops.API, c *cache.Cache, logger *zap.Logger, cacheCfg *config.CacheConfig) PipelineService {
	ttl := constants.CacheTTLPipelineBranches
	if cacheCfg != nil && cacheCfg.PipelineTTL > 0 {
		ttl = time.Duration(cacheCfg.PipelineTTL) * time.Second
	}

	return &pipelineService{
		azdo:   azdo,
		cache:  c,
		logger: logger,
		ttl:    ttl,
	}
}

func (s *pipelineService) BranchesFor(definitionID, top int, sortBy, sortOrder string) []dto.PipelineBranchInfo {
	// 按 定义ID+排序参数 缓存聚合结果
	key := fmt.Sprintf("%s%d:%s:%s", constants.CacheKeyPrefixPipelineBranches, definitionID, sortBy, strings.ToLower(sortOrder))

	branches, err := cache.GetOrCreateTyped(s.cache, key, s.ttl, constants.CacheWeightPipelineBranches, func() ([]dto.PipelineBranchInfo, error) {
		builds, err := s.azdo.ListDefinitionBuilds(definitionID, top)
		if err != nil {
			return nil, err
		}
		return groupBuildsByBranch(builds, sortBy, sortOrder), nil
	})
	if err != nil {
		s.logger.Warn("获取流水线构建失败，返回空分支列表",
			zap.Int("definition_id", definitionID),
			zap.Error(err))
		return []dto.PipelineBranchInfo{}
	}

	return branches
}

// groupBuildsByBranch 按源分支分组，每组取完成时间最大的构建作为最新构建
func groupBuildsByBranch(builds []azdevops.Build, sortBy, sortOrder string) []dto.PipelineBranchInfo {
	grouped := lo.GroupBy(builds, func(b azdevops.Build) string {
		return b.SourceBranch
	})

	branches := make([]dto.PipelineBranchInfo, 0, len(grouped))
	for branch, group := range grouped {
		latest := group[0]
		for _, b := range group[1:] {
			if utils.NullableTimeAfter(b.FinishTime, latest.FinishTime) {
				latest = b
			}
		}

		branches = append(branches, dto.PipelineBranchInfo{
			BranchName:            branch,
			LatestBuildID:         latest.ID,
			LatestBuildNumber:     latest.BuildNumber,
			LatestBuildStatus:     latest.Status,
			LatestBuildResult:     latest.Result,
			LatestBuildStartTime:  latest.StartTime,
			LatestBuildFinishTime: latest.FinishTime,
			TotalBuilds:           len(group),
		})
	}

	sortBranches(branches, sortBy, sortOrder)
	return branches
}

// sortBranches 按排序参数原地排序。未识别的sortBy回落到最新构建完成时间倒序。
func sortBranches(branches []dto.PipelineBranchInfo, sortBy, sortOrder string) {
	compare := func(a, b *dto.PipelineBranchInfo) int {
		switch sortBy {
		case constants.SortByLatestBuildStartTime:
			return utils.CompareNullableTime(a.LatestBuildStartTime, b.LatestBuildStartTime)
		case constants.SortByBranchName:
			// 分支名按字节序比较
			return strings.Compare(a.BranchName, b.BranchName)
		case constants.SortByTotalBuilds:
			return a.TotalBuilds - b.TotalBuilds
		default:
			return utils.CompareNullableTime(a.LatestBuildFinishTime, b.LatestBuildFinishTime)
		}
	}

	ascending := strings.EqualFold(sortOrder, constants.SortOrderAsc)
	switch sortBy {
	case constants.SortByLatestBuildStartTime, constants.SortByBranchName,
		constants.SortByTotalBuilds, constants.SortByLatestBuildFinishTime:
	default:
		// 未识别的排序字段，回落默认排序
		ascending = false
	}

	sort.SliceStable(branches, func(i, j int) bool {
		cmp := compare(&branches[i], &branches[j])
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
}
