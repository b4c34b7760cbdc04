package service

import (
	"go.uber.org/zap"

	"env-report/internal/dto"
	"env-report/internal/pkg/bitbucket"
)

// BitbucketService 提交记录查询服务
type BitbucketService interface {
	// ListCommits 获取指定分支的一页提交，平铺数组
	ListCommits(branch string, pageLength int) ([]dto.CommitInfo, error)

	// ListCommitsPaged 跟随next链接聚合最多maxPages页提交
	ListCommitsPaged(branch string, pageLength, maxPages int) (*dto.PagedCommitsResponse, error)
}

type bitbucketService struct {
	client bitbucket.API
	logger *zap.Logger
}

// NewBitbucketService 创建提交记录查询服务
func NewBitbucketService(client bitbucket.API, logger *zap.Logger) BitbucketService {
	return &bitbucketService{
		client: client,
		logger: logger,
	}
}

func (s *bitbucketService) ListCommits(branch string, pageLength int) ([]dto.CommitInfo, error) {
	page, err := s.client.ListCommits(branch, pageLength)
	if err != nil {
		return nil, err
	}
	return toCommitInfos(page.Values), nil
}

func (s *bitbucketService) ListCommitsPaged(branch string, pageLength, maxPages int) (*dto.PagedCommitsResponse, error) {
	var commits []dto.CommitInfo

	page, err := s.client.ListCommits(branch, pageLength)
	if err != nil {
		return nil, err
	}
	commits = append(commits, toCommitInfos(page.Values)...)

	pagesFetched := 1
	for page.Next != "" && pagesFetched < maxPages {
		page, err = s.client.GetCommitsPage(page.Next)
		if err != nil {
			return nil, err
		}
		commits = append(commits, toCommitInfos(page.Values)...)
		pagesFetched++
	}

	return &dto.PagedCommitsResponse{
		Commits:        commits,
		TotalCommits:   len(commits),
		PagesFetched:   pagesFetched,
		CommitsPerPage: pageLength,
		HasMorePages:   page.Next != "",
		NextPageURL:    page.Next,
	}, nil
}

// toCommitInfos 转换上游提交为响应DTO
func toCommitInfos(commits []bitbucket.Commit) []dto.CommitInfo {
	infos := make([]dto.CommitInfo, len(commits))
	for i, c := range commits {
		author := c.Author.User.DisplayName
		if author == "" {
			author = c.Author.Raw
		}
		infos[i] = dto.CommitInfo{
			Hash:    c.Hash,
			Message: c.Message,
			Date:    c.Date,
			Author:  author,
			Link:    c.Links.HTML.Href,
		}
	}
	return infos
}
