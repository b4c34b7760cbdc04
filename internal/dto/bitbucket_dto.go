package dto

import "time"

// CommitsURI 提交查询的路径参数
type CommitsURI struct {
	BranchName string `uri:"branchName" binding:"required"`
}

// CommitsQuery 提交查询参数
type CommitsQuery struct {
	PageLength int  `form:"pageLength" binding:"omitempty,min=1,max=100"` // 每页提交数，默认30
	MaxPages   *int `form:"maxPages" binding:"omitempty,min=1"`           // 最多翻页数；不传返回平铺数组
}

// GetPageLength 获取每页提交数
func (q *CommitsQuery) GetPageLength() int {
	if q.PageLength < 1 {
		return 30
	}
	return q.PageLength
}

// CommitInfo 提交信息
type CommitInfo struct {
	Hash    string     `json:"hash"`
	Message string     `json:"message"`
	Date    *time.Time `json:"date"`
	Author  string     `json:"author"`
	Link    string     `json:"link"`
}

// PagedCommitsResponse 跨页聚合的提交响应
type PagedCommitsResponse struct {
	Commits        []CommitInfo `json:"commits"`
	TotalCommits   int          `json:"totalCommits"`
	PagesFetched   int          `json:"pagesFetched"`
	CommitsPerPage int          `json:"commitsPerPage"`
	HasMorePages   bool         `json:"hasMorePages"`
	NextPageURL    string       `json:"nextPageUrl"`
}
