package bitbucket

import "time"

// CommitAuthor 提交作者
type CommitAuthor struct {
	Raw  string `json:"raw"`
	User struct {
		DisplayName string `json:"display_name"`
		Nickname    string `json:"nickname"`
	} `json:"user"`
}

// Commit 提交记录
type Commit struct {
	Hash    string       `json:"hash"`
	Message string       `json:"message"`
	Date    *time.Time   `json:"date"`
	Author  CommitAuthor `json:"author"`
	Links   struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"links"`
}

// CommitsPage Bitbucket v2 分页响应
type CommitsPage struct {
	PageLen int      `json:"pagelen"`
	Values  []Commit `json:"values"`
	Next    string   `json:"next"` // 下一页完整URL，最后一页为空
}
