package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"env-report/internal/dto"
	"env-report/internal/pkg/logger"
	"env-report/internal/service"
	pkgErrors "env-report/pkg/errors"
	"env-report/pkg/utils"
)

// BitbucketHandler 提交记录处理器
type BitbucketHandler struct {
	bitbucketService service.BitbucketService
}

// NewBitbucketHandler 创建提交记录处理器
func NewBitbucketHandler(bitbucketService service.BitbucketService) *BitbucketHandler {
	return &BitbucketHandler{
		bitbucketService: bitbucketService,
	}
}

// Commits 查询分支提交记录
// @Summary 查询分支提交记录
// @Description 不传maxPages返回单页平铺数组；传maxPages时跟随分页链接聚合，返回带分页元信息的包裹结构
// @Tags Bitbucket
// @Accept json
// @Produce json
// @Param branchName path string true "分支名"
// @Param pageLength query int false "每页提交数，默认30，最大100"
// @Param maxPages query int false "最多翻页数"
// @Success 200 {object} utils.Response{data=dto.PagedCommitsResponse}
// @Failure 404 {object} utils.Response "分支不存在"
// @Router /api/Bitbucket/commits/{branchName} [get]
func (h *BitbucketHandler) Commits(c *gin.Context) {
	var uri dto.CommitsURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	var query dto.CommitsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	// maxPages 决定响应形态：平铺数组 或 分页包裹
	if query.MaxPages == nil {
		commits, err := h.bitbucketService.ListCommits(uri.BranchName, query.GetPageLength())
		if err != nil {
			logger.Error("查询提交记录失败", zap.String("branch", uri.BranchName), zap.Error(err))
			utils.Error(c, err)
			return
		}
		utils.Success(c, commits)
		return
	}

	resp, err := h.bitbucketService.ListCommitsPaged(uri.BranchName, query.GetPageLength(), *query.MaxPages)
	if err != nil {
		logger.Error("聚合提交记录失败", zap.String("branch", uri.BranchName), zap.Error(err))
		utils.Error(c, err)
		return
	}
	utils.Success(c, resp)
}
