package handler

import (
	"github.com/gin-gonic/gin"

	"env-report/internal/dto"
	"env-report/internal/service"
	pkgErrors "env-report/pkg/errors"
	"env-report/pkg/utils"
)

// PipelineHandler 流水线处理器
type PipelineHandler struct {
	pipelineService service.PipelineService
}

// NewPipelineHandler 创建流水线处理器
func NewPipelineHandler(pipelineService service.PipelineService) *PipelineHandler {
	return &PipelineHandler{
		pipelineService: pipelineService,
	}
}

// Branches 查询流水线分支构建概览
// @Summary 查询流水线分支构建概览
// @Description 按源分支聚合指定流水线定义的最近构建，上游不可用时返回空列表
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param definitionId path int true "流水线定义ID"
// @Param top query int false "拉取的构建数上限，默认300"
// @Param sortBy query string false "排序字段：latestBuildFinishTime / latestBuildStartTime / branchName / totalBuilds"
// @Param sortOrder query string false "排序方向：asc / desc"
// @Success 200 {object} utils.Response{data=[]dto.PipelineBranchInfo}
// @Failure 400 {object} utils.Response "参数错误"
// @Router /api/Pipeline/{definitionId}/branches [get]
func (h *PipelineHandler) Branches(c *gin.Context) {
	var uri dto.PipelineBranchURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}

	var query dto.PipelineBranchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	if err := query.Validate(); err != nil {
		utils.Error(c, err)
		return
	}

	branches := h.pipelineService.BranchesFor(uri.DefinitionID, query.GetTop(), query.SortBy, query.SortOrder)
	utils.Success(c, branches)
}
