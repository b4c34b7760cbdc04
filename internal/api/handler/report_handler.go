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

// ReportHandler 环境报告处理器
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler 创建环境报告处理器
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// List 查询环境报告列表
// @Summary 查询环境报告列表
// @Description 聚合环境、最新部署、构建与变量组信息，支持过滤、排序与分页
// @Tags EnvironmentReport
// @Accept json
// @Produce json
// @Param environmentName query string false "环境名模糊过滤（忽略大小写）"
// @Param stageName query string false "阶段名模糊过滤（忽略大小写）"
// @Param result query string false "部署结果精确过滤（忽略大小写）"
// @Param includeVariableGroups query bool false "是否关联变量组"
// @Param pageNumber query int false "页码，默认1"
// @Param pageSize query int false "每页数量，默认40，最大100"
// @Param sortBy query string false "排序字段：deploymentFinishTime / buildStartTime"
// @Param sortOrder query string false "排序方向：asc / desc"
// @Success 200 {object} utils.Response{data=dto.PagedResponse}
// @Failure 400 {object} utils.Response "参数错误"
// @Router /api/EnvironmentReport [get]
func (h *ReportHandler) List(c *gin.Context) {
	var query dto.EnvironmentReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithDetail(c, pkgErrors.CodeBadRequest, "请求参数错误", utils.FormatValidationError(err))
		return
	}
	if err := query.Validate(); err != nil {
		utils.Error(c, err)
		return
	}

	resp, err := h.reportService.List(&query)
	if err != nil {
		logger.Error("查询环境报告失败", zap.Error(err))
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}
