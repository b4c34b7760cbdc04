package handler

import (
	"github.com/gin-gonic/gin"

	"env-report/internal/pkg/cache"
	"env-report/internal/pkg/logger"
	"env-report/pkg/utils"
)

// CacheHandler 缓存管理处理器
type CacheHandler struct {
	cache *cache.Cache
}

// NewCacheHandler 创建缓存管理处理器
func NewCacheHandler(c *cache.Cache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// Clear 清空缓存
// @Summary 清空缓存
// @Description 丢弃全部缓存条目，后续请求将重新拉取上游数据
// @Tags Cache
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/cache/clear [post]
func (h *CacheHandler) Clear(c *gin.Context) {
	h.cache.Clear()
	logger.Info("缓存已清空")
	utils.SuccessWithMessage(c, "缓存已清空", nil)
}

// Stats 查询缓存状态
// @Summary 查询缓存状态
// @Tags Cache
// @Produce json
// @Success 200 {object} utils.Response{data=cache.Stats}
// @Router /api/cache/stats [get]
func (h *CacheHandler) Stats(c *gin.Context) {
	utils.Success(c, h.cache.GetStats())
}
