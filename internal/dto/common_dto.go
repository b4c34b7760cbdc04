package dto

// PagedResponse 分页响应信封
type PagedResponse struct {
	Data            interface{} `json:"data"`
	TotalCount      int         `json:"totalCount"`
	PageNumber      int         `json:"pageNumber"`
	PageSize        int         `json:"pageSize"`
	TotalPages      int         `json:"totalPages"`
	HasNextPage     bool        `json:"hasNextPage"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
}

// NewPagedResponse 创建分页响应，分页元数据由总数和页参数推导
func NewPagedResponse(data interface{}, totalCount, pageNumber, pageSize int) *PagedResponse {
	totalPages := (totalCount + pageSize - 1) / pageSize

	return &PagedResponse{
		Data:            data,
		TotalCount:      totalCount,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
}
