package errors

import "fmt"

// 错误码（与HTTP状态码对齐）
const (
	CodeSuccess       = 200
	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeInternalError = 500
	CodeUpstreamError = 502
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 返回错误对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	if e.Code >= 400 && e.Code < 600 {
		return e.Code
	}
	return 500
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 预定义错误
var (
	ErrBadRequest    = New(CodeBadRequest, "请求参数错误")
	ErrUnauthorized  = New(CodeUnauthorized, "未授权")
	ErrForbidden     = New(CodeForbidden, "禁止访问")
	ErrNotFound      = New(CodeNotFound, "资源不存在")
	ErrInternalError = New(CodeInternalError, "内部服务器错误")
	ErrUpstreamError = New(CodeUpstreamError, "上游服务请求失败")

	// 具体业务错误
	ErrInvalidParams      = New(CodeBadRequest, "请求参数错误")
	ErrInvalidSortParams  = New(CodeBadRequest, "排序参数不合法")
	ErrUpstreamAuthFailed = New(CodeUnauthorized, "上游服务认证失败")
	ErrBuildNotFound      = New(CodeNotFound, "构建记录不存在")
	ErrBranchNotFound     = New(CodeNotFound, "分支或仓库不存在")
)
