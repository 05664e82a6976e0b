package http

// 业务错误码，前三位与 HTTP 状态码一致
const (
	CodeSuccess        = 0
	CodeInvalidRequest = 40001 // 请求体或查询参数无法解析
	CodeValidation     = 40002 // 参数合法但不满足业务规则
	CodeNotFound       = 40401
	CodeInternal       = 50001
	CodeUnavailable    = 50301 // 可选依赖未配置或不可用
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}

// SuccessResponse 成功响应（所有API共用）
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应，detail 只取第一个非空值
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination 列表查询的分页参数
type Pagination struct {
	Page     int `form:"page"`      // 页码（默认1）
	PageSize int `form:"page_size"` // 每页数量（默认20，最大100）
}

// Normalize 补齐默认值并限制每页数量
func (p *Pagination) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Limit 仓库查询的 limit
func (p Pagination) Limit() int {
	return p.PageSize
}

// Offset 仓库查询的 offset
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
