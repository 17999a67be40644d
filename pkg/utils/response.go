package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse 错误响应结构（与前端约定的 {"detail": ...} 格式）
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError 描述单个字段的校验失败
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// WriteJSONResponse 写入JSON响应；成功响应直接返回数据本身
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// header 已写出，只能记录
		fmt.Printf("❌ Failed to encode response: %v\n", err)
	}
}

// WriteSuccessResponse 写入成功响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusOK, data)
}

// WriteErrorResponse 写入错误响应
func WriteErrorResponse(w http.ResponseWriter, statusCode int, detail string) {
	WriteJSONResponse(w, statusCode, ErrorResponse{Detail: detail})
}

// WriteBadRequestResponse 写入400错误响应
func WriteBadRequestResponse(w http.ResponseWriter, detail string) {
	WriteErrorResponse(w, http.StatusBadRequest, detail)
}

// WriteUnauthorizedResponse 写入401错误响应
func WriteUnauthorizedResponse(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteErrorResponse(w, http.StatusUnauthorized, detail)
}

// WriteNotFoundResponse 写入404错误响应
func WriteNotFoundResponse(w http.ResponseWriter, detail string) {
	WriteErrorResponse(w, http.StatusNotFound, detail)
}

// WriteServiceUnavailableResponse 写入503错误响应
func WriteServiceUnavailableResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusServiceUnavailable, data)
}

// WriteInternalServerErrorResponse 写入500错误响应
func WriteInternalServerErrorResponse(w http.ResponseWriter, detail string) {
	WriteErrorResponse(w, http.StatusInternalServerError, detail)
}

// WriteValidationErrorResponse 写入422校验错误响应
func WriteValidationErrorResponse(w http.ResponseWriter, detail string, fields []FieldError) {
	WriteJSONResponse(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: detail, Errors: fields})
}

// ParseJSONBody 解析JSON请求体
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// GetQueryParam 获取查询参数，如果不存在则返回默认值
func GetQueryParam(r *http.Request, key, defaultValue string) string {
	if value := r.URL.Query().Get(key); value != "" {
		return value
	}
	return defaultValue
}
