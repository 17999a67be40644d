package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"

	chiRoute "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// decodeAndValidate 解析请求体并执行结构体校验；失败时已写出响应
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *utils.Validator, dst interface{}) bool {
	if err := utils.ParseJSONBody(r, dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		utils.WriteValidationErrorResponse(w, "Invalid request body: "+err.Error(), nil)
		return false
	}

	fields, err := v.Struct(dst)
	if err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid request body: "+err.Error(), nil)
		return false
	}
	if len(fields) > 0 {
		utils.WriteValidationErrorResponse(w, "Validation failed", fields)
		return false
	}
	return true
}

// parsePagination 读取 skip/limit 查询参数（默认 0/100，不允许负数）
func parsePagination(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	skip, err := strconv.Atoi(utils.GetQueryParam(r, "skip", strconv.Itoa(defaultSkip)))
	if err != nil || skip < 0 {
		utils.WriteValidationErrorResponse(w, "skip must be a non-negative integer",
			[]utils.FieldError{{Field: "skip", Rule: "min"}})
		return 0, 0, false
	}
	limit, err = strconv.Atoi(utils.GetQueryParam(r, "limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 {
		utils.WriteValidationErrorResponse(w, "limit must be a non-negative integer",
			[]utils.FieldError{{Field: "limit", Rule: "min"}})
		return 0, 0, false
	}
	return skip, limit, true
}

// int64Param 读取整数路径参数
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chiRoute.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.WriteValidationErrorResponse(w, fmt.Sprintf("%s must be an integer", name),
			[]utils.FieldError{{Field: name, Rule: "int"}})
		return 0, false
	}
	return id, true
}

// stringParam 读取字符串路径参数。客户端转义过的路径（如 a%40x.com）由 chi 按 RawPath
// 匹配，参数保持转义形式，这里解码；非法转义返回 422
func stringParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := chiRoute.URLParam(r, name)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			utils.WriteValidationErrorResponse(w, fmt.Sprintf("%s is not a valid path segment", name),
				[]utils.FieldError{{Field: name, Rule: "escape"}})
			return "", false
		}
		raw = decoded
	}
	return strings.TrimSpace(raw), true
}

// writeServiceError 将服务层错误映射为HTTP响应
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		utils.WriteBadRequestResponse(w, conflict.Reason)
	case errors.Is(err, services.ErrNotFound):
		utils.WriteNotFoundResponse(w, notFound)
	default:
		fmt.Printf("❌ [%s] %s %s failed: %v\n", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		utils.WriteInternalServerErrorResponse(w, "Internal server error")
	}
}
