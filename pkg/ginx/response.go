package ginx

import (
	"net/http"

	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/gin-gonic/gin"
)

// renderResponse 渲染 JSON 响应
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	// 基本类型特殊处理
	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
		return
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		ctx.JSON(http.StatusOK, gin.H{"value": v})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AbortWithError 渲染错误响应并终止后续 handler，供中间件使用
func AbortWithError(ctx *gin.Context, err error) {
	renderError(ctx, http.StatusInternalServerError, err)
	ctx.Abort()
}

// renderError 渲染错误响应
// 如果 err 是 *apierror.Error 或 *apierror.ErrorResponse，直接序列化错误对象
// 否则使用默认的错误格式
func renderError(ctx *gin.Context, statusCode int, err error) {
	// 检查是否是 apierror.Error
	if apiErr, ok := err.(*apierror.Error); ok {
		// 使用错误对象中定义的 HTTP 状态码
		if apiErr.HTTPStatus > 0 {
			statusCode = apiErr.HTTPStatus
		}
		ctx.JSON(statusCode, apierror.NewErrorResponse("", apiErr))
		return
	}

	// 检查是否是 apierror.ErrorResponse
	if errorResp, ok := err.(*apierror.ErrorResponse); ok {
		// 从第一个错误中获取 HTTP 状态码（如果有）
		if len(errorResp.Errors) > 0 && errorResp.Errors[0].HTTPStatus > 0 {
			statusCode = errorResp.Errors[0].HTTPStatus
		}
		ctx.JSON(statusCode, errorResp)
		return
	}

	// 默认错误格式
	ctx.JSON(statusCode, gin.H{"error": err.Error()})
}
