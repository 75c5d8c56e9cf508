// Package apierror 提供结构化的错误类型，用于所有服务的统一错误处理
//
// 错误响应使用 JSON 格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "InsufficientResourceCapacity",
//	            "message": "Insufficient ram. You have 0 MB available but need 1024 MB."
//	        }
//	    ],
//	    "requestID": "ea966190-f9aa-478e-9ede-example"
//	}
//
// 预定义的错误变量覆盖仪表盘的错误分类：
//
//   - ErrInvalidParameter: 请求参数不合法（校验错误，不重试）
//   - ErrNotFound: 资源不存在
//   - ErrUnauthorized / ErrForbidden: 认证、鉴权失败
//   - ErrPanelNotConfigured: 面板 URL / API Key 缺失
//   - ErrPanelAlreadyConnected: 已连接时拒绝切换面板
//   - ErrPanelAPIError: 远程面板返回非 2xx
//   - ErrInsufficientCoins: 金币不足
//   - ErrInsufficientResourceCapacity: 已购资源余量不足
//   - ErrServerSlotLimitExceeded: 服务器槽位不足
//   - ErrIntegrity: 远程数据不一致，当前操作致命
//   - ErrInternalError: 未知内部错误
//
// 使用示例：
//
//	// 直接使用预定义的错误
//	return nil, apierror.ErrInsufficientCoins
//
//	// 包装预定义错误，保留 Code / HTTPStatus，替换消息
//	return nil, apierror.WrapError(apierror.ErrPanelAPIError, "create server failed", err)
//
//	// 或创建自定义错误
//	err := apierror.NewErrorWithStatus("InvalidParameter", "server name is required", http.StatusBadRequest)
package apierror
