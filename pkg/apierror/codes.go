package apierror

import "net/http"

// 预定义的错误，覆盖仪表盘的错误分类：
// 参数校验、面板配置、余额/资源不足、远程面板错误、数据完整性
var (
	// ErrInvalidParameter 请求参数不合法
	// 校验错误原样返回给调用方，不会重试
	ErrInvalidParameter = &Error{
		Code:       "InvalidParameter",
		Message:    "One or more request parameters are invalid.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrNotFound 请求的资源不存在
	ErrNotFound = &Error{
		Code:       "NotFound",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrUnauthorized 未认证或凭证无效
	ErrUnauthorized = &Error{
		Code:       "Unauthorized",
		Message:    "Authentication is required to access this resource.",
		HTTPStatus: http.StatusUnauthorized,
	}

	// ErrForbidden 已认证但权限不足
	ErrForbidden = &Error{
		Code:       "Forbidden",
		Message:    "You do not have permission to access this resource.",
		HTTPStatus: http.StatusForbidden,
	}

	// ErrPanelNotConfigured 面板 URL 或 API Key 缺失
	// 提示管理员去配置，不会自动重试
	ErrPanelNotConfigured = &Error{
		Code:       "PanelNotConfigured",
		Message:    "Panel configuration is missing. Configure it in the admin panel or set PANEL_URL and PANEL_API_KEY in the environment.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	// ErrPanelAlreadyConnected 已连接到一个面板时拒绝连接到另一个 URL
	ErrPanelAlreadyConnected = &Error{
		Code:       "PanelAlreadyConnected",
		Message:    "A panel is already connected. Disconnect it before connecting to a different URL.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrPanelAPIError 远程面板返回非 2xx 响应
	// 消息中尽量携带远程返回的 detail
	ErrPanelAPIError = &Error{
		Code:       "PanelAPIError",
		Message:    "The panel API returned an error.",
		HTTPStatus: http.StatusBadGateway,
	}

	// ErrInsufficientCoins 金币余额不足
	ErrInsufficientCoins = &Error{
		Code:       "InsufficientCoins",
		Message:    "You do not have enough coins for this purchase.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInsufficientResourceCapacity 已购资源池余量不足
	// 这里只是类别锚点，业务层用同样的 Code 构造带短缺明细的消息
	ErrInsufficientResourceCapacity = &Error{
		Code:       "InsufficientResourceCapacity",
		Message:    "Your purchased resource pool does not have enough capacity for this server.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrServerSlotLimitExceeded 服务器槽位已用完
	ErrServerSlotLimitExceeded = &Error{
		Code:       "ServerSlotLimitExceeded",
		Message:    "You've reached your server slot limit. Purchase more slots from the resource store to create additional servers.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrIntegrity 数据不一致（如主分配 ID 在关联数据中找不到）
	// 对当前操作是致命的，绝不静默降级
	ErrIntegrity = &Error{
		Code:       "IntegrityError",
		Message:    "The panel returned inconsistent data for this resource.",
		HTTPStatus: http.StatusBadGateway,
	}

	// ErrInternalError 未知错误导致请求处理失败
	ErrInternalError = &Error{
		Code:       "InternalError",
		Message:    "The request processing has failed because of an unknown error, exception, or failure.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
