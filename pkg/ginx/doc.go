// Package ginx 提供 gin 框架的 handler 适配器，支持自动参数绑定和响应处理
//
// 请求和响应统一使用 JSON 格式。
//
// 支持多种 handler 函数签名：
//
//	// 1. 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 2. 有参数，只有 error
//	func(c *gin.Context, args *Args) error
//
//	// 3. 有参数，只有返回值
//	func(c *gin.Context, args *Args) resp
//
//	// 4. 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
//	// 5. 无参数，只有 error
//	func(c *gin.Context) error
//
//	// 6. 无参数，只有返回值
//	func(c *gin.Context) resp
//
//	// 7. 无参数，无返回值
//	func(c *gin.Context)
//
// 如果参数结构体实现了 IsValid() error 方法，绑定成功后会自动调用做参数校验。
//
// 错误处理：如果 handler 返回 *apierror.Error，响应会使用其中定义的
// HTTP 状态码并序列化为统一的错误信封。
//
// 使用示例：
//
//	router := gin.Default()
//
//	router.POST("/servers", ginx.Adapt5(func(c *gin.Context, args *CreateServerRequest) (*CreateServerResponse, error) {
//	    return &CreateServerResponse{...}, nil
//	}))
package ginx
