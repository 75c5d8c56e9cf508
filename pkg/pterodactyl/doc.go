// Package pterodactyl 封装 Pterodactyl 面板的 Application API。
//
// 包含四个部分：
//
//   - Resolver：面板凭据解析，数据库优先、环境变量兜底，结果缓存 5 分钟
//   - Client：HTTP 客户端，统一 15 秒超时，非 2xx 响应转成 *APIError
//   - 响应规整：面板的 JSON-API 响应形态不稳定（relationships 与 included、
//     数字与字符串 ID、布尔与 0/1 标志位），这里统一成稳定的 Go 类型
//   - 类型化端点：服务器、用户、Nest/Egg、Node/Allocation 的常用操作
//
// 上层业务通过 API 接口消费本包，测试用 MockAPI 替换。
package pterodactyl
