package pterodactyl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// 所有请求统一 15 秒超时，不按端点区分
// 连接测试用更短的 10 秒，探活要求快速失败
const (
	requestTimeout = 15 * time.Second
	probeTimeout   = 10 * time.Second
)

// remoteError 面板错误响应里的单条错误
type remoteError struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIError 面板返回的非 2xx 响应
// Raw 保留原始响应体，便于排查面板侧的问题
type APIError struct {
	StatusCode int
	Detail     string
	Raw        string
	errors     []remoteError
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pterodactyl: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("pterodactyl: status %d", e.StatusCode)
}

// Details 返回面板给出的全部错误描述
func (e *APIError) Details() []string {
	out := make([]string, 0, len(e.errors))
	for _, re := range e.errors {
		if re.Detail != "" {
			out = append(out, re.Detail)
		}
	}
	return out
}

// newAPIError 从响应体解析面板错误
// 响应体不是合法 JSON 时退回原始文本
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Raw: string(body)}
	var payload struct {
		Errors []remoteError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		e.errors = payload.Errors
		e.Detail = payload.Errors[0].Detail
	}
	return e
}

// Client 面板 Application API 客户端
// 凭据每次请求时从 Resolver 解析，管理员更换面板后无需重启进程
type Client struct {
	resolver   *Resolver
	httpClient *http.Client
}

// NewClient 创建面板客户端
func NewClient(resolver *Resolver) *Client {
	return &Client{
		resolver: resolver,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Resolver 返回客户端使用的凭据解析器
func (c *Client) Resolver() *Resolver { return c.resolver }

// IsConfigured 面板凭据当前是否可用
func (c *Client) IsConfigured(ctx context.Context) bool {
	return c.resolver.IsConfigured(ctx)
}

// Call 向面板发送一次请求
// path 以 /api/application 为根，如 "/servers/5"
// 非 2xx 响应返回 *APIError，网络错误原样返回
func (c *Client) Call(ctx context.Context, method string, path string, body any) (json.RawMessage, error) {
	creds, err := c.resolver.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, c.httpClient, creds, method, path, body)
}

func (c *Client) do(ctx context.Context, hc *http.Client, creds Credentials, method string, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	url := creds.URL + "/api/application" + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	zerolog.Ctx(ctx).Debug().Str("method", method).Str("path", path).Msg("pterodactyl request")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, respBody)
		zerolog.Ctx(ctx).Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("detail", apiErr.Detail).
			Msg("pterodactyl request failed")
		return nil, apiErr
	}
	return respBody, nil
}

// TestConnection 用给定凭据探活面板
// 只区分三类结果：认证失败、地址不对、网络不可达
func (c *Client) TestConnection(ctx context.Context, rawURL string, apiKey string) error {
	creds := Credentials{URL: normalizeURL(rawURL), APIKey: apiKey}
	probe := &http.Client{Timeout: probeTimeout}

	_, err := c.do(ctx, probe, creds, http.MethodGet, "/users?per_page=1", nil)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("panel rejected the API key (status %d)", apiErr.StatusCode)
		case http.StatusNotFound:
			return fmt.Errorf("panel URL does not expose the application API (status 404)")
		default:
			return fmt.Errorf("panel returned status %d", apiErr.StatusCode)
		}
	}
	if strings.Contains(err.Error(), "context deadline exceeded") || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("panel did not respond within %s", probeTimeout)
	}
	return fmt.Errorf("panel unreachable: %w", err)
}
