package pterodactyl

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured 面板凭据未配置
var ErrNotConfigured = errors.New("pterodactyl: panel not configured")

// DefaultCredentialTTL 凭据缓存的默认有效期
const DefaultCredentialTTL = 5 * time.Minute

// Credentials 面板访问凭据
type Credentials struct {
	URL    string
	APIKey string
}

// StoredConfig 持久化存储里的面板配置
type StoredConfig struct {
	URL    string
	APIKey string
}

// ConfigStore 面板配置的持久化来源
// 返回 nil 表示没有保存过配置
type ConfigStore interface {
	PanelConfig(ctx context.Context) (*StoredConfig, error)
}

// Resolver 面板凭据解析器
// 解析顺序：持久化存储优先，环境变量兜底
// 结果缓存 ttl 时长，"未配置" 也会被缓存，避免每次请求都打一次存储
type Resolver struct {
	store  ConfigStore
	envURL string
	envKey string
	ttl    time.Duration

	mu        sync.Mutex
	cached    Credentials
	found     bool
	fetchedAt time.Time
}

// NewResolver 创建凭据解析器
// store 可以为 nil，此时只使用环境变量
func NewResolver(store ConfigStore, envURL string, envKey string) *Resolver {
	return &Resolver{
		store:  store,
		envURL: envURL,
		envKey: envKey,
		ttl:    DefaultCredentialTTL,
	}
}

// WithTTL 覆盖缓存有效期，仅测试使用
func (r *Resolver) WithTTL(ttl time.Duration) *Resolver {
	r.ttl = ttl
	return r
}

// Credentials 解析面板凭据
// 缓存未过期时直接返回缓存结果，包括 "未配置" 这个结果本身
func (r *Resolver) Credentials(ctx context.Context) (Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.fetchedAt.IsZero() && time.Since(r.fetchedAt) < r.ttl {
		if !r.found {
			return Credentials{}, ErrNotConfigured
		}
		return r.cached, nil
	}

	creds, found := r.resolve(ctx)
	r.cached = creds
	r.found = found
	r.fetchedAt = time.Now()

	if !found {
		return Credentials{}, ErrNotConfigured
	}
	return creds, nil
}

// resolve 执行一次真正的凭据解析
// 存储读取失败只记日志不报错，降级到环境变量
func (r *Resolver) resolve(ctx context.Context) (Credentials, bool) {
	if r.store != nil {
		cfg, err := r.store.PanelConfig(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("read panel config from store failed, falling back to environment")
		} else if cfg != nil && cfg.URL != "" && cfg.APIKey != "" {
			return Credentials{URL: normalizeURL(cfg.URL), APIKey: cfg.APIKey}, true
		}
	}
	if r.envURL != "" && r.envKey != "" {
		return Credentials{URL: normalizeURL(r.envURL), APIKey: r.envKey}, true
	}
	return Credentials{}, false
}

// Invalidate 使缓存立即失效
// 配置变更（连接、断开面板）后必须调用，否则最长 ttl 内仍用旧凭据
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchedAt = time.Time{}
	r.cached = Credentials{}
	r.found = false
}

// IsConfigured 当前是否能解析出凭据
func (r *Resolver) IsConfigured(ctx context.Context) bool {
	_, err := r.Credentials(ctx)
	return err == nil
}

// normalizeURL 去掉末尾斜杠，保证拼接路径时不出现双斜杠
func normalizeURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
