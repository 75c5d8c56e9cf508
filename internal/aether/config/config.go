// Package config 提供运行配置
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults 新用户的初始配额
type Defaults struct {
	Coins   int64 `yaml:"coins"`
	RAM     int64 `yaml:"ram"`     // MB
	CPU     int64 `yaml:"cpu"`     // 百分比
	Storage int64 `yaml:"storage"` // MB
	Slots   int64 `yaml:"slots"`
}

// Rewards 奖励相关配置
type Rewards struct {
	DailyCoins       int64 `yaml:"daily_coins"`
	LinkvertiseCoins int64 `yaml:"linkvertise_coins"`
	CooldownHours    int   `yaml:"cooldown_hours"`
}

type Config struct {
	// Address 是 HTTP 服务绑定地址
	// 可以通过环境变量 AETHER_ADDRESS 配置
	Address string `yaml:"address"`

	// DataDir 是数据目录，存放 SQLite 数据库
	// 可以通过环境变量 AETHER_DATA_DIR 配置
	// 默认：~/.local/share/aether
	DataDir string `yaml:"data_dir"`

	// Secret 用于面板密钥的落库加密和 JWT 签名
	// 可以通过环境变量 AETHER_SECRET 配置
	Secret string `yaml:"secret"`

	// PterodactylURL / PterodactylKey 是面板凭据的环境变量兜底
	// 管理面连接过面板之后以数据库配置为准
	PterodactylURL string `yaml:"pterodactyl_url"`
	PterodactylKey string `yaml:"pterodactyl_key"`

	Defaults Defaults `yaml:"defaults"`
	Rewards  Rewards  `yaml:"rewards"`
}

func New() (*Config, error) {
	cfg := &Config{
		Address:        getAddress(),
		DataDir:        getDataDir(),
		Secret:         os.Getenv("AETHER_SECRET"),
		PterodactylURL: os.Getenv("PTERODACTYL_URL"),
		PterodactylKey: os.Getenv("PTERODACTYL_API_KEY"),
		Defaults: Defaults{
			Coins:   getInt64("AETHER_DEFAULT_COINS", 100),
			RAM:     getInt64("AETHER_DEFAULT_RAM", 4096),
			CPU:     getInt64("AETHER_DEFAULT_CPU", 200),
			Storage: getInt64("AETHER_DEFAULT_STORAGE", 20480),
			Slots:   getInt64("AETHER_DEFAULT_SLOTS", 2),
		},
		Rewards: Rewards{
			DailyCoins:       getInt64("AETHER_DAILY_COINS", 25),
			LinkvertiseCoins: getInt64("AETHER_LINKVERTISE_COINS", 10),
			CooldownHours:    int(getInt64("AETHER_REWARD_COOLDOWN_HOURS", 24)),
		},
	}

	// 配置文件覆盖环境变量推导出来的默认值
	if path := os.Getenv("AETHER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.Secret == "" {
		return nil, fmt.Errorf("AETHER_SECRET is required")
	}
	return cfg, nil
}

// DatabasePath SQLite 数据库文件路径
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "aether.db")
}

// getAddress 获取绑定地址，优先使用环境变量 AETHER_ADDRESS
func getAddress() string {
	if addr := os.Getenv("AETHER_ADDRESS"); addr != "" {
		return addr
	}

	return "0.0.0.0:8080"
}

// getDataDir 获取数据目录，优先使用环境变量
func getDataDir() string {
	// 1. 优先使用环境变量 AETHER_DATA_DIR
	if dir := os.Getenv("AETHER_DATA_DIR"); dir != "" {
		return dir
	}

	// 2. 使用用户主目录下的 .local/share/aether
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "aether")
	}

	// 3. 如果无法获取主目录，使用当前目录下的 data
	return filepath.Join(".", "data")
}

// getInt64 读取整数环境变量，缺失或非法时用默认值
func getInt64(key string, fallback int64) int64 {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
