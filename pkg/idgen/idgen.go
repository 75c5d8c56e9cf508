package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator 递增 ID 生成器
// 使用 Sonyflake 算法生成全局唯一且递增的 ID
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// initDefaultGenerator 初始化默认生成器
func initDefaultGenerator() {
	defaultGenerator = New()
}

// DefaultGenerator 返回默认的 ID 生成器
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// New 创建新的 ID 生成器
func New() *Generator {
	// 使用默认设置创建 Sonyflake
	// 如果需要自定义机器 ID，可以通过 Settings 配置
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // 起始时间
	})
	if sf == nil {
		// 如果创建失败，使用当前时间作为起始时间
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Now(),
		})
	}

	return &Generator{
		sf: sf,
	}
}

// generateIDWithPrefix 生成带前缀的 ID
func (g *Generator) generateIDWithPrefix(prefix, errorMsg string) (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errorMsg, err)
	}
	return fmt.Sprintf("%s-%d", prefix, id), nil
}

// GenerateUserID 生成用户 ID（格式：usr-{递增 ID}）
func (g *Generator) GenerateUserID() (string, error) {
	return g.generateIDWithPrefix("usr", "generate user ID")
}

// GenerateServerID 生成服务器 ID（格式：srv-{递增 ID}）
func (g *Generator) GenerateServerID() (string, error) {
	return g.generateIDWithPrefix("srv", "generate server ID")
}

// GeneratePurchaseID 生成购买流水 ID（格式：pur-{递增 ID}）
func (g *Generator) GeneratePurchaseID() (string, error) {
	return g.generateIDWithPrefix("pur", "generate purchase ID")
}

// GenerateRewardID 生成奖励流水 ID（格式：rwd-{递增 ID}）
func (g *Generator) GenerateRewardID() (string, error) {
	return g.generateIDWithPrefix("rwd", "generate reward ID")
}

// GenerateID 生成通用递增 ID
func (g *Generator) GenerateID() (uint64, error) {
	return g.sf.NextID()
}

// 包级别的便捷函数，使用默认生成器

// GenerateUserID 使用默认生成器生成用户 ID
func GenerateUserID() (string, error) {
	return DefaultGenerator().GenerateUserID()
}

// GenerateServerID 使用默认生成器生成服务器 ID
func GenerateServerID() (string, error) {
	return DefaultGenerator().GenerateServerID()
}

// GeneratePurchaseID 使用默认生成器生成购买流水 ID
func GeneratePurchaseID() (string, error) {
	return DefaultGenerator().GeneratePurchaseID()
}

// GenerateRewardID 使用默认生成器生成奖励流水 ID
func GenerateRewardID() (string, error) {
	return DefaultGenerator().GenerateRewardID()
}

// GenerateID 使用默认生成器生成通用递增 ID
func GenerateID() (uint64, error) {
	return DefaultGenerator().GenerateID()
}
