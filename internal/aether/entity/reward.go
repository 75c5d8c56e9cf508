package entity

import (
	"fmt"
)

// 奖励来源
const (
	RewardSourceDaily       = "daily"
	RewardSourceLinkvertise = "linkvertise"
)

// ClaimRewardRequest 领取奖励请求
type ClaimRewardRequest struct {
	Source string `json:"source"`
}

// IsValid 校验领取参数
func (r *ClaimRewardRequest) IsValid() error {
	switch r.Source {
	case RewardSourceDaily, RewardSourceLinkvertise:
		return nil
	}
	return fmt.Errorf("unknown reward source %q", r.Source)
}

// ClaimRewardResult 领取结果
type ClaimRewardResult struct {
	Source    string `json:"source"`
	Coins     int64  `json:"coins"`
	CoinsLeft int64  `json:"coins_left"`
}

// RewardStatus 某个来源的可领取状态
type RewardStatus struct {
	Source       string `json:"source"`
	Coins        int64  `json:"coins"`
	Claimable    bool   `json:"claimable"`
	NextClaimAt  string `json:"next_claim_at,omitempty"`
	LastClaimAt  string `json:"last_claim_at,omitempty"`
}
