package metricsconfig

import (
	"github.com/wonny/aegis-fin/backend/internal/s1_metrics"
)

// Config는 재무비율 엔진이 인식하는 계정 어휘와 시계열 길이 설정
type Config struct {
	Meta        Meta     `yaml:"meta" json:"meta"`
	TargetYears int      `yaml:"target_years" json:"target_years"`
	Accounts    Accounts `yaml:"accounts" json:"accounts"`
}

// Meta 메타 정보
type Meta struct {
	VocabularyID string `yaml:"vocabulary_id" json:"vocabulary_id"`
	Version      string `yaml:"version" json:"version"`
}

// Accounts lists accepted DART account names per canonical field
// 먼저 나열된 계정명이 우선
type Accounts struct {
	TotalAssets        []string `yaml:"total_assets" json:"total_assets"`
	TotalLiabilities   []string `yaml:"total_liabilities" json:"total_liabilities"`
	CurrentAssets      []string `yaml:"current_assets" json:"current_assets"`
	CurrentLiabilities []string `yaml:"current_liabilities" json:"current_liabilities"`
	TotalEquity        []string `yaml:"total_equity" json:"total_equity"`
	Revenue            []string `yaml:"revenue" json:"revenue"`
	OperatingProfit    []string `yaml:"operating_profit" json:"operating_profit"`
	NetIncome          []string `yaml:"net_income" json:"net_income"`
}

// Default returns the built-in vocabulary (DART 주요계정 명칭)
func Default() *Config {
	names := s1_metrics.DefaultAccountNames()
	return &Config{
		Meta: Meta{
			VocabularyID: "dart_single_account",
			Version:      "1",
		},
		TargetYears: s1_metrics.DefaultTargetYears,
		Accounts:    Accounts(names),
	}
}

// AccountNames converts the config into the engine's vocabulary
func (c *Config) AccountNames() s1_metrics.AccountNames {
	return s1_metrics.AccountNames(c.Accounts)
}

// fields returns (yaml key, names) pairs in declaration order
func (a Accounts) fields() []field {
	return []field{
		{"accounts.total_assets", a.TotalAssets},
		{"accounts.total_liabilities", a.TotalLiabilities},
		{"accounts.current_assets", a.CurrentAssets},
		{"accounts.current_liabilities", a.CurrentLiabilities},
		{"accounts.total_equity", a.TotalEquity},
		{"accounts.revenue", a.Revenue},
		{"accounts.operating_profit", a.OperatingProfit},
		{"accounts.net_income", a.NetIncome},
	}
}

type field struct {
	key   string
	names []string
}
