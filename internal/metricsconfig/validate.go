package metricsconfig

import (
	"fmt"
	"strings"
)

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the vocabulary constraints
// - target_years >= 2 (성장률 계산에 최소 2개 연도 필요)
// - 모든 계정 필드에 1개 이상 계정명
// - 계정명은 비어 있지 않고 필드 간 중복 불가
func Validate(cfg *Config) error {
	if cfg.TargetYears < 2 {
		return ValidationError{"target_years", "must be >= 2"}
	}

	seen := make(map[string]string)
	for _, f := range cfg.Accounts.fields() {
		if len(f.names) == 0 {
			return ValidationError{f.key, "required"}
		}
		for _, name := range f.names {
			if strings.TrimSpace(name) == "" {
				return ValidationError{f.key, "empty account name"}
			}
			if owner, dup := seen[name]; dup {
				return ValidationError{f.key, fmt.Sprintf("%q already listed under %s", name, owner)}
			}
			seen[name] = f.key
		}
	}

	return nil
}
