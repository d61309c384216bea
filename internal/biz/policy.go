package biz

import (
	"fmt"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

// Policy 分析失败时的处理方式
type Policy string

const (
	// PolicySurface 面板显示错误
	PolicySurface Policy = "surface"
	// PolicyEmpty 降级为空结果
	PolicyEmpty Policy = "empty"
	// PolicyFallback 使用本地词典估算，仅情感分析支持
	PolicyFallback Policy = "fallback"
)

var defaultPolicies = map[dm.Kind]Policy{
	dm.KindWordCloud:   PolicyEmpty,
	dm.KindActionItems: PolicyEmpty,
}

// ParsePolicies 在默认策略之上合并配置
func ParsePolicies(raw map[string]string) (map[dm.Kind]Policy, error) {
	policies := make(map[dm.Kind]Policy, len(dm.AllKinds))
	for _, k := range dm.AllKinds {
		policies[k] = PolicySurface
		if p, ok := defaultPolicies[k]; ok {
			policies[k] = p
		}
	}
	for name, value := range raw {
		kind, err := dm.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("failure policy: %w", err)
		}
		p := Policy(value)
		switch p {
		case PolicySurface, PolicyEmpty:
		case PolicyFallback:
			if kind != dm.KindSentiment {
				return nil, fmt.Errorf("failure policy %q is only supported for %s", p, dm.KindSentiment)
			}
		default:
			return nil, fmt.Errorf("unknown failure policy %q for %s", value, kind)
		}
		policies[kind] = p
	}
	return policies, nil
}
