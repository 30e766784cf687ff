package rules

import (
	"fmt"
	"strings"
)

// WildcardPolicy 通配符 token 的处理策略，每次运行固定一种
type WildcardPolicy string

const (
	// ApexDerive keeps "*.a.b" and also adds the apex "a.b".
	ApexDerive WildcardPolicy = "apex-derive"
	// MarkerRewrite replaces "*.a.b" with "+.a.b" (domain and all subdomains).
	MarkerRewrite WildcardPolicy = "marker-rewrite"
)

const (
	upstreamMarker = "*."
	providerMarker = "+."
)

// ParseWildcardPolicy 解析配置中的策略名称
func ParseWildcardPolicy(s string) (WildcardPolicy, error) {
	switch p := WildcardPolicy(strings.TrimSpace(s)); p {
	case ApexDerive, MarkerRewrite:
		return p, nil
	default:
		return "", fmt.Errorf("unknown wildcard policy %q (want %s or %s)", s, ApexDerive, MarkerRewrite)
	}
}

// Expand 返回 token 按策略展开后应加入集合的全部条目
//
// Multi-level wildcards ("*.*.x"), a bare "*" and "*." are passed through
// unchanged under both policies.
func (p WildcardPolicy) Expand(token string) []string {
	rest, ok := strings.CutPrefix(token, upstreamMarker)
	if !ok || rest == "" || strings.Contains(rest, "*") {
		return []string{token}
	}

	switch p {
	case ApexDerive:
		return []string{token, rest}
	case MarkerRewrite:
		return []string{providerMarker + rest}
	default:
		return []string{token}
	}
}
