package rules

import "sort"

// TokenSet 去重后的域名 token 集合
type TokenSet struct {
	items map[string]struct{}
}

// NewTokenSet 创建空集合
func NewTokenSet() *TokenSet {
	return &TokenSet{items: make(map[string]struct{})}
}

// Add 加入 token，返回是否为新条目
func (s *TokenSet) Add(token string) bool {
	if _, exists := s.items[token]; exists {
		return false
	}
	s.items[token] = struct{}{}
	return true
}

// Contains 判断 token 是否存在
func (s *TokenSet) Contains(token string) bool {
	_, ok := s.items[token]
	return ok
}

// Len 返回条目数量
func (s *TokenSet) Len() int {
	return len(s.items)
}

// Sorted 返回按字节序升序排列的 token
func (s *TokenSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for t := range s.items {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
