package rules

import (
	"strings"
	"unicode"
)

// LineKind 原始行的分类结果
type LineKind int

const (
	LineToken LineKind = iota
	LineBlank
	LineComment
	LineInlineEmpty // 去掉行内注释后为空
)

// String 返回分类名称，同时用作指标标签
func (k LineKind) String() string {
	switch k {
	case LineToken:
		return "token"
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineInlineEmpty:
		return "inline_comment"
	default:
		return "unknown"
	}
}

// commentPrefixes 整行注释前缀
var commentPrefixes = []string{"#", "//", ";"}

// NormalizeLine 规范化一行，返回域名 token；ok 为 false 表示跳过该行
func NormalizeLine(line string) (token string, ok bool) {
	token, kind := Classify(line)
	return token, kind == LineToken
}

// Classify 规范化一行并给出分类
//
// Only '#' starts an inline comment; "//" and ";" are recognised at the start
// of a line only.
func Classify(line string) (string, LineKind) {
	s := strings.TrimFunc(line, isSpace)
	if s == "" {
		return "", LineBlank
	}

	for _, p := range commentPrefixes {
		if strings.HasPrefix(s, p) {
			return "", LineComment
		}
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = strings.TrimFunc(s[:i], isSpace)
		if s == "" {
			return "", LineInlineEmpty
		}
	}

	// 去除全部空白，而不是压缩成一个空格
	s = strings.Join(strings.FieldsFunc(s, isSpace), "")
	if s == "" {
		return "", LineBlank
	}
	return s, LineToken
}

// isSpace 在 unicode.IsSpace 基础上把 \x1c-\x1f 信息分隔符也视为空白
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// SplitLines 按行拆分上游内容，行边界与常见 splitlines 语义一致
// (\n, \r\n, \r, \v, \f, \x1c-\x1e, \x85, U+2028, U+2029)。
func SplitLines(raw string) []string {
	var lines []string
	start := 0
	for i, r := range raw {
		if i < start {
			continue
		}
		switch r {
		case '\r':
			lines = append(lines, raw[start:i])
			if i+1 < len(raw) && raw[i+1] == '\n' {
				start = i + 2
			} else {
				start = i + 1
			}
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e':
			lines = append(lines, raw[start:i])
			start = i + 1
		case '\u0085', '\u2028', '\u2029':
			lines = append(lines, raw[start:i])
			start = i + len(string(r))
		}
	}
	if start < len(raw) {
		lines = append(lines, raw[start:])
	}
	return lines
}
