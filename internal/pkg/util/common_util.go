package util

import "strings"

// TruncateRunes 按字符数截断，避免把多字节字符切成半个
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// NormalizeBody 消息正文规范化：仅去除首尾空白，内容原样保留
func NormalizeBody(s string) string {
	return strings.TrimSpace(s)
}
