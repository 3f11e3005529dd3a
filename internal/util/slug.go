package util

import (
	"strings"
	"unicode"
)

// Slugify 根据标题生成URL安全的slug
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // 去掉开头的分隔符
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
