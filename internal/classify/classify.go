// Package classify decides whether a text fragment is a translatable English
// or Chinese word or phrase.
package classify

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/oukeidos/wordlens/internal/language"
)

const (
	maxEnglishLength = 100
	maxChineseLength = 50
)

var (
	hasLatin       = regexp.MustCompile(`[a-zA-Z]`)
	englishCharset = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

	hasIdeograph   = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	chineseCharset = regexp.MustCompile(`^[\x{4e00}-\x{9fff}\x{3000}-\x{303f}\x{ff00}-\x{ffef}\s\-·]+$`)
	cjkPunctOnly   = regexp.MustCompile(`^[\x{3000}-\x{303f}\x{ff00}-\x{ffef}\s\-·]+$`)
)

var englishStopWords = map[string]struct{}{
	"www": {}, "http": {}, "https": {}, "com": {}, "org": {},
	"net": {}, "html": {}, "css": {}, "js": {},
}

var chineseStopWords = map[string]struct{}{
	"的": {}, "了": {}, "是": {}, "在": {}, "有": {}, "和": {}, "就": {},
	"不": {}, "人": {}, "都": {}, "一": {}, "个": {}, "上": {}, "也": {},
	"很": {}, "到": {}, "说": {}, "要": {}, "去": {}, "你": {}, "会": {},
	"着": {}, "没": {}, "看": {}, "好": {}, "自己": {}, "这样": {}, "那样": {},
}

// Classify returns the language of text, or language.None when the fragment
// should not be looked up.
func Classify(text string) language.ID {
	t := strings.TrimSpace(text)
	if t == "" {
		return language.None
	}
	if IsEnglish(t) {
		return language.English
	}
	if IsChinese(t) {
		return language.Chinese
	}
	return language.None
}

// IsEnglish reports whether text is an acceptable English token or phrase.
func IsEnglish(text string) bool {
	t := strings.TrimSpace(text)
	if !hasLatin.MatchString(t) {
		return false
	}
	n := uniseg.GraphemeClusterCount(t)
	if n <= 1 || n >= maxEnglishLength {
		return false
	}
	if !englishCharset.MatchString(t) {
		return false
	}
	_, stop := englishStopWords[strings.ToLower(t)]
	return !stop
}

// IsChinese reports whether text is an acceptable Chinese word or phrase.
func IsChinese(text string) bool {
	t := strings.TrimSpace(text)
	n := uniseg.GraphemeClusterCount(t)
	if n < 1 || n > maxChineseLength {
		return false
	}
	if !hasIdeograph.MatchString(t) || !chineseCharset.MatchString(t) {
		return false
	}
	if _, stop := chineseStopWords[t]; stop {
		return false
	}
	return !cjkPunctOnly.MatchString(t)
}
