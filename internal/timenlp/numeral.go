package timenlp

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	chineseNumeralPattern = regexp.MustCompile(`[零〇一二两三四五六七八九十]+`)
	chineseDigits         = map[rune]int{
		'零': 0, '〇': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
		'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	}
	// 含 "一点" 但与钟点无关的常见说法
	numeralStopwords = strings.NewReplacer("一点儿", "", "一点点", "", "有一点", "")
)

// normalizeNumerals 把中文数字替换为阿拉伯数字，支持到九十九以及逐位读法（二〇二四）
func normalizeNumerals(text string) string {
	text = numeralStopwords.Replace(text)
	return chineseNumeralPattern.ReplaceAllStringFunc(text, func(s string) string {
		return strconv.Itoa(chineseToInt(s))
	})
}

func chineseToInt(s string) int {
	if i := strings.IndexRune(s, '十'); i >= 0 {
		tens := 1
		if i > 0 {
			tens = digitsValue(s[:i])
		}
		ones := 0
		if rest := s[i+len("十"):]; rest != "" {
			ones = digitsValue(strings.ReplaceAll(rest, "十", ""))
		}
		return tens*10 + ones
	}
	return digitsValue(s)
}

func digitsValue(s string) int {
	v := 0
	for _, r := range s {
		v = v*10 + chineseDigits[r]
	}
	return v
}
