package extract

import (
	"regexp"
	"strings"
)

var queryPattern = regexp.MustCompile(`^(.+?)(喜欢干什么|怎么样|如何|有什么特点|喜欢什么|这人怎么样|这人如何)`)

// MatchQuery 匹配 "<人物>喜欢什么/怎么样" 一类的画像查询，返回人物名
func MatchQuery(text string) (string, bool) {
	m := queryPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	name := trimFillers(strings.TrimSpace(m[1]))
	if name == "" {
		return "", false
	}
	return name, true
}
