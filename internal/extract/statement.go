// Package extract 从自然语言中抽取人物画像信息
// 包括基于规则的陈述/查询匹配，以及基于大模型的抽取
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"pocket-assistant/internal/model"
)

// Profile 抽取出的人物及特点
// Trait 已带极性前缀，如 "喜欢喝酒"
type Profile struct {
	Name  string
	Trait string
}

// 喜欢类动词
var likeVerbs = []string{
	"喜欢", "热爱", "爱好", "偏爱", "钟爱", "崇尚", "欣赏", "向往", "爱", "情有独钟", "热衷于", "痴迷于",
}

// 讨厌类动词
var dislikeVerbs = []string{
	"讨厌", "不喜欢", "痛恨", "反感", "不爱", "不习惯", "厌恶", "排斥", "抵触", "害怕", "恐惧",
	"怕", "烦", "腻", "不擅长", "不善于", "不会", "不习惯于", "深恶痛绝", "强烈不满",
}

// 转述类填充词，不属于人名
var reportedSpeechFillers = []string{"说他", "表示自己", "透露他"}

// 单独出现时表示提问的对象
var interrogativeObjects = map[string]bool{
	"什么": true, "干什么": true, "啥": true, "干啥": true, "哪些": true, "谁": true,
}

// maxNameRunes 常见称呼的最大长度，用于判断单字动词是否其实是人名的一部分
const maxNameRunes = 4

var (
	verbPattern = regexp.MustCompile(alternation(append(append([]string(nil), likeVerbs...), dislikeVerbs...)))
	nameTail    = regexp.MustCompile(`[\x{4e00}-\x{9fa5}A-Za-z0-9]+$`)
	likeVerbSet = toSet(likeVerbs)
)

// verbHit 句中一处动词匹配及其切分出的人名、对象
type verbHit struct {
	name   string
	verb   string
	object string
}

// weak 单字动词（爱、怕、烦、腻）也常出现在人名里，如 "张爱玲"
func (h verbHit) weak() bool {
	return utf8.RuneCountInString(h.verb) == 1
}

// MatchStatement 基于规则匹配 "<人物><可选分隔符><喜欢/讨厌类动词><对象>"
// 人名取第一个动词之前的部分，"张三不喜欢" 切成 "张三" + "不喜欢"
// 单字动词之后不远处还有多字动词时，单字动词视为人名的一部分
// 对象像提问时（以问号、吗、呢结尾或是 "什么" 之类）不算陈述
func MatchStatement(text string) (Profile, bool) {
	hits := verbHits(text)
	for i, hit := range hits {
		if hit.weak() && strongVerbFollows(hits[i+1:]) {
			continue
		}
		if isQuestion(hit.object) {
			return Profile{}, false
		}
		prefix := model.TraitPrefixDislike
		if likeVerbSet[hit.verb] {
			prefix = model.TraitPrefixLike
		}
		return Profile{Name: hit.name, Trait: model.NormalizeTrait(prefix, hit.object)}, true
	}
	return Profile{}, false
}

// verbHits 按出现顺序列出人名和对象都不为空的动词切分
func verbHits(text string) []verbHit {
	var hits []verbHit
	for _, loc := range verbPattern.FindAllStringIndex(text, -1) {
		head := strings.TrimRight(text[:loc[0]], "，, ")
		name := trimFillers(nameTail.FindString(head))
		object := strings.TrimSpace(text[loc[1]:])
		if name == "" || object == "" {
			continue
		}
		hits = append(hits, verbHit{name: name, verb: text[loc[0]:loc[1]], object: object})
	}
	return hits
}

func strongVerbFollows(rest []verbHit) bool {
	for _, hit := range rest {
		if !hit.weak() && utf8.RuneCountInString(hit.name) <= maxNameRunes {
			return true
		}
	}
	return false
}

func isQuestion(object string) bool {
	for _, suffix := range []string{"？", "?", "吗", "呢"} {
		if strings.HasSuffix(object, suffix) {
			return true
		}
	}
	return interrogativeObjects[object]
}

// trimFillers 去掉人名末尾的转述填充词，如 "程总透露他" -> "程总"
func trimFillers(name string) string {
	for _, filler := range reportedSpeechFillers {
		name = strings.TrimSuffix(name, filler)
	}
	return name
}

// alternation 构造正则分支，按长度降序，保证 "不习惯于" 先于 "不习惯"
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	for i, w := range sorted {
		sorted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(sorted, "|")
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
