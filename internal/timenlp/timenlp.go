// Package timenlp 从中文文本中识别时间表达
// 支持相对日期、星期、绝对日期、"N分钟后" 一类的偏移、钟点和时间段
package timenlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Type 识别结果的类型
type Type string

const (
	TypeTimestamp Type = "timestamp" // 时间点
	TypeTimespan  Type = "timespan"  // 时间段
)

// 只给出日期没有钟点时使用的默认时刻
const defaultHour = 9

// Result 识别结果
type Result struct {
	Type      Type
	Timestamp time.Time
	Timespan  [2]time.Time
}

// Start 返回时间点，或时间段的起点
func (r Result) Start() time.Time {
	if r.Type == TypeTimespan {
		return r.Timespan[0]
	}
	return r.Timestamp
}

// Normalizer 时间表达识别器
type Normalizer struct {
	loc *time.Location
	cfg *now.Config
}

// NewNormalizer 创建识别器，所有结果都落在 loc 时区
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{
		loc: loc,
		cfg: &now.Config{WeekStartDay: time.Monday, TimeLocation: loc},
	}
}

var (
	hoursLaterPattern   = regexp.MustCompile(`(\d+)个?(?:小时|钟头)(?:后|以后|之后)`)
	hourHalfLater       = regexp.MustCompile(`(\d+)个半(?:小时|钟头)(?:后|以后|之后)`)
	halfHourLater       = regexp.MustCompile(`半个?(?:小时|钟头)(?:后|以后|之后)`)
	minutesLaterPattern = regexp.MustCompile(`(\d+)分钟?(?:后|以后|之后)`)
	daysLaterPattern    = regexp.MustCompile(`(\d+)天(?:后|以后|之后)`)

	fullDatePattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})[日号]?`)
	isoDatePattern  = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	monthDayPattern = regexp.MustCompile(`(\d{1,2})月(\d{1,2})[日号]?`)
	dayOnlyPattern  = regexp.MustCompile(`(\d{1,2})[日号]`)
	weekdayPattern  = regexp.MustCompile(`(下个?|这个?|本|上个?)?(?:周|星期|礼拜)([1-7日天])`)
	colonClock      = regexp.MustCompile(`(\d{1,2})[:：](\d{2})`)
	chineseClock    = regexp.MustCompile(`(\d{1,2})[点时](半|1刻|3刻|(\d{1,2})分?)?`)
)

// 相对日期词，长词在前
var relativeDays = []struct {
	word   string
	offset int
}{
	{"大后天", 3}, {"后天", 2},
	{"明天", 1}, {"明日", 1}, {"明早", 1}, {"明晚", 1},
	{"今天", 0}, {"今日", 0}, {"今早", 0}, {"今晚", 0},
	{"大前天", -3}, {"前天", -2}, {"昨天", -1},
}

type period struct {
	word        string
	defaultHour int
	afternoon   bool // 钟点小于等于 12 时加 12
}

var periods = []period{
	{"凌晨", 1, false},
	{"早上", 8, false}, {"早晨", 8, false}, {"今早", 8, false}, {"明早", 8, false},
	{"上午", 9, false},
	{"中午", 12, false},
	{"下午", 15, true}, {"傍晚", 18, true},
	{"晚上", 20, true}, {"夜里", 22, true}, {"今晚", 20, true}, {"明晚", 20, true},
}

// Parse 识别 text 中的第一个时间表达，ref 为参考时间（通常是当前时间）
// 未指明日期的钟点优先解释为将来的时间
func (n *Normalizer) Parse(text string, ref time.Time) (Result, bool) {
	ref = ref.In(n.loc)
	s := normalizeNumerals(text)

	if d, found, ok := matchOffset(s); found {
		if !ok {
			return Result{}, false
		}
		return Result{Type: TypeTimestamp, Timestamp: ref.Add(d)}, true
	}
	if m := daysLaterPattern.FindStringSubmatch(s); m != nil {
		if _, ok := count(m[1], maxOffsetDays); !ok {
			return Result{}, false
		}
	}

	day, hasDay, keepClock := n.matchDate(s, ref)
	p, hasPeriod := matchPeriod(s)
	hour, minute, hasClock := matchClock(s)

	if !hasDay && !hasPeriod && !hasClock {
		return n.matchSpan(s, ref)
	}
	if !hasDay {
		day = n.cfg.With(ref).BeginningOfDay()
	}

	switch {
	case hasClock:
		if hasPeriod {
			hour = p.adjust(hour)
		}
	case hasPeriod:
		hour, minute = p.defaultHour, 0
	case keepClock:
		hour, minute = ref.Hour(), ref.Minute()
	default:
		hour, minute = defaultHour, 0
	}

	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, n.loc)
	if !hasDay && t.Before(ref) {
		if hasClock && !hasPeriod && hour < 12 && t.Add(12*time.Hour).After(ref) {
			t = t.Add(12 * time.Hour)
		} else {
			t = t.AddDate(0, 0, 1)
		}
	}
	return Result{Type: TypeTimestamp, Timestamp: t}, true
}

// Extract 返回时间点或时间段起点，未识别到时返回 nil
func (n *Normalizer) Extract(text string, ref time.Time) *time.Time {
	res, ok := n.Parse(text, ref)
	if !ok {
		return nil
	}
	t := res.Start()
	return &t
}

func (p period) adjust(hour int) int {
	switch {
	case p.afternoon && hour <= 12:
		return hour + 12
	case p.word == "中午" && hour < 11:
		return hour + 12
	}
	return hour
}

// matchOffset 识别 "N小时后"、"N分钟后" 之类的偏移
// 返回:
//   - time.Duration: 相对参考时间的偏移
//   - bool: 是否出现偏移表达
//   - bool: 偏移量是否在上限内
func matchOffset(s string) (time.Duration, bool, bool) {
	if m := hourHalfLater.FindStringSubmatch(s); m != nil {
		h, ok := count(m[1], maxOffsetHours)
		return time.Duration(h)*time.Hour + 30*time.Minute, true, ok
	}
	if m := hoursLaterPattern.FindStringSubmatch(s); m != nil {
		h, ok := count(m[1], maxOffsetHours)
		return time.Duration(h) * time.Hour, true, ok
	}
	if halfHourLater.MatchString(s) {
		return 30 * time.Minute, true, true
	}
	if m := minutesLaterPattern.FindStringSubmatch(s); m != nil {
		minutes, ok := count(m[1], maxOffsetMinutes)
		return time.Duration(minutes) * time.Minute, true, ok
	}
	return 0, false, false
}

// matchDate 识别日期部分
// 返回:
//   - time.Time: 当天零点
//   - bool: 是否识别到日期
//   - bool: 是否为 "N天后"，此时沿用参考时间的钟点
func (n *Normalizer) matchDate(s string, ref time.Time) (time.Time, bool, bool) {
	today := n.cfg.With(ref).BeginningOfDay()

	if m := fullDatePattern.FindStringSubmatch(s); m != nil {
		if t, ok := n.date(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return t, true, false
		}
	}
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		if t, ok := n.date(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return t, true, false
		}
	}
	if m := monthDayPattern.FindStringSubmatch(s); m != nil {
		if t, ok := n.date(today.Year(), atoi(m[1]), atoi(m[2])); ok {
			if t.Before(today) {
				t = t.AddDate(1, 0, 0)
			}
			return t, true, false
		}
	}
	if m := daysLaterPattern.FindStringSubmatch(s); m != nil {
		return today.AddDate(0, 0, atoi(m[1])), true, true
	}
	for _, rd := range relativeDays {
		if strings.Contains(s, rd.word) {
			return today.AddDate(0, 0, rd.offset), true, false
		}
	}
	if m := weekdayPattern.FindStringSubmatch(s); m != nil {
		return n.weekday(m[1], m[2], today), true, false
	}
	if m := dayOnlyPattern.FindStringSubmatch(s); m != nil {
		if t, ok := n.date(today.Year(), int(today.Month()), atoi(m[1])); ok {
			if t.Before(today) {
				t = t.AddDate(0, 1, 0)
			}
			return t, true, false
		}
	}
	return time.Time{}, false, false
}

func (n *Normalizer) weekday(prefix, day string, today time.Time) time.Time {
	wd := 7
	if day != "日" && day != "天" {
		wd = atoi(day)
	}
	monday := n.cfg.With(today).BeginningOfWeek()
	t := monday.AddDate(0, 0, wd-1)

	switch strings.TrimSuffix(prefix, "个") {
	case "下":
		return t.AddDate(0, 0, 7)
	case "上":
		return t.AddDate(0, 0, -7)
	case "这", "本":
		return t
	}
	if t.Before(today) {
		t = t.AddDate(0, 0, 7)
	}
	return t
}

func (n *Normalizer) date(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, n.loc)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func matchPeriod(s string) (period, bool) {
	for _, p := range periods {
		if strings.Contains(s, p.word) {
			return p, true
		}
	}
	return period{}, false
}

func matchClock(s string) (int, int, bool) {
	if m := colonClock.FindStringSubmatch(s); m != nil {
		h, minute := atoi(m[1]), atoi(m[2])
		if h <= 24 && minute < 60 {
			return h, minute, true
		}
	}
	if m := chineseClock.FindStringSubmatch(s); m != nil {
		h := atoi(m[1])
		if h > 24 {
			return 0, 0, false
		}
		minute := 0
		switch m[2] {
		case "":
		case "半":
			minute = 30
		case "1刻":
			minute = 15
		case "3刻":
			minute = 45
		default:
			minute = atoi(m[3])
		}
		if minute >= 60 {
			return 0, 0, false
		}
		return h, minute, true
	}
	return 0, 0, false
}

// 时间段关键词，长词在前
var spans = []struct {
	words []string
	build func(n *now.Now) [2]time.Time
}{
	{[]string{"下周末", "下个周末"}, func(c *now.Now) [2]time.Time {
		sat := c.BeginningOfWeek().AddDate(0, 0, 12)
		return [2]time.Time{sat, c.EndOfWeek().AddDate(0, 0, 7)}
	}},
	{[]string{"周末"}, func(c *now.Now) [2]time.Time {
		return [2]time.Time{c.BeginningOfWeek().AddDate(0, 0, 5), c.EndOfWeek()}
	}},
	{[]string{"下周", "下个星期", "下星期", "下个礼拜", "下礼拜"}, func(c *now.Now) [2]time.Time {
		return [2]time.Time{c.BeginningOfWeek().AddDate(0, 0, 7), c.EndOfWeek().AddDate(0, 0, 7)}
	}},
	{[]string{"本周", "这周", "这个星期", "这星期", "本星期", "这个礼拜"}, func(c *now.Now) [2]time.Time {
		return [2]time.Time{c.BeginningOfWeek(), c.EndOfWeek()}
	}},
	{[]string{"下个月", "下月"}, func(c *now.Now) [2]time.Time {
		start := c.BeginningOfMonth().AddDate(0, 1, 0)
		return [2]time.Time{start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
	}},
	{[]string{"月底", "月末"}, func(c *now.Now) [2]time.Time {
		end := c.EndOfMonth()
		return [2]time.Time{now.With(end).BeginningOfDay(), end}
	}},
	{[]string{"本月", "这个月"}, func(c *now.Now) [2]time.Time {
		return [2]time.Time{c.BeginningOfMonth(), c.EndOfMonth()}
	}},
	{[]string{"年底", "年末"}, func(c *now.Now) [2]time.Time {
		end := c.EndOfYear()
		return [2]time.Time{now.With(end).BeginningOfMonth(), end}
	}},
}

func (n *Normalizer) matchSpan(s string, ref time.Time) (Result, bool) {
	for _, span := range spans {
		for _, w := range span.words {
			if strings.Contains(s, w) {
				return Result{Type: TypeTimespan, Timespan: span.build(n.cfg.With(ref))}, true
			}
		}
	}
	return Result{}, false
}

// 相对偏移的上限，超出时整句视为无法识别
const (
	maxOffsetDays    = 3660
	maxOffsetHours   = maxOffsetDays * 24
	maxOffsetMinutes = maxOffsetHours * 60
)

// count 解析偏移量，非法或超过 limit 时返回 false
func count(digits string, limit int) (int, bool) {
	v, err := strconv.Atoi(digits)
	if err != nil || v > limit {
		return 0, false
	}
	return v, true
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
