package timenlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shanghai = time.FixedZone("CST", 8*3600)

// 2024-05-15 是星期三
var ref = time.Date(2024, 5, 15, 10, 0, 0, 0, shanghai)

func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2024, month, day, hour, minute, 0, 0, shanghai)
}

func TestParseTimestamp(t *testing.T) {
	n := NewNormalizer(shanghai)

	cases := []struct {
		text string
		want time.Time
	}{
		{"明天下午3点开会", at(5, 16, 15, 0)},
		{"提醒我后天交报告", at(5, 17, defaultHour, 0)},
		{"大后天", at(5, 18, defaultHour, 0)},
		{"下周三上午十点面试", at(5, 22, 10, 0)},
		{"周五前完成PPT", at(5, 17, defaultHour, 0)},
		{"周一交周报", at(5, 20, defaultHour, 0)},
		{"这周一", at(5, 13, defaultHour, 0)},
		{"星期天去公园", at(5, 19, defaultHour, 0)},
		{"半小时后提醒我", at(5, 15, 10, 30)},
		{"十分钟后", at(5, 15, 10, 10)},
		{"两个小时后", at(5, 15, 12, 0)},
		{"1个半小时后", at(5, 15, 11, 30)},
		{"3天后", at(5, 18, 10, 0)},
		{"今晚8点吃饭", at(5, 15, 20, 0)},
		{"明早跑步", at(5, 16, 8, 0)},
		{"中午12点", at(5, 15, 12, 0)},
		{"三点一刻", at(5, 15, 15, 15)},
		{"9点半", at(5, 15, 21, 30)},
		{"11:30开会", at(5, 15, 11, 30)},
		{"12月25日聚餐", at(12, 25, defaultHour, 0)},
		{"二〇二四年六月一日", at(6, 1, defaultHour, 0)},
		{"2024-06-01 14:30", at(6, 1, 14, 30)},
		{"20号交房租", at(5, 20, defaultHour, 0)},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			res, ok := n.Parse(c.text, ref)
			require.True(t, ok)
			assert.Equal(t, TypeTimestamp, res.Type)
			assert.True(t, c.want.Equal(res.Timestamp), "want %s, got %s", c.want, res.Timestamp)
		})
	}
}

func TestParsePrefersFuture(t *testing.T) {
	n := NewNormalizer(shanghai)

	res, ok := n.Parse("3月1号", ref)
	require.True(t, ok)
	assert.True(t, time.Date(2025, 3, 1, defaultHour, 0, 0, 0, shanghai).Equal(res.Timestamp))

	// 已过去的钟点顺延到明天
	res, ok = n.Parse("早上7点", ref)
	require.True(t, ok)
	assert.True(t, at(5, 16, 7, 0).Equal(res.Timestamp))
}

func TestParseTimespan(t *testing.T) {
	n := NewNormalizer(shanghai)

	cases := []struct {
		text     string
		start    time.Time
		lastDate time.Time
	}{
		{"下周开会讨论", at(5, 20, 0, 0), at(5, 26, 0, 0)},
		{"这周要交", at(5, 13, 0, 0), at(5, 19, 0, 0)},
		{"周末去爬山", at(5, 18, 0, 0), at(5, 19, 0, 0)},
		{"下周末", at(5, 25, 0, 0), at(5, 26, 0, 0)},
		{"下个月体检", at(6, 1, 0, 0), at(6, 30, 0, 0)},
		{"月底前提交申请", at(5, 31, 0, 0), at(5, 31, 0, 0)},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			res, ok := n.Parse(c.text, ref)
			require.True(t, ok)
			assert.Equal(t, TypeTimespan, res.Type)
			assert.True(t, c.start.Equal(res.Timespan[0]), "start %s", res.Timespan[0])
			assert.Equal(t, c.lastDate.Day(), res.Timespan[1].Day())
			assert.Equal(t, c.lastDate.Month(), res.Timespan[1].Month())
			assert.True(t, res.Timespan[1].After(res.Timespan[0]))
			assert.True(t, c.start.Equal(res.Start()))
		})
	}
}

func TestParseNoTime(t *testing.T) {
	n := NewNormalizer(shanghai)
	for _, text := range []string{"你好", "买菜清单：鸡蛋、牛奶", "有一点累", "冰箱快空了"} {
		_, ok := n.Parse(text, ref)
		assert.False(t, ok, text)
		assert.Nil(t, n.Extract(text, ref), text)
	}
}

func TestParseRejectsHugeOffsets(t *testing.T) {
	n := NewNormalizer(shanghai)
	for _, text := range []string{
		"9999999999小时后",
		"99999999999999999999天后",
		"99999999999999999999分钟后提醒我",
		"100000天后下午3点",
	} {
		_, ok := n.Parse(text, ref)
		assert.False(t, ok, text)
	}

	res, ok := n.Parse("3660天后", ref)
	require.True(t, ok)
	assert.True(t, res.Timestamp.After(ref))
}

func TestExtract(t *testing.T) {
	n := NewNormalizer(shanghai)

	got := n.Extract("明天下午3点开会", ref)
	require.NotNil(t, got)
	assert.True(t, at(5, 16, 15, 0).Equal(*got))

	got = n.Extract("下周开会讨论", ref)
	require.NotNil(t, got)
	assert.True(t, at(5, 20, 0, 0).Equal(*got))
}

func TestNormalizeNumerals(t *testing.T) {
	assert.Equal(t, "星期3", normalizeNumerals("星期三"))
	assert.Equal(t, "25号", normalizeNumerals("二十五号"))
	assert.Equal(t, "10点", normalizeNumerals("十点"))
	assert.Equal(t, "12月", normalizeNumerals("十二月"))
	assert.Equal(t, "2024年", normalizeNumerals("二〇二四年"))
	assert.Equal(t, "2个小时", normalizeNumerals("两个小时"))
}
