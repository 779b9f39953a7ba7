package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/config"
)

const testUA = "pocket-assistant-test"

func portal(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUA, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func page(anchors ...string) string {
	return "<html><body>" + strings.Join(anchors, "\n") + "</body></html>"
}

func newTestScraper(sources []Source, c cache.Cache) *Scraper {
	return NewScraper(config.NewsConfig{Timeout: 2 * time.Second, UserAgent: testUA, CacheTTL: time.Minute}, sources, c)
}

func TestDigestFiltersAndOrders(t *testing.T) {
	first := portal(t, page(
		`<a href="/n1/2024/0515/c1001-1.html">国务院常务会议部署今年重点工作</a>`,
		`<a href="/n1/2024/0515/c1001-2.html">短标题</a>`,
		`<a href="/about.html">关于我们的一些非常长的介绍文字</a>`,
		`<a href="/n1/zhuanti/c1.html">专题：全国两会特别报道合集</a>`,
		`<a href="https://other.example.com/article/9">外部文章链接的标题足够长</a>`,
		`<a href="/n1/2024/0515/c1001-3.html">第三条新闻标题也足够长了</a>`,
		`<a href="/n1/2024/0515/c1001-4.html">第四条新闻不应该出现在结果</a>`,
	))
	second := portal(t, page(
		`<a href="news/abc">凤凰网的一条相对链接新闻标题</a>`,
	))

	digest := newTestScraper([]Source{
		{Name: "甲", URL: first.URL + "/"},
		{Name: "乙", URL: second.URL + "/"},
	}, nil).Digest(context.Background())

	want := "【甲】\n\n" +
		"[国务院常务会议部署今年重点工作](" + first.URL + "/n1/2024/0515/c1001-1.html)\n\n" +
		"[外部文章链接的标题足够长](https://other.example.com/article/9)\n\n" +
		"[第三条新闻标题也足够长了](" + first.URL + "/n1/2024/0515/c1001-3.html)" +
		"\n\n【乙】\n\n" +
		"[凤凰网的一条相对链接新闻标题](" + second.URL + "/news/abc)"
	assert.Equal(t, want, digest)
}

func TestDigestStrictSource(t *testing.T) {
	srv := portal(t, page(
		`<a href="/politics/ru.html">Русский язык новости сегодня</a>`,
		`<a href="/politics/pt.html">Português notícias de hoje</a>`,
		`<a href="/politics/jp.html">日本語のニュースはこちらです</a>`,
		`<a href="/politics/ok.html">新华社消息 China Daily 今日要闻</a>`,
	))

	digest := newTestScraper([]Source{
		{Name: "新华网", URL: srv.URL + "/?lan=zh", LinkBase: srv.URL + "/", Strict: true},
	}, nil).Digest(context.Background())

	assert.Equal(t, "【新华网】\n\n[新华社消息 China Daily 今日要闻]("+srv.URL+"/politics/ok.html)", digest)
}

func TestDigestIsolatesFailures(t *testing.T) {
	ok := portal(t, page(`<a href="/news/1">一条正常抓取到的新闻标题</a>`))
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	digest := newTestScraper([]Source{
		{Name: "坏", URL: broken.URL},
		{Name: "好", URL: ok.URL},
	}, nil).Digest(context.Background())

	parts := strings.SplitN(digest, "\n\n", 2)
	require.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(parts[0], "【坏爬取失败: "))
	assert.True(t, strings.HasSuffix(parts[0], "]"))
	assert.Contains(t, parts[0], "502")
	assert.True(t, strings.HasPrefix(parts[1], "【好】"))
}

func TestDigestAllEmpty(t *testing.T) {
	empty := portal(t, page(`<a href="/about">关于</a>`))
	digest := newTestScraper([]Source{
		{Name: "甲", URL: empty.URL},
		{Name: "乙", URL: empty.URL},
	}, nil).Digest(context.Background())

	assert.Equal(t, NotFound, digest)
}

func TestDigestUsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, page(`<a href="/news/1">一条可以被缓存住的新闻标题</a>`))
	}))
	defer srv.Close()

	s := newTestScraper([]Source{{Name: "甲", URL: srv.URL}}, cache.NewMemoryCache())
	first := s.Digest(context.Background())
	second := s.Digest(context.Background())

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestAcceptLinkTitleBounds(t *testing.T) {
	src := Source{Name: "甲"}
	assert.False(t, acceptLink(src, "/news/1", "八个字的新闻标题"))
	assert.True(t, acceptLink(src, "/news/1", "九个字的新闻标题啊"))
	assert.False(t, acceptLink(src, "/news/1", strings.Repeat("长", 40)))
	assert.True(t, acceptLink(src, "/news/1", strings.Repeat("长", 39)))
}
