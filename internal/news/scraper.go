// Package news 抓取新闻门户首页的头条链接
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/config"
)

// NotFound 所有门户都没有抓到链接时的回复
const NotFound = "未找到相关新闻"

const (
	maxLinksPerSource = 3
	minTitleRunes     = 8
	maxTitleRunes     = 40
)

// Scraper 新闻抓取器
// 各门户并行抓取、相互隔离，某个门户失败只影响它自己的段落
type Scraper struct {
	client    *http.Client
	userAgent string
	sources   []Source
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewScraper 创建抓取器
// 参数:
//   - cfg: 新闻配置（超时、User-Agent、缓存时间）
//   - sources: 门户列表，为空时使用 DefaultSources
//   - c: 结果缓存，可以为 nil
func NewScraper(cfg config.NewsConfig, sources []Source, c cache.Cache) *Scraper {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		sources:   sources,
		cache:     c,
		cacheTTL:  cfg.CacheTTL,
	}
}

// section 单个门户的抓取结果
type section struct {
	links []string
	err   error
}

// Digest 抓取所有门户并拼接成一段文本
// 格式为 "【门户】\n\n[标题](链接)..."，失败的门户输出 "【门户爬取失败: 原因]"
func (s *Scraper) Digest(ctx context.Context) string {
	if s.cache != nil {
		if digest, ok := s.cache.GetNews(ctx); ok {
			return digest
		}
	}

	sections := iter.Map(s.sources, func(src *Source) section {
		links, err := s.fetch(ctx, *src)
		return section{links: links, err: err}
	})

	var parts []string
	failed := false
	for i, sec := range sections {
		name := s.sources[i].Name
		switch {
		case sec.err != nil:
			failed = true
			log.WithError(sec.err).WithField("source", name).Warn("news source fetch failed")
			parts = append(parts, fmt.Sprintf("【%s爬取失败: %v]", name, sec.err))
		case len(sec.links) > 0:
			parts = append(parts, fmt.Sprintf("【%s】\n\n%s", name, strings.Join(sec.links, "\n\n")))
		}
	}

	if len(parts) == 0 {
		return NotFound
	}
	digest := strings.Join(parts, "\n\n")

	if s.cache != nil && !failed {
		if err := s.cache.SetNews(ctx, digest, s.cacheTTL); err != nil {
			log.WithError(err).Warn("cache news digest failed")
		}
	}
	return digest
}

// fetch 抓取单个门户首页并筛选文章链接
func (s *Scraper) fetch(ctx context.Context, src Source) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	base := src.LinkBase
	if base == "" {
		base = src.URL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}

	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if acceptLink(src, href, title) {
			links = append(links, fmt.Sprintf("[%s](%s)", title, resolve(baseURL, href)))
		}
		return len(links) < maxLinksPerSource
	})
	return links, nil
}

// acceptLink 判断链接是否像一篇新闻
func acceptLink(src Source, href, title string) bool {
	if !containsAny(href, articleMarkers) {
		return false
	}
	if containsAny(href, excludeMarkers) || containsAny(title, excludeMarkers) {
		return false
	}
	n := utf8.RuneCountInString(title)
	if n <= minTitleRunes || n >= maxTitleRunes {
		return false
	}
	if src.Strict {
		if containsAny(title, foreignChannelMarkers) || containsAny(href, foreignChannelMarkers) {
			return false
		}
		if !asciiOrHan(title) {
			return false
		}
	}
	return true
}

// resolve 将相对链接补全为绝对地址
func resolve(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return strings.TrimRight(base.String(), "/") + "/" + strings.TrimLeft(href, "/")
	}
	return base.ResolveReference(ref).String()
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func asciiOrHan(s string) bool {
	for _, r := range s {
		if r >= utf8.RuneSelf && !(r >= 0x4e00 && r <= 0x9fff) {
			return false
		}
	}
	return true
}
