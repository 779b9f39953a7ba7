package news

// Source 新闻门户
type Source struct {
	Name string
	URL  string
	// LinkBase 解析相对链接时使用的基准地址，为空时使用 URL
	LinkBase string
	// Strict 额外过滤外文频道，并要求标题只含 ASCII 和汉字
	Strict bool
}

// DefaultSources 默认抓取的门户，输出顺序与此一致
var DefaultSources = []Source{
	{Name: "人民网", URL: "http://www.people.com.cn/"},
	{Name: "凤凰网", URL: "https://www.ifeng.com/"},
	{Name: "新华网", URL: "https://www.news.cn/?lan=zh", LinkBase: "https://www.news.cn/", Strict: true},
}

// 链接必须包含其一才被视为文章
var articleMarkers = []string{"news", "article", "content", "/c/", "/a/", "/n1/", "/politics/"}

// 链接或标题包含其一即视为推广、导航
var excludeMarkers = []string{"邮箱", "注册", "download", "专题", "index.html", "平台", "报告", "发布", "体验中心"}

// 新华网的外文频道入口
var foreignChannelMarkers = []string{"Русский язык", "Português"}
