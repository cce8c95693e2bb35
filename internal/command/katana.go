package command

import (
	"net/url"
	"strconv"
)

// Katana is the web crawler grammar.
func Katana() *Spec {
	s := &Spec{
		Name:  "katana",
		Title: "Katana",
		Repo:  "https://github.com/projectdiscovery/katana",
		Path:  "/api/tools/katana",
		Target:   "url",
		NoTarget: "🚨 Please provide a URL with the -u flag, e.g. /katana -u https://example.com",
		NoResults: "🔍 Didn't find any URLs crawling %s.",
		Limits:    Limits{MaxInput: 1000},
		Flags: []Flag{
			{Name: "url", Aliases: []string{"u", "list"}, Kind: StringList, Check: isURLOrDomain, Bad: "Invalid URL provided"},
			{Name: "depth", Aliases: []string{"d"}, Kind: Int, MinInt: 1, MaxInt: 5},
			{Name: "jc", Kind: Bool},
			{Name: "iqp", Kind: Bool},
			{Name: "hl", Kind: Bool},
			{Name: "xhr", Kind: Bool},
			{Name: "do", Kind: Bool},
			{Name: "cs", Kind: StringList, MaxLen: 500, Check: isRegex, Bad: "Invalid crawl scope regex"},
			{Name: "cos", Kind: StringList, MaxLen: 500, Check: isRegex, Bad: "Invalid crawl out-scope regex"},
			{Name: "mr", Kind: StringList, MaxLen: 500, Check: isRegex, Bad: "Invalid match regex"},
			{Name: "fr", Kind: StringList, MaxLen: 500, Check: isRegex, Bad: "Invalid filter regex"},
			{Name: "em", Kind: StringList, Check: isExtension, Bad: "Invalid extension to match"},
			{Name: "ef", Kind: StringList, Check: isExtension, Bad: "Invalid extension to filter"},
			{Name: "mdc", Kind: String, MaxLen: 500},
			{Name: "fdc", Kind: String, MaxLen: 500},
			{Name: "timeout", Kind: Int, MinInt: 1, MaxInt: 300},
		},
		Help: "**Katana** crawls websites and collects discovered URLs.\n\n" +
			"Usage: `/katana -u https://example.com`\n\n" +
			"Flags:\n" +
			"- `-u, -list` target URL(s) to crawl (required)\n" +
			"- `-d, -depth` maximum crawl depth (max 5)\n" +
			"- `-jc` parse JavaScript for endpoints, `-xhr` extract XHR requests\n" +
			"- `-hl` headless crawling, `-iqp` ignore query parameters\n" +
			"- `-cs, -cos` in-scope and out-of-scope regex\n" +
			"- `-do` display out-of-scope URLs\n" +
			"- `-mr, -fr` match and filter output by regex\n" +
			"- `-em, -ef` match and filter output by extension\n" +
			"- `-mdc, -fdc` match and filter with DSL conditions\n" +
			"- `-timeout` request timeout in seconds (max 300)\n",
		Guide: "- -u, -list: target URLs to crawl (required)\n" +
			"- -d, -depth: maximum crawl depth, up to 5\n" +
			"- -jc: parse JavaScript for endpoints; -xhr: extract XHR requests\n" +
			"- -hl: headless crawling; -iqp: ignore query parameters\n" +
			"- -cs, -cos: crawl scope and out-of-scope regex\n" +
			"- -do: display out-of-scope URLs\n" +
			"- -mr, -fr: match and filter output by regex\n" +
			"- -em, -ef: match and filter output by file extension\n" +
			"- -mdc, -fdc: match and filter with DSL conditions\n" +
			"- -timeout: request timeout in seconds, up to 300",
		Example: `{"command": "katana -u https://example.com -d 2 -jc"}`,
	}
	s.Query = func(c *Command) url.Values {
		v := url.Values{}
		for _, u := range c.List("url") {
			v.Add("urls", u)
		}
		if c.Has("depth") {
			v.Set("depth", strconv.Itoa(c.IntOr("depth", 3)))
		}
		setBool(v, "jsCrawl", c.Bool("jc"))
		setBool(v, "ignoreQueryParams", c.Bool("iqp"))
		setBool(v, "headless", c.Bool("hl"))
		setBool(v, "xhrExtraction", c.Bool("xhr"))
		setBool(v, "displayOutScope", c.Bool("do"))
		setList(v, "crawlScope", c.List("cs"))
		setList(v, "crawlOutScope", c.List("cos"))
		setList(v, "matchRegex", c.List("mr"))
		setList(v, "filterRegex", c.List("fr"))
		setList(v, "extensionMatch", c.List("em"))
		setList(v, "extensionFilter", c.List("ef"))
		if c.Has("mdc") {
			v.Set("matchCondition", c.String("mdc"))
		}
		if c.Has("fdc") {
			v.Set("filterCondition", c.String("fdc"))
		}
		if c.Has("timeout") {
			v.Set("timeout", strconv.Itoa(c.IntOr("timeout", 15)))
		}
		return v
	}
	return s
}

func setList(v url.Values, key string, items []string) {
	for _, item := range items {
		v.Add(key, item)
	}
}
