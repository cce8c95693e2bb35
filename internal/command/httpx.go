package command

import (
	"net/url"
	"strconv"
	"strings"
)

// HTTPX is the HTTP probe grammar.
func HTTPX() *Spec {
	s := &Spec{
		Name:  "httpx",
		Title: "HTTPX",
		Repo:  "https://github.com/projectdiscovery/httpx",
		Path:  "/api/tools/httpx",
		Target:   "target",
		NoTarget: "🚨 Please provide a target with the -u flag, e.g. /httpx -u example.com",
		NoResults: "🔍 Didn't find any live hosts for %s.",
		Limits:    Limits{MaxInput: 1000},
		Flags: []Flag{
			{Name: "target", Aliases: []string{"u"}, Kind: StringList, Check: isURLOrDomain, Bad: "Invalid target provided"},
			{Name: "sc", Aliases: []string{"status-code"}, Kind: Bool},
			{Name: "cl", Aliases: []string{"content-length"}, Kind: Bool},
			{Name: "ct", Aliases: []string{"content-type"}, Kind: Bool},
			{Name: "location", Kind: Bool},
			{Name: "favicon", Kind: Bool},
			{Name: "jarm", Kind: Bool},
			{Name: "rt", Aliases: []string{"response-time"}, Kind: Bool},
			{Name: "lc", Aliases: []string{"line-count"}, Kind: Bool},
			{Name: "wc", Aliases: []string{"word-count"}, Kind: Bool},
			{Name: "title", Kind: Bool},
			{Name: "server", Aliases: []string{"web-server"}, Kind: Bool},
			{Name: "td", Aliases: []string{"tech-detect"}, Kind: Bool},
			{Name: "method", Kind: Bool},
			{Name: "websocket", Kind: Bool},
			{Name: "ip", Kind: Bool},
			{Name: "cname", Kind: Bool},
			{Name: "asn", Kind: Bool},
			{Name: "cdn", Kind: Bool},
			{Name: "probe", Kind: Bool},
			{Name: "bp", Aliases: []string{"body-preview"}, Kind: Int, MinInt: 1, MaxInt: 1000},
			{Name: "mc", Aliases: []string{"match-code"}, Kind: StringList, Check: isStatusCode, Bad: "Invalid status code to match"},
			{Name: "ml", Aliases: []string{"match-length"}, Kind: StringList, Check: isPositiveInt, Bad: "Invalid content length to match"},
			{Name: "mlc", Aliases: []string{"match-line-count"}, Kind: StringList, Check: isPositiveInt, Bad: "Invalid line count to match"},
			{Name: "mwc", Aliases: []string{"match-word-count"}, Kind: StringList, Check: isPositiveInt, Bad: "Invalid word count to match"},
			{Name: "fc", Aliases: []string{"filter-code"}, Kind: StringList, Check: isStatusCode, Bad: "Invalid status code to filter"},
			{Name: "ms", Aliases: []string{"match-string"}, Kind: String, MaxLen: 500},
			{Name: "mr", Aliases: []string{"match-regex"}, Kind: String, MaxLen: 500, Check: isRegex, Bad: "Invalid match regex"},
			{Name: "hash", Kind: String, MaxLen: 128, Check: isHexHash, Bad: "Invalid hash provided"},
			{Name: "timeout", Kind: Int, MinInt: 1, MaxInt: 90},
			{Name: "json", Kind: Bool},
		},
		Help: "**HTTPX** probes hosts and reports live HTTP services.\n\n" +
			"Usage: `/httpx -u example.com -sc -title`\n\n" +
			"Flags:\n" +
			"- `-u, -target` hosts or URLs to probe (required)\n" +
			"- `-sc, -cl, -ct, -location` status code, content length, content type, redirect location\n" +
			"- `-title, -server, -td, -method` page title, web server, technology, request method\n" +
			"- `-ip, -cname, -asn, -cdn` network details per host\n" +
			"- `-favicon, -jarm, -websocket, -probe` extra fingerprinting probes\n" +
			"- `-rt, -lc, -wc` response time, line count, word count\n" +
			"- `-bp, -body-preview` first N body bytes (max 1000)\n" +
			"- `-mc, -ml, -mlc, -mwc, -ms, -mr` match responses by code/length/counts/string/regex\n" +
			"- `-fc` filter out status codes\n" +
			"- `-hash` match response body hash\n" +
			"- `-timeout` probe timeout in seconds (max 90)\n" +
			"- `-json` raw JSONL output\n",
		Guide: "- -u, -target: hosts or URLs to probe (required)\n" +
			"- -sc: status code; -cl: content length; -ct: content type; -location: redirect location\n" +
			"- -title: page title; -server: web server; -td: technology detection; -method: request method\n" +
			"- -ip, -cname, -asn, -cdn: network details for each host\n" +
			"- -favicon, -jarm, -websocket, -probe: extra fingerprinting probes\n" +
			"- -rt: response time; -lc: line count; -wc: word count\n" +
			"- -bp: include the first N bytes of the response body, up to 1000\n" +
			"- -mc, -ml, -mlc, -mwc: match responses by status code, length, line count, word count\n" +
			"- -ms: match responses containing a string; -mr: match by regex\n" +
			"- -fc: filter out responses with these status codes\n" +
			"- -hash: match the response body hash\n" +
			"- -timeout: probe timeout in seconds, up to 90\n" +
			"- -json: output raw JSON lines",
		Example: `{"command": "httpx -u example.com -sc -title"}`,
	}
	s.Query = func(c *Command) url.Values {
		v := url.Values{}
		v.Set("target", strings.Join(c.List("target"), ","))
		setBool(v, "statusCode", c.Bool("sc"))
		setBool(v, "contentLength", c.Bool("cl"))
		setBool(v, "contentType", c.Bool("ct"))
		setBool(v, "location", c.Bool("location"))
		setBool(v, "favicon", c.Bool("favicon"))
		setBool(v, "jarm", c.Bool("jarm"))
		setBool(v, "responseTime", c.Bool("rt"))
		setBool(v, "lineCount", c.Bool("lc"))
		setBool(v, "wordCount", c.Bool("wc"))
		setBool(v, "title", c.Bool("title"))
		setBool(v, "webServer", c.Bool("server"))
		setBool(v, "techDetect", c.Bool("td"))
		setBool(v, "method", c.Bool("method"))
		setBool(v, "websocket", c.Bool("websocket"))
		setBool(v, "ip", c.Bool("ip"))
		setBool(v, "cname", c.Bool("cname"))
		setBool(v, "asn", c.Bool("asn"))
		setBool(v, "cdn", c.Bool("cdn"))
		setBool(v, "probe", c.Bool("probe"))
		if c.Has("bp") {
			v.Set("bodyPreview", strconv.Itoa(c.IntOr("bp", 0)))
		}
		setCSV(v, "matchCode", c.List("mc"))
		setCSV(v, "matchLength", c.List("ml"))
		setCSV(v, "matchLineCount", c.List("mlc"))
		setCSV(v, "matchWordCount", c.List("mwc"))
		setCSV(v, "filterCode", c.List("fc"))
		if c.Has("ms") {
			v.Set("matchString", c.String("ms"))
		}
		if c.Has("mr") {
			v.Set("matchRegex", c.String("mr"))
		}
		if c.Has("hash") {
			v.Set("hash", c.String("hash"))
		}
		if c.Has("timeout") {
			v.Set("timeout", strconv.Itoa(c.IntOr("timeout", 15)))
		}
		setBool(v, "outputJson", c.Bool("json"))
		return v
	}
	return s
}

func setCSV(v url.Values, key string, items []string) {
	if len(items) > 0 {
		v.Set(key, strings.Join(items, ","))
	}
}

func isPositiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}
