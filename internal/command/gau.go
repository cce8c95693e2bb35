package command

import "net/url"

// GAU is the known-URL harvester grammar. Unlike the other tools the
// target is a bare positional token, matching the upstream CLI.
func GAU() *Spec {
	s := &Spec{
		Name:  "gau",
		Title: "GAU",
		Repo:  "https://github.com/lc/gau",
		Path:  "/api/tools/gau",
		Target:   "target",
		NoTarget: "🚨 Please provide a domain or URL, e.g. /gau example.com",
		ModelAgnostic: false,
		NoResults:     "🔍 Didn't find any URLs for %s.",
		TruncateAt:    50000,
		Limits:        Limits{MaxInput: 1000},
		Positional: &Flag{Name: "target", Check: isURLOrDomain, Bad: "Invalid domain or URL provided"},
		Flags: []Flag{
			{Name: "from", Kind: String, Check: isYearMonth, Bad: "Invalid date provided, expected YYYYMM"},
			{Name: "to", Kind: String, Check: isYearMonth, Bad: "Invalid date provided, expected YYYYMM"},
			{Name: "providers", Kind: StringList},
			{Name: "blacklist", Kind: StringList, Check: isExtension, Bad: "Invalid extension in blacklist"},
			{Name: "fc", Kind: StringList, Check: isStatusCode, Bad: "Invalid status code to filter"},
			{Name: "ft", Kind: StringList},
			{Name: "mc", Kind: StringList, Check: isStatusCode, Bad: "Invalid status code to match"},
			{Name: "mt", Kind: StringList},
			{Name: "fp", Kind: Bool},
			{Name: "subs", Kind: Bool},
			{Name: "json", Kind: Bool},
		},
		Help: "**GAU** fetches known URLs for a domain from AlienVault OTX, the Wayback Machine, Common Crawl and URLScan.\n\n" +
			"Usage: `/gau example.com`\n\n" +
			"Flags:\n" +
			"- `--from, --to` fetch URLs seen between these dates (YYYYMM)\n" +
			"- `--providers` providers to query (wayback, commoncrawl, otx, urlscan)\n" +
			"- `--blacklist` skip URLs with these extensions\n" +
			"- `--fc, --mc` filter or match by status code\n" +
			"- `--ft, --mt` filter or match by MIME type\n" +
			"- `--fp` remove different parameters of the same endpoint\n" +
			"- `--subs` include subdomains of the target\n" +
			"- `--json` raw JSONL output\n",
		Guide: "- a bare domain or URL is the target (required)\n" +
			"- --from, --to: only URLs seen between these dates, format YYYYMM\n" +
			"- --providers: providers to query (wayback, commoncrawl, otx, urlscan)\n" +
			"- --blacklist: skip URLs with these file extensions\n" +
			"- --fc, --mc: filter or match URLs by status code\n" +
			"- --ft, --mt: filter or match URLs by MIME type\n" +
			"- --fp: collapse different parameters of the same endpoint\n" +
			"- --subs: include subdomains of the target\n" +
			"- --json: output raw JSON lines",
		Example: `{"command": "gau example.com --subs"}`,
	}
	s.Query = func(c *Command) url.Values {
		v := url.Values{}
		v.Set("target", c.String("target"))
		if c.Has("from") {
			v.Set("from", c.String("from"))
		}
		if c.Has("to") {
			v.Set("to", c.String("to"))
		}
		setCSV(v, "providers", c.List("providers"))
		setCSV(v, "blacklist", c.List("blacklist"))
		setCSV(v, "filterCodes", c.List("fc"))
		setCSV(v, "filterTypes", c.List("ft"))
		setCSV(v, "matchCodes", c.List("mc"))
		setCSV(v, "matchTypes", c.List("mt"))
		setBool(v, "removeParams", c.Bool("fp"))
		setBool(v, "includeSubdomains", c.Bool("subs"))
		setBool(v, "outputJson", c.Bool("json"))
		return v
	}
	return s
}
