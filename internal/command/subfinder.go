package command

import (
	"net/url"
	"strings"
)

// Subfinder is the passive subdomain discovery tool grammar.
func Subfinder() *Spec {
	s := &Spec{
		Name:  "subfinder",
		Title: "Subfinder",
		Repo:  "https://github.com/projectdiscovery/subfinder",
		Path:  "/api/tools/subfinder",
		Target:   "domain",
		NoTarget: "🚨 Please provide a domain with the -d flag, e.g. /subfinder -d example.com",
		ModelAgnostic: true,
		Summarize:     true,
		NoResults:     "🔍 Didn't find any subdomains for %s.",
		TruncateAt:    5000,
		Flags: []Flag{
			{Name: "domain", Aliases: []string{"d"}, Kind: StringList, Greedy: true, MaxLen: 50, Check: isDomain, Bad: "Invalid domain provided"},
			{Name: "match", Aliases: []string{"m"}, Kind: StringList, Greedy: true, MaxLen: 255, Check: isDomain, Bad: "Invalid match subdomain provided"},
			{Name: "filter", Aliases: []string{"f"}, Kind: StringList, Greedy: true, MaxLen: 255, Check: isDomain, Bad: "Invalid filter subdomain provided"},
			{Name: "cs", Aliases: []string{"collect-sources"}, Kind: Bool},
			{Name: "json", Aliases: []string{"j"}, Kind: Bool},
		},
		Help: "**Subfinder** discovers subdomains of a domain using passive sources.\n\n" +
			"Usage: `/subfinder -d example.com`\n\n" +
			"Flags:\n" +
			"- `-d, -domain` target domain(s) to enumerate (required)\n" +
			"- `-m, -match` only report subdomains matching these\n" +
			"- `-f, -filter` drop subdomains matching these\n" +
			"- `-cs, -collect-sources` include the discovery source per result\n" +
			"- `-j, -json` raw JSONL output\n",
		Guide: "- -d, -domain: the domain to find subdomains for (required)\n" +
			"- -m, -match: keep only subdomains matching the given list\n" +
			"- -f, -filter: drop subdomains matching the given list\n" +
			"- -cs: include the source of each discovered subdomain\n" +
			"- -j: output raw JSON lines",
		Example: `{"command": "subfinder -d example.com"}`,
	}
	s.Query = func(c *Command) url.Values {
		v := url.Values{}
		v.Set("domain", strings.Join(c.List("domain"), ","))
		if m := c.List("match"); len(m) > 0 {
			v.Set("match", strings.Join(m, ","))
		}
		if f := c.List("filter"); len(f) > 0 {
			v.Set("filter", strings.Join(f, ","))
		}
		setBool(v, "includeSources", c.Bool("cs"))
		setBool(v, "outputJson", c.Bool("json"))
		return v
	}
	return s
}

func setBool(v url.Values, key string, on bool) {
	if on {
		v.Set(key, "true")
	}
}
