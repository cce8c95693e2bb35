package command

import (
	"net/url"
	"strconv"
	"strings"
)

// Alterx is the subdomain wordlist/permutation generator grammar.
func Alterx() *Spec {
	s := &Spec{
		Name:  "alterx",
		Title: "Alterx",
		Repo:  "https://github.com/projectdiscovery/alterx",
		Path:  "/api/tools/alterx",
		Target:   "list",
		NoTarget: "🚨 Please provide a domain with the -l flag, e.g. /alterx -l example.com",
		ModelAgnostic: true,
		NoResults:     "🔍 Didn't generate any permutations for %s.",
		Flags: []Flag{
			{Name: "list", Aliases: []string{"l"}, Kind: StringList, Greedy: true, MaxLen: 255, Check: isDomain, Bad: "Invalid domain provided"},
			{Name: "pattern", Aliases: []string{"p"}, Kind: StringList, MaxLen: 255},
			{Name: "enrich", Aliases: []string{"en"}, Kind: Bool},
			{Name: "limit", Kind: Int, MinInt: 1, MaxInt: 1000000},
			{Name: "json", Aliases: []string{"j"}, Kind: Bool},
		},
		Help: "**Alterx** generates subdomain permutation wordlists from input domains.\n\n" +
			"Usage: `/alterx -l api.example.com`\n\n" +
			"Flags:\n" +
			"- `-l, -list` subdomains to permute (required)\n" +
			"- `-p, -pattern` custom permutation patterns\n" +
			"- `-en, -enrich` enrich with words extracted from the input\n" +
			"- `-limit` cap the number of generated permutations\n" +
			"- `-j, -json` raw JSONL output\n",
		Guide: "- -l, -list: subdomains to generate permutations for (required)\n" +
			"- -p, -pattern: custom permutation patterns\n" +
			"- -en: enrich patterns with words from the input\n" +
			"- -limit: maximum number of permutations to generate\n" +
			"- -j: output raw JSON lines",
		Example: `{"command": "alterx -l api.example.com"}`,
	}
	s.Query = func(c *Command) url.Values {
		v := url.Values{}
		v.Set("list", strings.Join(c.List("list"), ","))
		setCSV(v, "pattern", c.List("pattern"))
		setBool(v, "enrich", c.Bool("enrich"))
		if c.Has("limit") {
			v.Set("limit", strconv.Itoa(c.IntOr("limit", 0)))
		}
		setBool(v, "outputJson", c.Bool("json"))
		return v
	}
	return s
}
