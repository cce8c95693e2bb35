package command

import (
	"net/url"
	"strconv"
	"strings"
)

// Naabu is the port scanner grammar.
func Naabu() *Spec {
	s := &Spec{
		Name:  "naabu",
		Title: "Naabu",
		Repo:  "https://github.com/projectdiscovery/naabu",
		Path:  "/api/tools/naabu",
		Target:   "host",
		NoTarget: "🚨 Please provide a host with the -host flag, e.g. /naabu -host example.com",
		NoResults: "🔍 Didn't find any open ports for %s.",
		Flags: []Flag{
			{Name: "host", Kind: StringList, MaxItems: 100, Check: isHostOrIP, Bad: "Invalid host provided"},
			{Name: "port", Aliases: []string{"p"}, Kind: StringList, Check: isPortRange, Bad: "Invalid port or range provided"},
			{Name: "top-ports", Aliases: []string{"tp"}, Kind: String, Check: func(v string) bool { return v == "100" || v == "1000" }, Bad: "Invalid top-ports value, only 100 or 1000 are allowed"},
			{Name: "exclude-ports", Aliases: []string{"ep"}, Kind: StringList, Check: isPortRange, Bad: "Invalid exclude port provided"},
			{Name: "port-threshold", Aliases: []string{"pts"}, Kind: Int, MinInt: 1, MaxInt: 65535},
			{Name: "ec", Kind: Bool},
			{Name: "cdn", Kind: Bool},
			{Name: "sa", Kind: Bool},
			{Name: "sn", Kind: Bool},
			{Name: "Pn", Kind: Bool},
			{Name: "pe", Kind: Bool},
			{Name: "pp", Kind: Bool},
			{Name: "pm", Kind: Bool},
			{Name: "arp", Kind: Bool},
			{Name: "nd", Kind: Bool},
			{Name: "rev-ptr", Kind: Bool},
			{Name: "timeout", Kind: Int, MinInt: 1, MaxInt: 90},
			{Name: "json", Aliases: []string{"j"}, Kind: Bool},
		},
		Help: "**Naabu** is a fast port scanner built around SYN/CONNECT/UDP probes.\n\n" +
			"Usage: `/naabu -host example.com -p 80,443`\n\n" +
			"Flags:\n" +
			"- `-host` hosts to scan, comma separated (required)\n" +
			"- `-p, -port` ports or ranges, e.g. `80,443,8000-8100`\n" +
			"- `-tp, -top-ports` scan the top 100 or 1000 ports\n" +
			"- `-ep, -exclude-ports` ports to skip\n" +
			"- `-pts, -port-threshold` skip hosts exposing more open ports than this\n" +
			"- `-ec` exclude CDN/WAF hosts, `-cdn` display CDN in output\n" +
			"- `-sn` host discovery only, `-Pn` skip host discovery\n" +
			"- `-pe, -pp, -pm` ICMP echo/timestamp/address-mask probes\n" +
			"- `-arp, -nd, -rev-ptr` ARP ping, ND ping, reverse PTR lookup\n" +
			"- `-sa` scan all IPs of a host\n" +
			"- `-timeout` per-probe timeout in seconds (max 90)\n" +
			"- `-j, -json` raw JSONL output\n",
		Guide: "- -host: hosts to scan, comma separated (required)\n" +
			"- -p, -port: ports or port ranges to scan, e.g. 80,443,8000-8100\n" +
			"- -tp, -top-ports: scan the top 100 or 1000 ports\n" +
			"- -ep, -exclude-ports: ports to leave out of the scan\n" +
			"- -pts, -port-threshold: skip hosts with more open ports than this\n" +
			"- -ec: exclude CDN/WAF hosts; -cdn: display CDN in output\n" +
			"- -sn: host discovery only; -Pn: skip host discovery\n" +
			"- -pe, -pp, -pm: ICMP echo, timestamp and address mask probes\n" +
			"- -arp, -nd, -rev-ptr: ARP ping, ND ping, reverse PTR lookup\n" +
			"- -sa: scan all IPs of the host\n" +
			"- -timeout: probe timeout in seconds (max 90)\n" +
			"- -j: output raw JSON lines",
		Example: `{"command": "naabu -host example.com -p 80,443"}`,
	}
	s.Query = func(c *Command) url.Values {
		v := url.Values{}
		v.Set("host", strings.Join(c.List("host"), ","))
		if p := c.List("port"); len(p) > 0 {
			v.Set("port", strings.Join(p, ","))
		}
		if c.Has("top-ports") {
			v.Set("topPorts", c.String("top-ports"))
		}
		if ep := c.List("exclude-ports"); len(ep) > 0 {
			v.Set("excludePorts", strings.Join(ep, ","))
		}
		if c.Has("port-threshold") {
			v.Set("portThreshold", strconv.Itoa(c.IntOr("port-threshold", 0)))
		}
		setBool(v, "excludeCDN", c.Bool("ec"))
		setBool(v, "displayCDN", c.Bool("cdn"))
		setBool(v, "scanAllIPs", c.Bool("sa"))
		setBool(v, "hostDiscovery", c.Bool("sn"))
		setBool(v, "skipHostDiscovery", c.Bool("Pn"))
		setBool(v, "probeIcmpEcho", c.Bool("pe"))
		setBool(v, "probeIcmpTimestamp", c.Bool("pp"))
		setBool(v, "probeIcmpAddressMask", c.Bool("pm"))
		setBool(v, "arpPing", c.Bool("arp"))
		setBool(v, "ndPing", c.Bool("nd"))
		setBool(v, "revPtr", c.Bool("rev-ptr"))
		if c.Has("timeout") {
			// backend expects milliseconds
			v.Set("timeout", strconv.Itoa(c.IntOr("timeout", 10)*1000))
		}
		setBool(v, "outputJson", c.Bool("json"))
		return v
	}
	return s
}
