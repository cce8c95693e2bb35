package command

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	domainPattern = regexp.MustCompile(`^(\*\.)?([a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	ipv4Pattern   = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	urlPattern    = regexp.MustCompile(`^(https?://)?[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}(:\d{1,5})?(/[^\s]*)?$`)
	yearMonthRe   = regexp.MustCompile(`^\d{6}$`)
	hexHashRe     = regexp.MustCompile(`^[a-fA-F0-9]{1,128}$`)
	extensionRe   = regexp.MustCompile(`^[a-zA-Z0-9]{1,10}$`)
)

func isDomain(s string) bool {
	return domainPattern.MatchString(s)
}

func isHostOrIP(s string) bool {
	return isDomain(s) || ipv4Pattern.MatchString(s)
}

func isURLOrDomain(s string) bool {
	return urlPattern.MatchString(s)
}

// isPortRange accepts a single port or an inclusive "low-high" range.
func isPortRange(s string) bool {
	parts := strings.SplitN(s, "-", 2)
	lo, err := strconv.Atoi(parts[0])
	if err != nil || lo < 1 || lo > 65535 {
		return false
	}
	if len(parts) == 1 {
		return true
	}
	hi, err := strconv.Atoi(parts[1])
	return err == nil && hi >= lo && hi <= 65535
}

func isRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}

func isYearMonth(s string) bool {
	if !yearMonthRe.MatchString(s) {
		return false
	}
	month, _ := strconv.Atoi(s[4:])
	return month >= 1 && month <= 12
}

func isHexHash(s string) bool {
	return hexHashRe.MatchString(s)
}

func isExtension(s string) bool {
	return extensionRe.MatchString(s)
}

func isStatusCode(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 100 && n <= 599
}
