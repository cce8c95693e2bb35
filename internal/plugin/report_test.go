package plugin

import (
	"strings"
	"testing"
	"time"

	"github.com/hackmate-ai/hackmate/internal/command"
)

func TestBuildReport(t *testing.T) {
	cmd, err := command.Subfinder().Parse("/subfinder -d example.com")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	when := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	report := BuildReport(cmd, "a.example.com\nb.example.com", when)

	for _, want := range []string{
		"## [Subfinder](https://github.com/projectdiscovery/subfinder) Scan Results",
		`**Target**: "example.com"`,
		"**Scan Date and Time**: 2025-03-14 09:26:53 UTC",
		"### Identified Results:",
		"```\na.example.com\nb.example.com\n```",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "truncated") {
		t.Fatal("short output must not be truncated")
	}
}

func TestBuildReportTruncatesOnLineBoundary(t *testing.T) {
	cmd, err := command.Subfinder().Parse("/subfinder -d example.com")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Subfinder caps the report payload at 5000 characters.
	line := strings.Repeat("x", 99) + "\n"
	report := BuildReport(cmd, strings.Repeat(line, 80), time.Now())

	if !strings.Contains(report, "truncated") {
		t.Fatal("oversized output must carry a truncation note")
	}
	start := strings.Index(report, "```\n")
	end := strings.LastIndex(report, "\n```")
	for _, l := range strings.Split(report[start+4:end], "\n") {
		if len(l) != 99 {
			t.Fatalf("truncation must cut on a line boundary, found %d-char line", len(l))
		}
	}
	if len(report) > 6000 {
		t.Fatalf("report too large after truncation: %d", len(report))
	}
}
