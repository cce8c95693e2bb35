package plugin

import (
	"fmt"
	"strings"
	"time"

	"github.com/hackmate-ai/hackmate/internal/command"
)

const defaultTruncateAt = 50000

// BuildReport renders the backend payload as a markdown scan report.
func BuildReport(cmd *command.Command, output string, now time.Time) string {
	spec := cmd.Spec

	limit := spec.TruncateAt
	if limit == 0 {
		limit = defaultTruncateAt
	}
	truncated := false
	if len(output) > limit {
		output = output[:limit]
		// Cut on a line boundary so the fenced block stays readable.
		if i := strings.LastIndexByte(output, '\n'); i > 0 {
			output = output[:i]
		}
		truncated = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## [%s](%s) Scan Results\n\n", spec.Title, spec.Repo)
	fmt.Fprintf(&b, "**Target**: \"%s\"\n\n", cmd.Target())
	fmt.Fprintf(&b, "**Scan Date and Time**: %s\n\n", now.UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("### Identified Results:\n")
	b.WriteString("```\n")
	b.WriteString(output)
	b.WriteString("\n```\n")
	if truncated {
		b.WriteString("\n_Output was truncated to keep the report readable._\n")
	}
	return b.String()
}

// analysisPrompt asks the model to summarize a finished scan for the user.
func analysisPrompt(cmd *command.Command, output string) string {
	return fmt.Sprintf(
		"A %s scan of %q just finished. Based only on the raw results below, "+
			"give the user a short summary of what was found and anything "+
			"worth following up on. Do not repeat the full result list.\n\n%s",
		cmd.Spec.Title, cmd.Target(), output)
}
