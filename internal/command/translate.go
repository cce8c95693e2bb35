package command

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*?\}`)

// TranslatePrompt builds the instruction that asks the model to turn a
// natural-language request into this tool's flag syntax. The reply must
// contain a JSON object so ExtractCommand can find it.
func (s *Spec) TranslatePrompt(query string) string {
	return fmt.Sprintf(
		"Translate the user's request into a %[1]s command.\n\n"+
			"Query: \"%[2]s\"\n\n"+
			"ALWAYS respond inside a code block in this exact format:\n"+
			"```json\n{\"command\": \"%[1]s [flags]\"}\n```\n\n"+
			"Replace [flags] with options from the list below. Include a flag "+
			"only when the request calls for it, and never invent flags that "+
			"are not listed.\n\n"+
			"Available flags:\n%[3]s\n\n"+
			"Example:\n```json\n%[4]s\n```",
		s.Name, query, s.Guide, s.Example)
}

// ExtractCommand pulls the translated command out of a model reply.
func ExtractCommand(reply string) (string, bool) {
	for _, m := range jsonBlockRe.FindAllString(reply, -1) {
		var payload struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal([]byte(m), &payload); err == nil && payload.Command != "" {
			return payload.Command, true
		}
	}
	return "", false
}
