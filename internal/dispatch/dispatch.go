// Package dispatch decides how one chat turn is handled: static text, a
// tool execution, or a plain completion.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/hackmate-ai/hackmate/internal/command"
	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/types"
)

// RequiredModel is the tier most tools are gated to.
const RequiredModel = "gpt-4"

// PlanKind discriminates Plan.
type PlanKind int

const (
	// PlanCompletion relays the conversation straight to the model.
	PlanCompletion PlanKind = iota
	// PlanStatic answers with fixed text and contacts no backend.
	PlanStatic
	// PlanTool parses and executes a tool command.
	PlanTool
	// PlanSearch answers the message from live web results.
	PlanSearch
)

// Plan is the dispatcher's decision for one message.
type Plan struct {
	Kind PlanKind
	Spec *command.Spec
	// Command is the raw command text to parse. Empty with Translate set
	// means the natural-language message must be translated first.
	Command   string
	Translate bool
	Text      string
}

// Dispatcher recognizes slash commands and explicit tool selections.
// It never mutates shared state and issues no I/O itself.
type Dispatcher struct {
	cfg      config.Config
	registry *command.Registry
}

func New(cfg config.Config, registry *command.Registry) *Dispatcher {
	return &Dispatcher{cfg: cfg, registry: registry}
}

// Dispatch maps the latest message, active model and optional toolId onto
// an execution plan.
func (d *Dispatcher) Dispatch(message, model, toolID string) Plan {
	trimmed := strings.TrimSpace(message)

	if strings.HasPrefix(trimmed, "/") {
		if isToolsCommand(trimmed) {
			return Plan{Kind: PlanStatic, Text: d.registry.Guide()}
		}
		if spec := d.registry.Recognize(trimmed); spec != nil {
			if plan, blocked := d.gate(spec, model); blocked {
				return plan
			}
			return Plan{Kind: PlanTool, Spec: spec, Command: trimmed}
		}
		// An unrecognized slash command falls through to plain chat.
		return Plan{Kind: PlanCompletion}
	}

	if toolID == types.ToolWebSearch {
		if !d.cfg.IsWebSearchEnabled() {
			return Plan{Kind: PlanStatic, Text: "The Web Browsing feature is currently disabled."}
		}
		return Plan{Kind: PlanSearch}
	}

	if toolID != "" {
		if spec := d.registry.ByID(toolID); spec != nil {
			if plan, blocked := d.gate(spec, model); blocked {
				return plan
			}
			return Plan{Kind: PlanTool, Spec: spec, Translate: true}
		}
	}
	return Plan{Kind: PlanCompletion}
}

// gate applies the feature flag and the model tier check. A blocked tool
// produces informational text, not an error.
func (d *Dispatcher) gate(spec *command.Spec, model string) (Plan, bool) {
	if !d.cfg.IsToolEnabled(spec.Name) {
		return Plan{
			Kind: PlanStatic,
			Text: fmt.Sprintf("The %s feature is currently disabled.", spec.Title),
		}, true
	}
	if !spec.ModelAgnostic && model != RequiredModel {
		return Plan{
			Kind: PlanStatic,
			Text: fmt.Sprintf("You can access [%s](%s) only with %s.", spec.Title, spec.Repo, RequiredModel),
		}, true
	}
	return Plan{}, false
}

func isToolsCommand(message string) bool {
	return strings.TrimSpace(message) == "/tools"
}
