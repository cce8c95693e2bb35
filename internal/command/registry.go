package command

import (
	"fmt"
	"strings"
)

// Registry holds the tool grammars in recognition priority order.
type Registry struct {
	specs []*Spec
	byID  map[string]*Spec
}

func NewRegistry(specs ...*Spec) *Registry {
	r := &Registry{specs: specs, byID: make(map[string]*Spec, len(specs))}
	for _, s := range specs {
		r.byID[s.Name] = s
	}
	return r
}

// DefaultRegistry returns all supported tools.
func DefaultRegistry() *Registry {
	return NewRegistry(Subfinder(), Naabu(), Katana(), HTTPX(), GAU(), Alterx())
}

// Recognize returns the first spec whose slash command matches message.
func (r *Registry) Recognize(message string) *Spec {
	for _, s := range r.specs {
		if s.Matches(message) {
			return s
		}
	}
	return nil
}

// ByID resolves an explicit toolId selection.
func (r *Registry) ByID(id string) *Spec {
	return r.byID[id]
}

func (r *Registry) Specs() []*Spec {
	return r.specs
}

// Guide renders the static /tools help response.
func (r *Registry) Guide() string {
	var b strings.Builder
	b.WriteString("## Available Tools\n\n")
	b.WriteString("Run a tool with its slash command, or ask in plain language after selecting it.\n\n")
	for _, s := range r.specs {
		fmt.Fprintf(&b, "- **[%s](%s)**: `/%s` (`-h` for usage)\n", s.Title, s.Repo, s.Name)
	}
	b.WriteString("\nAppend `-h` to any command for its full flag reference.")
	return b.String()
}
