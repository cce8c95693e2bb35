// Package command parses slash-command strings into validated tool
// invocations. One generic flag-table engine is instantiated per tool.
package command

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Engine-wide defaults, overridable per spec.
const (
	defaultMaxInput = 500
	defaultMaxFlags = 32
	defaultMaxToken = 500
	defaultMaxItems = 50
)

// ParseError is a user-facing parse failure. Its text is shown to the chat
// client verbatim, so it must be specific and must never leak internals.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// Invalid builds a ParseError with a formatted reason.
func Invalid(format string, args ...any) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// Kind is the value shape of a flag.
type Kind int

const (
	Bool Kind = iota
	Int
	String
	StringList
)

// Flag describes one entry of a tool's flag table.
type Flag struct {
	Name    string
	Aliases []string
	Kind    Kind
	// Greedy list flags consume following bare tokens until the next
	// flag, so "-d a.com b.com" and "-d a.com,b.com" both work.
	Greedy   bool
	MaxLen   int
	MaxItems int
	MinInt   int
	MaxInt   int
	// Check validates one element; Bad is the message prefix shown with
	// the rejected value.
	Check func(string) bool
	Bad   string
}

// Limits bound parser input. Zero fields fall back to engine defaults.
// They exist to bound memory and to keep hostile input out of the
// plugin backend URL.
type Limits struct {
	MaxInput int
	MaxFlags int
	MaxToken int
	MaxItems int
}

// Spec is a tool's complete command grammar plus the metadata the
// dispatcher and executor need.
type Spec struct {
	Name  string // command word, e.g. "naabu"
	Title string // display name, e.g. "Naabu"
	Repo  string // project homepage, linked in user-facing messages
	Path  string // plugin backend path

	Help    string
	Guide   string // flag reference embedded in the translation prompt
	Example string

	Flags      []Flag
	Positional *Flag
	Target     string // flag that must end up non-empty
	NoTarget   string

	Limits        Limits
	ModelAgnostic bool
	Summarize     bool
	NoResults     string // formatted with the target
	TruncateAt    int    // report payload cap in characters

	// Query serializes a parsed command into backend query parameters.
	// Different commands must never produce identical values.
	Query func(c *Command) url.Values
}

// Command is a successfully parsed invocation.
type Command struct {
	Spec *Spec
	Raw  string
	Help bool

	bools map[string]bool
	ints  map[string]int
	strs  map[string]string
	lists map[string][]string
}

func (c *Command) Bool(name string) bool {
	return c.bools[name]
}

func (c *Command) Has(name string) bool {
	if c.bools[name] {
		return true
	}
	if _, ok := c.ints[name]; ok {
		return true
	}
	if _, ok := c.strs[name]; ok {
		return true
	}
	return len(c.lists[name]) > 0
}

// IntOr returns the flag value, or def when the flag was not given.
func (c *Command) IntOr(name string, def int) int {
	if v, ok := c.ints[name]; ok {
		return v
	}
	return def
}

func (c *Command) String(name string) string {
	return c.strs[name]
}

func (c *Command) List(name string) []string {
	return c.lists[name]
}

// Target returns the command's primary target for report headers.
func (c *Command) Target() string {
	name := c.Spec.Target
	if name == "" {
		return ""
	}
	if v := c.strs[name]; v != "" {
		return v
	}
	return strings.Join(c.lists[name], ", ")
}

// Matches reports whether message invokes this tool as a slash command.
func (s *Spec) Matches(message string) bool {
	fields := strings.Fields(message)
	return len(fields) > 0 && fields[0] == "/"+s.Name
}

func (s *Spec) maxInput() int {
	if s.Limits.MaxInput > 0 {
		return s.Limits.MaxInput
	}
	return defaultMaxInput
}

func (s *Spec) maxFlags() int {
	if s.Limits.MaxFlags > 0 {
		return s.Limits.MaxFlags
	}
	return defaultMaxFlags
}

func (s *Spec) maxToken() int {
	if s.Limits.MaxToken > 0 {
		return s.Limits.MaxToken
	}
	return defaultMaxToken
}

func (s *Spec) lookup(name string) *Flag {
	for i := range s.Flags {
		f := &s.Flags[i]
		if f.Name == name {
			return f
		}
		for _, a := range f.Aliases {
			if a == name {
				return f
			}
		}
	}
	return nil
}

// Parse turns a raw command string into a validated Command. The leading
// "/name" or "name" word is optional so both slash commands and translated
// natural-language commands parse the same way. Parsing is deterministic
// and fails fast on the first invalid token.
func (s *Spec) Parse(raw string) (*Command, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > s.maxInput() {
		return nil, Invalid("🚨 Input command is too long (max %d characters)", s.maxInput())
	}

	args := strings.Fields(trimmed)
	if len(args) > 0 && (args[0] == "/"+s.Name || args[0] == s.Name) {
		args = args[1:]
	}

	cmd := &Command{
		Spec:  s,
		Raw:   trimmed,
		bools: make(map[string]bool),
		ints:  make(map[string]int),
		strs:  make(map[string]string),
		lists: make(map[string][]string),
	}

	for _, a := range args {
		if a == "-h" || a == "-help" || a == "--help" {
			cmd.Help = true
			return cmd, nil
		}
	}
	if len(args) > s.maxFlags() {
		return nil, Invalid("🚨 Too many parameters provided")
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			if err := s.takePositional(cmd, arg); err != nil {
				return nil, err
			}
			continue
		}

		f := s.lookup(strings.TrimLeft(arg, "-"))
		if f == nil {
			return nil, Invalid("🚨 Invalid or unrecognized flag: %s", arg)
		}
		if f.Kind == Bool {
			cmd.bools[f.Name] = true
			continue
		}

		var values []string
		if f.Greedy {
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				values = append(values, args[i])
			}
		} else if i+1 < len(args) {
			i++
			values = append(values, args[i])
		}
		if len(values) == 0 {
			return nil, Invalid("🚨 Missing value for the %s flag", arg)
		}
		if err := s.assign(cmd, f, arg, values); err != nil {
			return nil, err
		}
	}

	if s.Target != "" && cmd.Target() == "" {
		return nil, &ParseError{Reason: s.NoTarget}
	}
	return cmd, nil
}

func (s *Spec) takePositional(cmd *Command, tok string) error {
	f := s.Positional
	if f == nil {
		return Invalid("🚨 Unrecognized token: %s", tok)
	}
	if cmd.strs[f.Name] != "" {
		return Invalid("🚨 Multiple targets provided, only one is allowed")
	}
	if err := s.checkValue(f, "target", tok); err != nil {
		return err
	}
	cmd.strs[f.Name] = tok
	return nil
}

func (s *Spec) assign(cmd *Command, f *Flag, arg string, values []string) error {
	switch f.Kind {
	case Int:
		v := values[0]
		if err := s.checkValue(f, arg, v); err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Invalid("🚨 Invalid value for the %s flag: %s", arg, v)
		}
		if n < f.MinInt || (f.MaxInt > 0 && n > f.MaxInt) {
			return Invalid("🚨 The %s value must be between %d and %d", arg, f.MinInt, f.MaxInt)
		}
		cmd.ints[f.Name] = n

	case String:
		if err := s.checkValue(f, arg, values[0]); err != nil {
			return err
		}
		cmd.strs[f.Name] = values[0]

	case StringList:
		var items []string
		for _, v := range values {
			for _, item := range strings.Split(v, ",") {
				if item == "" {
					continue
				}
				if err := s.checkValue(f, arg, item); err != nil {
					return err
				}
				items = append(items, item)
			}
		}
		maxItems := f.MaxItems
		if maxItems == 0 {
			maxItems = s.Limits.MaxItems
		}
		if maxItems == 0 {
			maxItems = defaultMaxItems
		}
		existing := cmd.lists[f.Name]
		if len(existing)+len(items) > maxItems {
			return Invalid("🚨 Too many values for the %s flag (max %d)", arg, maxItems)
		}
		cmd.lists[f.Name] = append(existing, items...)
	}
	return nil
}

func (s *Spec) checkValue(f *Flag, arg, v string) error {
	maxLen := f.MaxLen
	if maxLen == 0 {
		maxLen = s.maxToken()
	}
	if len(v) > maxLen {
		return Invalid("🚨 Value for the %s flag is too long (max %d characters)", arg, maxLen)
	}
	if f.Check != nil && !f.Check(v) {
		bad := f.Bad
		if bad == "" {
			bad = "Invalid value for the " + arg + " flag"
		}
		return Invalid("🚨 %s: %s", bad, v)
	}
	return nil
}
