package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Fepozopo/localeq/pkg/stdimg"
)

// ArgKind is how a command argument is parsed.
type ArgKind string

const (
	ArgInt    ArgKind = "int"
	ArgString ArgKind = "string"
	ArgEnum   ArgKind = "enum"
)

// ArgRule is the checked form of a stdimg.ArgSpec.
type ArgRule struct {
	Kind     ArgKind  `json:"kind"`
	Required bool     `json:"required"`
	Min      *int64   `json:"min,omitempty"`
	Max      *int64   `json:"max,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Default  string   `json:"default,omitempty"`
	Help     string   `json:"help,omitempty"`
}

func limit(v int64) *int64 { return &v }

// argLimits bounds integer arguments by name.
var argLimits = map[string][2]*int64{
	"radius":  {limit(0), nil},
	"workers": {limit(0), limit(1024)},
	"bins":    {limit(1), limit(256)},
}

// argChoices lists the accepted values of enum arguments by name.
var argChoices = map[string][]string{
	"mode": localModeNames(),
}

func localModeNames() []string {
	names := make([]string, len(stdimg.LocalModes))
	for i, m := range stdimg.LocalModes {
		names[i] = string(m)
	}
	return names
}

func argKind(t string) ArgKind {
	switch strings.ToLower(t) {
	case "int":
		return ArgInt
	case "enum":
		return ArgEnum
	}
	return ArgString
}

// commandRules derives one rule per argument of c.
func commandRules(c stdimg.CommandSpec) map[string]ArgRule {
	rules := make(map[string]ArgRule, len(c.Args))
	for _, a := range c.Args {
		r := ArgRule{Kind: argKind(a.Type), Required: a.Required, Default: a.Default, Help: a.Description}
		if l, ok := argLimits[a.Name]; ok {
			r.Min, r.Max = l[0], l[1]
		}
		if r.Kind == ArgEnum {
			r.Choices = argChoices[a.Name]
		}
		rules[a.Name] = r
	}
	return rules
}

// commandHelp renders the usage line of c followed by one line per argument.
func commandHelp(c stdimg.CommandSpec) string {
	lines := []string{c.Usage}
	if c.Description != "" {
		lines = append(lines, "  "+c.Description)
	}
	for _, a := range c.Args {
		need := "optional"
		if a.Required {
			need = "required"
		}
		line := fmt.Sprintf("  %s (%s, %s)", a.Name, a.Type, need)
		if a.Description != "" {
			line += " " + a.Description
		}
		if a.Default != "" {
			line += fmt.Sprintf(" [%s]", a.Default)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// CommandStore indexes the stdimg command registry for help and argument
// checking.
type CommandStore struct {
	Commands []stdimg.CommandSpec
	byName   map[string]stdimg.CommandSpec
}

func NewCommandStore(cmds []stdimg.CommandSpec) *CommandStore {
	s := &CommandStore{Commands: cmds, byName: make(map[string]stdimg.CommandSpec, len(cmds))}
	for _, c := range cmds {
		s.byName[c.Name] = c
	}
	return s
}

// Help returns the help text and argument rules of the named command.
func (s *CommandStore) Help(name string) (string, map[string]ArgRule, error) {
	c, ok := s.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return commandHelp(c), commandRules(c), nil
}

// Normalize checks args against the named command and returns one canonical
// value per declared argument, "" where an optional one was left out.
func (s *CommandStore) Normalize(name string, args []string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("command store is nil")
	}
	c, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d args, got %d", name, len(c.Args), len(args))
	}
	rules := commandRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		raw := ""
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		v, err := normalizeArg(a.Name, rules[a.Name], raw)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func normalizeArg(name string, r ArgRule, raw string) (string, error) {
	switch r.Kind {
	case ArgInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", fmt.Errorf("parameter %s: expected integer, got %q", name, raw)
		}
		if r.Min != nil && v < *r.Min {
			return "", fmt.Errorf("parameter %s: %d < min %d", name, v, *r.Min)
		}
		if r.Max != nil && v > *r.Max {
			return "", fmt.Errorf("parameter %s: %d > max %d", name, v, *r.Max)
		}
		return strconv.FormatInt(v, 10), nil
	case ArgEnum:
		v := strings.ToLower(raw)
		if len(r.Choices) > 0 && !slices.Contains(r.Choices, v) {
			return "", fmt.Errorf("parameter %s: %q is not one of %s", name, raw, strings.Join(r.Choices, ", "))
		}
		return v, nil
	}
	return raw, nil
}
