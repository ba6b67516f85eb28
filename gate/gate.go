// Package gate decides whether the assistant may run a tool call, most
// importantly shell commands issued by sub-agents.
package gate

import (
	"context"
	"encoding/json"
)

// Decision is the outcome of a gate check.
type Decision int

const (
	Allow Decision = iota // execution is permitted
	Deny                  // execution is blocked
	Ask                   // the user must confirm first
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Ask:
		return "ask"
	default:
		return "unknown"
	}
}

// Mode controls the default gating behavior when no callback or rule applies.
type Mode int

const (
	ModeDefault  Mode = iota // read=allow, write/shell=ask
	ModeAutoEdit             // read+write=allow, shell=ask
	ModeBypass               // all=allow
	ModeReadOnly             // read=allow, write+shell=deny
)

// Func is a user-provided gate callback. It receives the tool name and raw
// input and returns a Decision.
type Func func(ctx context.Context, toolName string, input json.RawMessage) (Decision, error)

// ReadTools lists tools that never mutate state. Always allowed in Default
// and AutoEdit modes.
var ReadTools = map[string]bool{
	"read_file":   true,
	"list_folder": true,
	"search":      true,
}

// WriteTools lists tools that modify files. Allowed in AutoEdit mode.
var WriteTools = map[string]bool{
	"write_file": true,
	"edit_file":  true,
}

// Gate evaluates tool calls against rules, a callback and a mode, in that
// order of precedence.
type Gate struct {
	mode     Mode
	rules    []Rule
	callback Func // optional, overrides mode-based defaults
}

// NewGate creates a Gate with the given mode and optional callback.
func NewGate(mode Mode, callback Func) *Gate {
	return &Gate{mode: mode, callback: callback}
}

// AddRules appends declarative rules. Rules are consulted before the
// callback and before mode defaults.
func (g *Gate) AddRules(rules ...Rule) {
	g.rules = append(g.rules, rules...)
}

// Check evaluates whether the named tool with the given input may run.
func (g *Gate) Check(ctx context.Context, toolName string, input json.RawMessage) (Decision, error) {
	if d, matched := MatchRules(g.rules, toolName); matched {
		return d, nil
	}

	if g.callback != nil {
		return g.callback(ctx, toolName, input)
	}

	switch g.mode {
	case ModeBypass:
		return Allow, nil
	case ModeReadOnly:
		if ReadTools[toolName] {
			return Allow, nil
		}
		return Deny, nil
	case ModeAutoEdit:
		if ReadTools[toolName] || WriteTools[toolName] {
			return Allow, nil
		}
		return Ask, nil
	default: // ModeDefault
		if ReadTools[toolName] {
			return Allow, nil
		}
		return Ask, nil
	}
}

// Mode returns the current gating mode.
func (g *Gate) Mode() Mode {
	return g.mode
}

// SetMode updates the gating mode.
func (g *Gate) SetMode(mode Mode) {
	g.mode = mode
}
