package gate

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is a declarative gate rule with glob pattern matching on tool names.
type Rule struct {
	Pattern  string   // glob pattern, e.g. "shell", "mcp__*", "write_*"
	Decision Decision // Allow, Deny, or Ask
}

// MatchRules evaluates rules against a tool name. Deny wins over Ask, Ask
// wins over Allow. Returns (decision, matched); matched is false when no
// rule's pattern applies.
func MatchRules(rules []Rule, toolName string) (Decision, bool) {
	var hasAsk, hasAllow bool

	for _, r := range rules {
		ok, err := doublestar.Match(r.Pattern, toolName)
		if err != nil || !ok {
			continue
		}
		switch r.Decision {
		case Deny:
			return Deny, true
		case Ask:
			hasAsk = true
		case Allow:
			hasAllow = true
		}
	}

	if hasAsk {
		return Ask, true
	}
	if hasAllow {
		return Allow, true
	}
	return Allow, false
}

func matchCommandWords(pattern, words []string) bool {
	for i, p := range pattern {
		if p == "*" && i == len(pattern)-1 {
			return len(words) > i
		}
		if i >= len(words) {
			return false
		}
		if p != "*" && p != words[i] {
			return false
		}
	}
	return len(words) == len(pattern)
}

// CommandRule gates shell commands by their leading words, e.g. "git status"
// allows exactly that invocation while "git *" allows any git invocation with
// at least one argument.
type CommandRule struct {
	Pattern  string
	Decision Decision
}

// MatchCommand evaluates command rules against a shell command line. Matching
// is word-wise: each pattern word must equal the corresponding command word,
// "*" matches any single word, and a trailing "*" matches the whole remainder.
// Words may contain slashes, so command lines with paths match as expected.
// Precedence follows MatchRules: Deny > Ask > Allow.
func MatchCommand(rules []CommandRule, command string) (Decision, bool) {
	words := strings.Fields(command)

	var hasAsk, hasAllow bool
	for _, r := range rules {
		if !matchCommandWords(strings.Fields(r.Pattern), words) {
			continue
		}
		switch r.Decision {
		case Deny:
			return Deny, true
		case Ask:
			hasAsk = true
		case Allow:
			hasAllow = true
		}
	}

	if hasAsk {
		return Ask, true
	}
	if hasAllow {
		return Allow, true
	}
	return Allow, false
}
