package memory

// keyPrefix marks entries written by completed sub-agents.
const keyPrefix = "subagent:"

// maxKeyChars bounds the sanitized portion of a namespaced key.
const maxKeyChars = 40

// NamespacedKey derives the storage key for a task result from its
// description: "subagent:" + sanitized description truncated to 40
// characters. The derivation is deterministic and idempotent, so the same
// description always maps to the same key.
func NamespacedKey(taskDescription string) string {
	return keyPrefix + truncate(sanitize(taskDescription), maxKeyChars)
}

// sanitize replaces every character outside [A-Za-z0-9_] with '_'.
func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
