package events

import "strings"

// Match evaluates a routing key against a binding pattern using topic
// semantics: segments are dot-separated, "*" matches exactly one non-empty
// segment, "#" matches zero or more segments. A bare "#" matches every
// key, including the empty one.
func Match(pattern, key string) bool {
	return matchSegments(splitKey(pattern), splitKey(key))
}

func splitKey(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func matchSegments(pattern, key []string) bool {
	for {
		if len(pattern) == 0 {
			return len(key) == 0
		}

		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchSegments(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 || key[0] == "" {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}

		pattern = pattern[1:]
		key = key[1:]
	}
}
