// Package env expands ${env.KEY} references in configuration text.
package env

import (
	"os"
	"strings"
)

const prefix = "${env."

// Expand replaces every ${env.KEY} with the value of KEY, or "" when unset.
func Expand(text string) string {
	return ExpandWith(text, os.LookupEnv)
}

// ExpandWith is Expand with a custom lookup.  A reference whose key is not
// made of letters, digits or '_' is kept literally; scanning resumes after
// its prefix so nested references still expand.
func ExpandWith(text string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for {
		start := strings.Index(text, prefix)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		rest := text[start+len(prefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(text[start:])
			return b.String()
		}
		key := rest[:end]
		if !validKey(key) {
			b.WriteString(prefix)
			text = rest
			continue
		}
		if value, ok := lookup(key); ok {
			b.WriteString(value)
		}
		text = rest[end+1:]
	}
}

func validKey(key string) bool {
	for _, r := range key {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
