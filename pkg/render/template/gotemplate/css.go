package gotemplate

import (
	"sort"
	"strings"
)

// CSSVarsRule renders custom properties as a `:root { ... }` rule with keys
// sorted. Empty input renders nothing.
func CSSVarsRule(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}
