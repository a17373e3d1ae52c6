package utils

import (
	"strconv"
	"strings"
)

// ParseQueryList handles both repeated and comma-separated query params.
// Empty entries are dropped.
// Example:
//
//	?displayname=Site A,Site B   → ["Site A","Site B"]
//	?displayname=Site A&displayname=Site B  → ["Site A","Site B"]
func ParseQueryList(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseQueryBool reads a boolean flag; absent or unparsable values are false.
func ParseQueryBool(q map[string][]string, key string) bool {
	values := q[key]
	if len(values) == 0 {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(values[0]))
	return err == nil && b
}
