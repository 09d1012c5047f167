package sync

import "strings"

// ReformatName canonicalizes a display name from "Last, First" order to
// "First Last". Names without a comma are returned trimmed and otherwise
// untouched. The split is capped at the first comma, so "Doe, Jane, Jr"
// becomes "Jane, Jr Doe" rather than being mangled into three parts.
func ReformatName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if before, after, ok := strings.Cut(name, ","); ok {
		return strings.TrimSpace(after) + " " + strings.TrimSpace(before)
	}
	return name
}
