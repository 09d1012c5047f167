package sync

import (
	"regexp"
	"strings"
)

// Ordered surface patterns for guessing an assignee out of free-form action
// item text. The order is part of the contract: the first matching pattern
// wins, and the heuristic accepts false positives ("Monday to Friday" yields
// "Monday") in exchange for determinism.
var assigneePatterns = []*regexp.Regexp{
	// @mention; a second token is taken only when it looks like a name part,
	// so trailing prose ("@Jane please review") is not swallowed
	regexp.MustCompile(`@(\w+(?:\s+[A-Z]\w+)?)`),
	// first bracketed span
	regexp.MustCompile(`\[([^\]]+)\]`),
	// "assigned to Name" / "assigned: Name"
	regexp.MustCompile(`[Aa]ssigned\s*(?:to\s+)?:?\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	// leading "Name:"
	regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*:`),
	// leading "Name to|will|should|needs to ..."
	regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?:to|will|should|needs to)\s+`),
}

// ExtractAssignee guesses an assignee name from action item text. Returns ""
// when no pattern matches.
func ExtractAssignee(text string) string {
	for _, re := range assigneePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
