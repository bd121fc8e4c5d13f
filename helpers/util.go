package helpers

import "strings"

// LastSplitPart returns the part of target after the final separator,
// or target itself when the separator does not occur
func LastSplitPart(target string, separate string) string {
	parts := strings.Split(target, separate)
	return parts[len(parts)-1]
}
