package schema

import (
	"regexp"
	"strings"
)

// shadedPrefix is the fully-shaded package prefix the unshaded vendor
// prefix is rewritten to.
const shadedPrefix = "org.apache.cassandra.spark.shaded.fourzero.cassandra."

// reCandidate matches every occurrence of the unshaded prefix; Go's
// RE2 engine has no negative lookahead, so the "not already shaded"
// condition (equivalent to `\borg\.apache\.cassandra\.(?!spark\.shaded\.)`)
// is applied by ConvertToShadedPackages inspecting what immediately
// follows each match instead of encoding it in the pattern.
var reCandidate = regexp.MustCompile(`\borg\.apache\.cassandra\.`)

const guard = "spark.shaded."

// ConvertToShadedPackages rewrites every occurrence of the unshaded
// vendor package prefix to the shaded prefix, leaving occurrences that
// are already followed by "spark.shaded." untouched. Applying it twice
// is a no-op.
func ConvertToShadedPackages(stmt string) string {
	idxs := reCandidate.FindAllStringIndex(stmt, -1)
	if idxs == nil {
		return stmt
	}

	var b strings.Builder
	last := 0
	for _, m := range idxs {
		start, end := m[0], m[1]
		if strings.HasPrefix(stmt[end:], guard) {
			// Already shaded (or about to be, from an overlapping
			// match further down the string) — leave it alone.
			continue
		}
		b.WriteString(stmt[last:start])
		b.WriteString(shadedPrefix)
		last = end
	}
	b.WriteString(stmt[last:])
	return b.String()
}

// IsFullyShaded reports whether stmt contains zero occurrences of the
// unshaded prefix that are not already shaded.
func IsFullyShaded(stmt string) bool {
	for _, m := range reCandidate.FindAllStringIndex(stmt, -1) {
		if !strings.HasPrefix(stmt[m[1]:], guard) {
			return false
		}
	}
	return true
}
