package ranking

import "strings"

// termSet is an ordered, de-duplicated list of lower-cased terms.
type termSet []string

// newTermSet lower-cases and trims values, dropping blanks and duplicates
// while keeping first-seen order. Blank terms are dropped because the empty
// string is a substring of everything.
func newTermSet(values []string) termSet {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make(termSet, 0, len(values))
	for _, v := range values {
		t := strings.ToLower(strings.TrimSpace(v))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// termsMatch reports whether either term contains the other.
// "react" matches "react native" and vice versa; note that "go" also matches "django".
func termsMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchTerms returns the members of terms that match at least one target, in terms order.
func matchTerms(terms, targets termSet) []string {
	matched := make([]string, 0, len(terms))
	for _, term := range terms {
		for _, target := range targets {
			if termsMatch(term, target) {
				matched = append(matched, term)
				break
			}
		}
	}
	return matched
}
