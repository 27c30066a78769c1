package resolver

import "strings"

// combinedSuffix is the qualifier probe sheets append to merged-chromosome probes.
const combinedSuffix = ", combined chrs"

// FallbackTerms returns the queries tried for a probe name, in order: the
// full probe name with its qualifier stripped, then the same phrase with
// trailing words removed one at a time. Duplicates are skipped.
func FallbackTerms(probe string) []string {
	probe = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(probe), combinedSuffix))
	if probe == "" {
		return nil
	}

	terms := []string{probe}
	words := strings.Fields(probe)
	for n := len(words); n > 0; n-- {
		term := strings.Join(words[:n], " ")
		if term != terms[len(terms)-1] {
			terms = append(terms, term)
		}
	}
	return terms
}
