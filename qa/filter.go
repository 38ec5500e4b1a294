package qa

import (
	"github.com/saideep872/aurora-qa/core"
)

// ByPerson narrows the corpus to messages attributed to the target person.
// Matching is diacritic-folded and case-insensitive, and a partial name
// (first name or last name only) matches full-name records. An empty target,
// or a target matching nothing, returns the corpus unchanged: broadening is
// always preferred over returning an empty set.
func ByPerson(corpus []*core.Message, targetPerson string) []*core.Message {
	matched, _ := matchByPerson(corpus, targetPerson)
	return matched
}

// matchByPerson is ByPerson plus the evidence: the bool reports whether the
// target actually matched, which the caller cannot recover from slice lengths
// alone (a target owning the whole corpus shrinks nothing).
func matchByPerson(corpus []*core.Message, targetPerson string) ([]*core.Message, bool) {
	target := core.PersonTokens(targetPerson)
	if len(target) == 0 {
		return corpus, false
	}

	matched := make([]*core.Message, 0, len(corpus))
	for _, msg := range corpus {
		if tokensSubset(target, core.PersonTokens(msg.Person)) {
			matched = append(matched, msg)
		}
	}
	if len(matched) == 0 {
		return corpus, false
	}
	return matched, true
}

// tokensSubset reports whether every token of want appears in have.
func tokensSubset(want, have []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if w == h {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ExtractTarget determines which of the known persons a question is about.
// A person whose full name appears in the question wins outright; otherwise a
// single unambiguous name-token hit ("Sophia's favorite restaurants" naming
// exactly one Sophia in the corpus) resolves to that person. Ambiguous or
// absent references return the empty string, which downstream degrades the
// name filter to a no-op.
func ExtractTarget(question string, persons []string) string {
	qTokens := core.PersonTokens(question)
	if len(qTokens) == 0 {
		return ""
	}
	qSet := make(map[string]bool, len(qTokens))
	for _, t := range qTokens {
		qSet[t] = true
	}

	var partial string
	partialCount := 0
	for _, person := range persons {
		nameTokens := core.PersonTokens(person)
		if len(nameTokens) == 0 {
			continue
		}
		full := true
		any := false
		for _, t := range nameTokens {
			if qSet[t] {
				any = true
			} else {
				full = false
			}
		}
		if full {
			return person
		}
		if any {
			partial = person
			partialCount++
		}
	}
	if partialCount == 1 {
		return partial
	}
	return ""
}
