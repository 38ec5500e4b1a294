// Copyright 2025 The Aurora Q&A Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package sanitize strips personally identifying content from message text
// before it leaves the process boundary to the reasoning backend.
//
// Sanitization is a hard privacy contract, not best-effort: every candidate
// text crossing the reasoning boundary must pass through a Policy first. The
// rules are deliberately conservative; redacting something that merely looks
// like PII is acceptable, letting real PII through is not.
package sanitize

import (
	"regexp"

	"github.com/saideep872/aurora-qa/core"
)

// Rule is a single named redaction: text matching Pattern is replaced by
// Replacement.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Policy is an ordered list of redaction rules. Order matters: broader
// patterns placed later clean up what earlier, more specific ones left.
// Policies are data, not behavior; operators may supply their own rule set
// for regional phone formats or extra identifier schemes.
type Policy struct {
	rules []Rule
}

// NewPolicy creates a policy from the given rules, applied in order.
func NewPolicy(rules ...Rule) Policy {
	return Policy{rules: rules}
}

// Rules returns the policy's rules in application order.
func (p Policy) Rules() []Rule {
	return p.rules
}

// Sanitize applies every rule to the text, in order.
func (p Policy) Sanitize(text string) string {
	for _, rule := range p.rules {
		text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
	}
	return text
}

// Findings counts, per rule name, how often each pattern occurs in the raw
// text. Used by the data-quality report to measure PII incidence; the text
// itself is not modified.
func (p Policy) Findings(text string) map[string]int {
	counts := make(map[string]int)
	for _, rule := range p.rules {
		if n := len(rule.Pattern.FindAllStringIndex(text, -1)); n > 0 {
			counts[rule.Name] += n
		}
	}
	return counts
}

// Candidates sanitizes ranked candidates into the only representation allowed
// across the reasoning boundary. Message and source ids are dropped entirely;
// the text is redacted per the policy.
func (p Policy) Candidates(candidates []core.Candidate) []core.SanitizedCandidate {
	out := make([]core.SanitizedCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = core.SanitizedCandidate{
			Person:    c.Message.Person,
			Timestamp: c.Message.Timestamp,
			Text:      p.Sanitize(c.Message.Text),
			Score:     c.Score,
		}
	}
	return out
}

// DefaultPolicy returns the standard rule set: email addresses, payment card
// numbers, SSNs, phone numbers (US-style and international prefixed),
// IPv4 addresses, long account numbers, API tokens, and password
// assignments. Card rules run before phone rules so a 16-digit card is
// redacted whole rather than partially consumed as a phone number.
func DefaultPolicy() Policy {
	return NewPolicy(
		Rule{
			Name:        "email",
			Pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			Replacement: "[EMAIL_REDACTED]",
		},
		Rule{
			Name:        "card",
			Pattern:     regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
			Replacement: "[CARD_REDACTED]",
		},
		Rule{
			Name:        "card-run",
			Pattern:     regexp.MustCompile(`\b\d{13,19}\b`),
			Replacement: "[CARD_REDACTED]",
		},
		Rule{
			Name:        "ssn",
			Pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			Replacement: "[SSN_REDACTED]",
		},
		Rule{
			Name:        "phone",
			Pattern:     regexp.MustCompile(`\b(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
			Replacement: "[PHONE_REDACTED]",
		},
		Rule{
			Name:        "ip",
			Pattern:     regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
			Replacement: "[IP_REDACTED]",
		},
		Rule{
			Name:        "account",
			Pattern:     regexp.MustCompile(`\b\d{10,}\b`),
			Replacement: "[ACCOUNT_REDACTED]",
		},
		Rule{
			Name:        "token",
			Pattern:     regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`),
			Replacement: "[TOKEN_REDACTED]",
		},
		Rule{
			Name:        "password",
			Pattern:     regexp.MustCompile(`(?i)\b(password|pwd|pass)[:\s]+[\w!@#$%^&*()+=-]{6,}`),
			Replacement: "$1: [PASSWORD_REDACTED]",
		},
	)
}
