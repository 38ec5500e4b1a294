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

package qa

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/saideep872/aurora-qa/ai"
	"github.com/saideep872/aurora-qa/core"
)

const synthesizerSystemPrompt = `You are a helpful assistant that answers questions based on member messages.
Your task:
1. Read and understand the relevant messages
2. Analyze what the question is asking
3. Extract or infer the answer from the messages
4. Provide a clear, direct answer (NOT just repeating the message text)

For different question types:
- Temporal questions ("when", "what time"): Extract dates/times and answer directly
- Aggregations ("how many", "what are favorites", "list"): Analyze ALL relevant messages and summarize/aggregate
- Counting questions ("how many cars", "how many restaurants"): Count items mentioned across ALL messages
- Specific facts: Extract the exact information requested

IMPORTANT:
- If asked "how many cars" or similar counting questions, look through ALL messages for mentions of that topic
- If asked about "favorites" or lists, aggregate all mentions from ALL messages
- If the question asks about something that might be across multiple messages, check ALL provided messages
- For counting questions, count each distinct mention (e.g., if someone mentions "3 cars", count that as 3)

Note: If you see [REDACTED] markers in messages, that indicates sensitive information that has been masked.
Do not attempt to extract or mention the redacted information.

Answer format: Be concise and natural, as if you're directly answering the question.
Do NOT start with "According to..." or "The message says...". Just answer naturally.`

const countingInstruction = `
This is a counting question. After your answer, add a final line of the form
COUNT: <number>
containing only the total as digits.`

// NotFoundAnswer is the phrasing the reasoning backend is instructed to use
// when the candidate messages do not contain the requested information.
const NotFoundAnswer = "I couldn't find that information in the messages."

var countLinePattern = regexp.MustCompile(`(?im)^\s*COUNT:\s*(\d+)\s*$`)

// Synthesizer builds bounded prompts from sanitized candidates and invokes
// the reasoning backend to produce a direct answer.
type Synthesizer struct {
	reasoner ai.Reasoner
	logger   *slog.Logger
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer) error

// WithSynthesizerLogger sets a custom logger.
// Default is slog.Default().
func WithSynthesizerLogger(logger *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSynthesizer creates a new synthesizer backed by the given reasoner.
func NewSynthesizer(reasoner ai.Reasoner, opts ...SynthesizerOption) (*Synthesizer, error) {
	if reasoner == nil {
		return nil, ErrReasonerRequired
	}

	s := &Synthesizer{
		reasoner: reasoner,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Synthesize asks the reasoning backend to answer the question from the
// sanitized candidates. Counting questions additionally request a structured
// total, parsed into Answer.Count. The answer's Supporting ids are filled in
// by the caller, which still knows the candidates' identities.
func (s *Synthesizer) Synthesize(ctx context.Context, query core.Query, candidates []core.SanitizedCandidate) (*core.Answer, error) {
	counting := IsCountingQuestion(query.Text)

	systemPrompt := synthesizerSystemPrompt
	if counting {
		systemPrompt += countingInstruction
	}
	userPrompt := buildUserPrompt(query.Text, candidates)

	response, err := s.reasoner.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.logger.Error("error completing answer", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrReasoningUnavailable, err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrReasoningUnavailable)
	}

	answer := &core.Answer{Text: response}
	if counting {
		if match := countLinePattern.FindStringSubmatch(response); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil {
				answer.Count = &n
			}
			answer.Text = strings.TrimSpace(countLinePattern.ReplaceAllString(response, ""))
			if answer.Text == "" {
				answer.Text = response
			}
		}
	}
	return answer, nil
}

// IsCountingQuestion reports whether a question asks for a pure count, in
// which case the synthesizer requests a structured numeric total.
func IsCountingQuestion(question string) bool {
	q := strings.ToLower(question)
	for _, marker := range []string{"how many", "how much", "number of", "count of"} {
		if strings.Contains(q, marker) {
			return true
		}
	}
	return false
}

// buildUserPrompt lists the sanitized candidates in rank order, carrying just
// enough structure (person, text, date) for counting and temporal reasoning
// over the visible set.
func buildUserPrompt(question string, candidates []core.SanitizedCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %q\n\nRelevant messages:\n", question)
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s: %s", c.Person, c.Text)
		if !c.Timestamp.IsZero() {
			fmt.Fprintf(&b, " (date: %s)", c.Timestamp.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Based on these messages, answer the question directly.
- For counting questions (like "how many cars"), count ALL mentions across ALL messages
- For aggregation questions (like "favorite restaurants"), list ALL relevant items from ALL messages
- Extract or reason about the answer from the messages
- If the information is not available in the messages, say "` + NotFoundAnswer + `"

Answer:`)
	return b.String()
}
