package domain

import (
	"fmt"
	"strings"
)

// ─── Quiz Types ─────────────────────────────────────────────────────────────

// Question is one multiple-choice quiz item. Answer must equal one of Options.
type Question struct {
	Prompt  string   `json:"question" toml:"question"`
	Options []string `json:"options" toml:"options"`
	Answer  string   `json:"-" toml:"answer"`
}

// Validate checks that the question can be asked and answered.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %q needs at least two options", ErrInvalidQuestion, q.Prompt)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o == "" {
			return fmt.Errorf("%w: %q has an empty option", ErrInvalidQuestion, q.Prompt)
		}
		if seen[o] {
			return fmt.Errorf("%w: %q repeats option %q", ErrInvalidQuestion, q.Prompt, o)
		}
		seen[o] = true
	}
	if !seen[q.Answer] {
		return fmt.Errorf("%w: answer of %q is not among its options", ErrInvalidQuestion, q.Prompt)
	}
	return nil
}

// IsCorrect compares the chosen option to the answer by exact value.
// An empty choice is simply wrong.
func (q Question) IsCorrect(chosen string) bool {
	return chosen != "" && chosen == q.Answer
}
