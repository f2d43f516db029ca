// Package quiz provides question banks for the financial literacy quiz.
package quiz

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/finquest-app/finquest/internal/domain"
)

// Bank is an in-memory, ordered question bank.
type Bank struct {
	questions []domain.Question
}

var _ domain.QuizSource = (*Bank)(nil)

// NewBank validates every question and returns a bank over them.
func NewBank(questions []domain.Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: bank has no questions", domain.ErrInvalidQuestion)
	}
	qs := make([]domain.Question, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	return &Bank{questions: qs}, nil
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Question returns the i-th question, or false past the end.
func (b *Bank) Question(i int) (domain.Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return domain.Question{}, false
	}
	q := b.questions[i]
	q.Options = append([]string(nil), q.Options...)
	return q, true
}

// ─── TOML Loading ───────────────────────────────────────────────────────────

// file is the on-disk layout:
//
//	[[question]]
//	question = "What does 'APY' stand for in banking?"
//	options  = ["Annual Percentage Yield", "Annual Payment Year"]
//	answer   = "Annual Percentage Yield"
type file struct {
	Questions []domain.Question `toml:"question"`
}

// LoadFile reads a TOML question bank.
func LoadFile(path string) (*Bank, error) {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode quiz bank %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("quiz bank %s: unknown keys %v", path, undecoded)
	}
	b, err := NewBank(f.Questions)
	if err != nil {
		return nil, fmt.Errorf("quiz bank %s: %w", path, err)
	}
	return b, nil
}

// ─── Built-in Bank ──────────────────────────────────────────────────────────

// Default returns the built-in five-question bank.
func Default() *Bank {
	b, err := NewBank(defaultQuestions())
	if err != nil {
		panic(err) // built-in content is static
	}
	return b
}

func defaultQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt: "What is the primary purpose of a budget?",
			Options: []string{
				"To track daily expenses",
				"To make more money",
				"To plan how to spend and save money",
				"To invest in stocks",
			},
			Answer: "To plan how to spend and save money",
		},
		{
			Prompt: "What does 'APY' stand for in banking?",
			Options: []string{
				"Annual Percentage Yield",
				"Annual Payment Year",
				"Average Personal Yield",
				"Automated Payment System",
			},
			Answer: "Annual Percentage Yield",
		},
		{
			Prompt: "Which of these is generally considered a 'good' debt?",
			Options: []string{
				"Credit card debt",
				"Payday loan",
				"Mortgage for a primary residence",
				"Car loan for a luxury vehicle",
			},
			Answer: "Mortgage for a primary residence",
		},
		{
			Prompt: "What is diversification in investing?",
			Options: []string{
				"Putting all your money in one stock",
				"Spreading your investments across different assets",
				"Investing only in bonds",
				"Only investing in your home country",
			},
			Answer: "Spreading your investments across different assets",
		},
		{
			Prompt: "What is an emergency fund typically used for?",
			Options: []string{
				"Vacations",
				"Unexpected expenses like job loss or medical bills",
				"Buying a new car",
				"Daily groceries",
			},
			Answer: "Unexpected expenses like job loss or medical bills",
		},
	}
}
