// Package engagement holds the request-level services of FinQuest: goals,
// savings, the quiz session and the dashboard read model. Each service runs
// one engine operation under the account store's per-user lock, reports the
// outcome to metrics and renders it into user-facing notifications.
package engagement

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finquest-app/finquest/internal/domain"
)

// Result is the response of a state-changing service call.
type Result struct {
	Outcome  domain.Outcome `json:"outcome"`
	Messages []string       `json:"messages"`
}

// Renderer turns outcomes and amounts into display strings.
type Renderer struct {
	p      *message.Printer
	badges []domain.Badge
}

// NewRenderer creates a renderer for the given locale and badge catalog.
func NewRenderer(tag language.Tag, badges []domain.Badge) *Renderer {
	return &Renderer{p: message.NewPrinter(tag), badges: badges}
}

// DefaultRenderer renders in US English.
func DefaultRenderer() *Renderer {
	return NewRenderer(language.AmericanEnglish, domain.DefaultBadges())
}

// Money formats an amount with two decimals and locale digit grouping.
func (r *Renderer) Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return r.p.Sprintf("$%.2f", f)
}

// Sprintf formats with the renderer's locale.
func (r *Renderer) Sprintf(format string, args ...any) string {
	return r.p.Sprintf(format, args...)
}

// BadgeName returns the display name of a badge.
func (r *Renderer) BadgeName(id domain.BadgeID) string {
	if b, ok := domain.LookupBadge(r.badges, id); ok {
		return b.Name
	}
	return string(id)
}

// Outcome renders point awards, goal completions and new badges in the
// order they happened. u resolves completed goal names.
func (r *Renderer) Outcome(u *domain.UserProfile, o domain.Outcome) []string {
	var msgs []string
	for _, a := range o.Awards {
		msgs = append(msgs, r.p.Sprintf("You earned %d points!", a.Amount))
	}
	for _, id := range o.GoalsCompleted {
		name := id
		if i := u.GoalIndex(id); i >= 0 {
			name = u.Goals[i].Name
		}
		msgs = append(msgs, r.p.Sprintf("Goal '%s' completed!", name))
	}
	for _, b := range o.BadgesAwarded {
		msgs = append(msgs, r.p.Sprintf("Congratulations! You earned the '%s' badge!", r.BadgeName(b)))
	}
	return msgs
}
