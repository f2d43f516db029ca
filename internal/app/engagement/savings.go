package engagement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/observability"
)

// ─── Savings ────────────────────────────────────────────────────────────────

// SavingsService logs deposits and reads the savings history.
type SavingsService struct {
	accounts *account.Store
	render   *Renderer
	log      logrus.FieldLogger
}

// NewSavingsService creates a savings service.
func NewSavingsService(accounts *account.Store, render *Renderer, log logrus.FieldLogger) *SavingsService {
	return &SavingsService{
		accounts: accounts,
		render:   render,
		log:      log.WithField("component", "savings"),
	}
}

// Log records a deposit, optionally towards a goal. A zero date means today.
func (s *SavingsService) Log(ctx context.Context, username string, amount decimal.Decimal, date time.Time, goalRef string) (domain.SavingsEntry, Result, error) {
	var (
		entry domain.SavingsEntry
		res   Result
	)
	err := s.accounts.Update(ctx, username, func(p *domain.UserProfile) error {
		e, out, err := s.accounts.Engine().RecordSavings(p, amount, date, goalRef)
		if err != nil {
			return err
		}
		entry = e
		res.Outcome = out

		money := s.render.Money(e.Amount)
		if e.GoalID != "" {
			g := p.Goals[p.GoalIndex(e.GoalID)]
			res.Messages = append(res.Messages, s.render.Sprintf("Added %s to '%s'.", money, g.Name))
		}
		res.Messages = append(res.Messages, s.render.Sprintf("Successfully logged %s savings!", money))
		res.Messages = append(res.Messages, s.render.Outcome(p, out)...)
		return nil
	})
	if err != nil {
		return domain.SavingsEntry{}, Result{}, err
	}

	observability.RecordSavings(entry.Amount)
	observability.RecordOutcome(res.Outcome)
	log := s.log.WithFields(logrus.Fields{
		"user":   username,
		"amount": entry.Amount.String(),
	})
	if entry.GoalID != "" {
		log = log.WithField("goal", entry.GoalID)
	}
	if len(res.Outcome.GoalsCompleted) > 0 {
		log.WithField("completed", res.Outcome.GoalsCompleted).Info("savings logged, goal completed")
	} else {
		log.Info("savings logged")
	}
	return entry, res, nil
}

// History returns up to limit entries newest first; limit <= 0 returns all.
func (s *SavingsService) History(ctx context.Context, username string, limit int) ([]domain.SavingsEntry, error) {
	p, err := s.accounts.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return p.RecentSavings(limit), nil
}

// Total returns the exact sum of the user's savings.
func (s *SavingsService) Total(ctx context.Context, username string) (decimal.Decimal, error) {
	p, err := s.accounts.Get(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}
	return s.accounts.Engine().TotalSaved(p), nil
}
