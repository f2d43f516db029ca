package engagement

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/observability"
)

// ─── Goals ──────────────────────────────────────────────────────────────────

// GoalView is a goal with its derived progress.
type GoalView struct {
	domain.Goal
	Progress    float64         `json:"progress"`
	ProgressPct float64         `json:"progress_pct"`
	Remaining   decimal.Decimal `json:"remaining"`
}

func viewGoal(g domain.Goal) GoalView {
	return GoalView{
		Goal:        g,
		Progress:    g.Progress(),
		ProgressPct: g.ProgressPct(),
		Remaining:   g.Remaining(),
	}
}

func viewGoals(goals []domain.Goal) []GoalView {
	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, viewGoal(g))
	}
	return out
}

// GoalService adds, removes and lists savings goals.
type GoalService struct {
	accounts *account.Store
	render   *Renderer
	log      logrus.FieldLogger
}

// NewGoalService creates a goal service.
func NewGoalService(accounts *account.Store, render *Renderer, log logrus.FieldLogger) *GoalService {
	return &GoalService{
		accounts: accounts,
		render:   render,
		log:      log.WithField("component", "goals"),
	}
}

// Add creates a goal and pays the goal-setting reward.
func (s *GoalService) Add(ctx context.Context, username, name string, target decimal.Decimal) (GoalView, Result, error) {
	var (
		goal domain.Goal
		res  Result
	)
	err := s.accounts.Update(ctx, username, func(p *domain.UserProfile) error {
		g, out, err := s.accounts.Engine().AddGoal(p, name, target)
		if err != nil {
			return err
		}
		goal = g
		res.Outcome = out
		res.Messages = append(s.render.Outcome(p, out),
			s.render.Sprintf("Goal '%s' added successfully!", g.Name))
		return nil
	})
	if err != nil {
		return GoalView{}, Result{}, err
	}

	observability.RecordOutcome(res.Outcome)
	s.log.WithFields(logrus.Fields{
		"user":   username,
		"goal":   goal.ID,
		"target": goal.Target.String(),
	}).Info("goal added")
	return viewGoal(goal), res, nil
}

// Remove deletes a goal. Rewards it earned are kept.
func (s *GoalService) Remove(ctx context.Context, username, goalID string) (Result, error) {
	var res Result
	err := s.accounts.Update(ctx, username, func(p *domain.UserProfile) error {
		name := goalID
		if i := p.GoalIndex(goalID); i >= 0 {
			name = p.Goals[i].Name
		}
		if err := s.accounts.Engine().RemoveGoal(p, goalID); err != nil {
			return err
		}
		res.Messages = []string{s.render.Sprintf("Goal '%s' deleted.", name)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	s.log.WithFields(logrus.Fields{"user": username, "goal": goalID}).Info("goal removed")
	return res, nil
}

// List returns the user's goals in creation order.
func (s *GoalService) List(ctx context.Context, username string) ([]GoalView, error) {
	p, err := s.accounts.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return viewGoals(p.Goals), nil
}
