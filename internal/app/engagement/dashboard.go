package engagement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/domain"
)

// ─── Dashboard ──────────────────────────────────────────────────────────────

// DefaultRecentSavings is how many entries the dashboard shows.
const DefaultRecentSavings = 5

// BadgeView is a catalog badge with the user's unlock state.
type BadgeView struct {
	domain.Badge
	Earned bool `json:"earned"`
}

// Dashboard is the user's financial snapshot.
type Dashboard struct {
	Username           string                `json:"username"`
	Points             int64                 `json:"points"`
	TotalSaved         decimal.Decimal       `json:"total_saved"`
	TotalSavedDisplay  string                `json:"total_saved_display"`
	BadgeCount         int                   `json:"badge_count"`
	CorrectQuizAnswers int                   `json:"correct_quiz_answers"`
	Goals              []GoalView            `json:"goals"`
	RecentSavings      []domain.SavingsEntry `json:"recent_savings"`
	Badges             []BadgeView           `json:"badges"`
}

// DashboardService builds read-only views of a profile.
type DashboardService struct {
	accounts *account.Store
	render   *Renderer
	recent   int
}

// NewDashboardService creates a dashboard showing the last recent savings.
// A non-positive recent uses DefaultRecentSavings.
func NewDashboardService(accounts *account.Store, render *Renderer, recent int) *DashboardService {
	if recent <= 0 {
		recent = DefaultRecentSavings
	}
	return &DashboardService{accounts: accounts, render: render, recent: recent}
}

// Dashboard returns the snapshot for username.
func (s *DashboardService) Dashboard(ctx context.Context, username string) (Dashboard, error) {
	p, err := s.accounts.Get(ctx, username)
	if err != nil {
		return Dashboard{}, err
	}
	total := s.accounts.Engine().TotalSaved(p)
	return Dashboard{
		Username:           p.Username,
		Points:             p.Points,
		TotalSaved:         total,
		TotalSavedDisplay:  s.render.Money(total),
		BadgeCount:         len(p.Badges),
		CorrectQuizAnswers: p.CorrectQuizAnswers,
		Goals:              viewGoals(p.Goals),
		RecentSavings:      p.RecentSavings(s.recent),
		Badges:             s.badgeViews(p),
	}, nil
}

// Badges returns the full catalog with earned flags, in catalog order.
func (s *DashboardService) Badges(ctx context.Context, username string) ([]BadgeView, error) {
	p, err := s.accounts.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.badgeViews(p), nil
}

func (s *DashboardService) badgeViews(p *domain.UserProfile) []BadgeView {
	catalog := s.accounts.Engine().Badges()
	out := make([]BadgeView, 0, len(catalog))
	for _, b := range catalog {
		out = append(out, BadgeView{Badge: b, Earned: p.HasBadge(b.ID)})
	}
	return out
}
