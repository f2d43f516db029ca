package engagement

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/app/quiz"
	"github.com/finquest-app/finquest/internal/app/rewards"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/memstore"
)

// ─── Test Helpers ───────────────────────────────────────────────────────────

type fixture struct {
	accounts  *account.Store
	goals     *GoalService
	savings   *SavingsService
	quiz      *QuizService
	dashboard *DashboardService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	accounts := account.New(memstore.New(), rewards.New(rewards.DefaultConfig()), log)
	accounts.SetHashCost(bcrypt.MinCost)
	if _, _, err := accounts.Register(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}

	r := DefaultRenderer()
	return &fixture{
		accounts:  accounts,
		goals:     NewGoalService(accounts, r, log),
		savings:   NewSavingsService(accounts, r, log),
		quiz:      NewQuizService(accounts, quiz.Default(), r, log),
		dashboard: NewDashboardService(accounts, r, 0),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func hasMessage(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func points(t *testing.T, f *fixture) int64 {
	t.Helper()
	p, err := f.accounts.Get(context.Background(), "ana")
	if err != nil {
		t.Fatal(err)
	}
	return p.Points
}

// ─── Goals & Savings ────────────────────────────────────────────────────────

func TestGoalAndSavings_CompletionFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	goal, res, err := f.goals.Add(ctx, "ana", "Car", dec("1000"))
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if !res.Outcome.HasBadge(domain.BadgeGoalSetter) {
		t.Errorf("outcome = %+v, want GoalSetter", res.Outcome)
	}
	if !hasMessage(res.Messages, "Goal 'Car' added") || !hasMessage(res.Messages, "'Goal Setter' badge") {
		t.Errorf("messages = %v", res.Messages)
	}

	entry, res, err := f.savings.Log(ctx, "ana", dec("1000"), time.Time{}, goal.ID)
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	if entry.GoalID != goal.ID {
		t.Errorf("entry.GoalID = %q", entry.GoalID)
	}
	if len(res.Outcome.GoalsCompleted) != 1 || !res.Outcome.HasBadge(domain.BadgeGoalAchiever) {
		t.Errorf("outcome = %+v", res.Outcome)
	}
	if !hasMessage(res.Messages, "Goal 'Car' completed!") || !hasMessage(res.Messages, "Successfully logged") {
		t.Errorf("messages = %v", res.Messages)
	}

	if got := points(t, f); got != 370 {
		t.Errorf("points = %d, want 370", got)
	}

	goals, _ := f.goals.List(ctx, "ana")
	if len(goals) != 1 || !goals[0].Completed || goals[0].ProgressPct != 100 {
		t.Errorf("goals = %+v", goals)
	}
}

func TestGoals_Invalid(t *testing.T) {
	f := setup(t)
	_, _, err := f.goals.Add(context.Background(), "ana", "  ", dec("10"))
	if !errors.Is(err, domain.ErrInvalidGoal) {
		t.Errorf("Add(blank) = %v, want ErrInvalidGoal", err)
	}
	if got := points(t, f); got != 100 {
		t.Errorf("points changed on failure: %d", got)
	}
}

func TestGoals_Remove(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	g, _, _ := f.goals.Add(ctx, "ana", "Trip", dec("500"))

	res, err := f.goals.Remove(ctx, "ana", g.ID)
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if !hasMessage(res.Messages, "Goal 'Trip' deleted.") {
		t.Errorf("messages = %v", res.Messages)
	}
	if _, err := f.goals.Remove(ctx, "ana", g.ID); !errors.Is(err, domain.ErrUnknownGoal) {
		t.Errorf("second Remove() = %v, want ErrUnknownGoal", err)
	}
	if got := points(t, f); got != 120 {
		t.Errorf("points = %d, want 120 (rewards kept)", got)
	}
}

func TestSavings_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, _, err := f.savings.Log(ctx, "ana", dec("0"), time.Time{}, ""); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Log(0) = %v", err)
	}
	if _, _, err := f.savings.Log(ctx, "ana", dec("5"), time.Time{}, "nope"); !errors.Is(err, domain.ErrUnknownGoal) {
		t.Errorf("Log(unknown goal) = %v", err)
	}
	if _, _, err := f.savings.Log(ctx, "ghost", dec("5"), time.Time{}, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Log(ghost) = %v", err)
	}
	hist, _ := f.savings.History(ctx, "ana", 0)
	if len(hist) != 0 {
		t.Errorf("failed logs left history %v", hist)
	}
}

func TestSavings_HistoryAndTotal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, a := range []string{"10.10", "20.20", "30.30"} {
		if _, _, err := f.savings.Log(ctx, "ana", dec(a), time.Time{}, ""); err != nil {
			t.Fatal(err)
		}
	}

	hist, err := f.savings.History(ctx, "ana", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 || !hist[0].Amount.Equal(dec("30.30")) {
		t.Errorf("History(2) = %+v, want newest first", hist)
	}

	total, _ := f.savings.Total(ctx, "ana")
	if !total.Equal(dec("60.60")) {
		t.Errorf("Total = %s, want 60.60", total)
	}
}

func TestSavings_MessageFormatsMoney(t *testing.T) {
	f := setup(t)
	_, res, err := f.savings.Log(context.Background(), "ana", dec("50"), time.Time{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !hasMessage(res.Messages, "Successfully logged $50.00 savings!") {
		t.Errorf("messages = %v", res.Messages)
	}
	if !hasMessage(res.Messages, "You earned 50 points!") || !hasMessage(res.Messages, "'First Saver' badge") {
		t.Errorf("messages = %v", res.Messages)
	}
}

// ─── Quiz ───────────────────────────────────────────────────────────────────

func answerCurrent(t *testing.T, f *fixture, correct bool) AnswerResult {
	t.Helper()
	st := f.quiz.Current("ana")
	if st.Question == nil {
		t.Fatal("quiz finished unexpectedly")
	}
	chosen := st.Question.Answer
	if !correct {
		for _, o := range st.Question.Options {
			if o != st.Question.Answer {
				chosen = o
				break
			}
		}
	}
	res, err := f.quiz.Answer(context.Background(), "ana", chosen)
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	return res
}

func TestQuiz_ThreeCorrectUnlocksQuizWhiz(t *testing.T) {
	f := setup(t)

	var last AnswerResult
	for i := 0; i < 3; i++ {
		last = answerCurrent(t, f, true)
		if !last.Correct {
			t.Fatalf("answer %d scored wrong", i)
		}
		if i < 2 {
			if _, err := f.quiz.Next("ana"); err != nil {
				t.Fatal(err)
			}
		}
	}
	if !last.Outcome.HasBadge(domain.BadgeQuizWhiz) {
		t.Errorf("third answer outcome = %+v, want QuizWhiz", last.Outcome)
	}
	if got := points(t, f); got != 190 {
		t.Errorf("points = %d, want 190", got)
	}
}

func TestQuiz_AnswerOnce(t *testing.T) {
	f := setup(t)
	res := answerCurrent(t, f, false)
	if res.Correct || !hasMessage(res.Messages, "The correct answer was") {
		t.Errorf("wrong answer result = %+v", res)
	}
	if _, err := f.quiz.Answer(context.Background(), "ana", res.CorrectAnswer); !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Errorf("second Answer() = %v, want ErrAlreadyAnswered", err)
	}
	if got := points(t, f); got != 100 {
		t.Errorf("points = %d, want 100", got)
	}
}

func TestQuiz_NextRequiresAnswer(t *testing.T) {
	f := setup(t)
	if _, err := f.quiz.Next("ana"); !errors.Is(err, domain.ErrQuestionNotAnswered) {
		t.Errorf("Next() = %v, want ErrQuestionNotAnswered", err)
	}
}

func TestQuiz_FinishAndRestart(t *testing.T) {
	f := setup(t)
	for i := 0; i < 5; i++ {
		answerCurrent(t, f, false)
		if _, err := f.quiz.Next("ana"); err != nil {
			t.Fatalf("Next() #%d error: %v", i, err)
		}
	}

	st := f.quiz.Current("ana")
	if !st.Finished || st.Question != nil {
		t.Fatalf("state = %+v, want finished", st)
	}
	if _, err := f.quiz.Answer(context.Background(), "ana", "x"); !errors.Is(err, domain.ErrQuizFinished) {
		t.Errorf("Answer() when finished = %v", err)
	}
	if _, err := f.quiz.Next("ana"); !errors.Is(err, domain.ErrQuizFinished) {
		t.Errorf("Next() when finished = %v", err)
	}

	st = f.quiz.Restart("ana")
	if st.Finished || st.Index != 0 || st.Answered {
		t.Errorf("Restart() = %+v", st)
	}
}

func TestQuiz_SessionsArePerUser(t *testing.T) {
	f := setup(t)
	f.accounts.Register(context.Background(), "bob", "pw")

	answerCurrent(t, f, true)
	f.quiz.Next("ana")

	if st := f.quiz.Current("bob"); st.Index != 0 || st.Answered {
		t.Errorf("bob state = %+v", st)
	}
}

// ─── Dashboard ──────────────────────────────────────────────────────────────

func TestDashboard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.goals.Add(ctx, "ana", "Car", dec("100"))
	for i := 1; i <= 7; i++ {
		f.savings.Log(ctx, "ana", decimal.NewFromInt(int64(i)), time.Time{}, "")
	}

	d, err := f.dashboard.Dashboard(ctx, "ana")
	if err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}
	if d.Points != 100+20+7*50 {
		t.Errorf("Points = %d", d.Points)
	}
	if !d.TotalSaved.Equal(decimal.NewFromInt(28)) || d.TotalSavedDisplay != "$28.00" {
		t.Errorf("TotalSaved = %s (%s)", d.TotalSaved, d.TotalSavedDisplay)
	}
	if len(d.RecentSavings) != DefaultRecentSavings || !d.RecentSavings[0].Amount.Equal(decimal.NewFromInt(7)) {
		t.Errorf("RecentSavings = %+v", d.RecentSavings)
	}
	if len(d.Goals) != 1 || d.Goals[0].ProgressPct != 0 {
		t.Errorf("Goals = %+v", d.Goals)
	}
	// Newbie, GoalSetter, FirstSaver; 470 points is short of BudgetBoss.
	if d.BadgeCount != 3 {
		t.Errorf("BadgeCount = %d, want 3", d.BadgeCount)
	}
	if len(d.Badges) != 6 {
		t.Fatalf("Badges = %d, want full catalog", len(d.Badges))
	}
	for _, b := range d.Badges {
		want := b.ID == domain.BadgeNewbie || b.ID == domain.BadgeGoalSetter || b.ID == domain.BadgeFirstSaver
		if b.Earned != want {
			t.Errorf("badge %s earned = %v, want %v", b.ID, b.Earned, want)
		}
	}
}

func TestDashboard_UnknownUser(t *testing.T) {
	f := setup(t)
	if _, err := f.dashboard.Dashboard(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Dashboard(ghost) = %v", err)
	}
}
