package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finquest-app/finquest/internal/app/engagement"
)

// ─── Engagement API ─────────────────────────────────────────────────────────
// REST endpoints for the authenticated user's game state.
//
// GET    /api/me/dashboard       points, total saved, goals, recent savings, badges
// GET    /api/me/badges          badge catalog with earned flags
// GET    /api/me/goals           goals with progress
// POST   /api/me/goals           add a goal
// DELETE /api/me/goals/{id}      remove a goal
// GET    /api/me/savings         savings history, newest first (?limit=N)
// POST   /api/me/savings         log savings, optionally towards a goal
// GET    /api/me/quiz            current quiz question
// POST   /api/me/quiz/answer     answer the current question
// POST   /api/me/quiz/next       move to the next question
// POST   /api/me/quiz/restart    start the quiz over

// EngagementAPI holds references to all engagement services.
type EngagementAPI struct {
	Goals     *engagement.GoalService
	Savings   *engagement.SavingsService
	Quiz      *engagement.QuizService
	Dashboard *engagement.DashboardService
	Render    *engagement.Renderer
}

// HandleDashboard returns the user's financial snapshot.
// GET /api/me/dashboard
func (e *EngagementAPI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := e.Dashboard.Dashboard(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleBadges returns every badge with its unlock state.
// GET /api/me/badges
func (e *EngagementAPI) HandleBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := e.Dashboard.Badges(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	earned := 0
	for _, b := range badges {
		if b.Earned {
			earned++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"badges": badges,
		"earned": earned,
		"total":  len(badges),
	})
}

// ─── Goals ──────────────────────────────────────────────────────────────────

// HandleListGoals returns the user's goals.
// GET /api/me/goals
func (e *EngagementAPI) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := e.Goals.List(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"goals": goals,
	})
}

type addGoalRequest struct {
	Name   string          `json:"name"`
	Target decimal.Decimal `json:"target"`
}

// HandleAddGoal creates a goal.
// POST /api/me/goals
func (e *EngagementAPI) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req addGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	goal, res, err := e.Goals.Add(r.Context(), userFrom(r.Context()), req.Name, req.Target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"goal":     goal,
		"outcome":  res.Outcome,
		"messages": res.Messages,
	})
}

// HandleRemoveGoal deletes a goal.
// DELETE /api/me/goals/{id}
func (e *EngagementAPI) HandleRemoveGoal(w http.ResponseWriter, r *http.Request) {
	res, err := e.Goals.Remove(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Savings ────────────────────────────────────────────────────────────────

// HandleListSavings returns savings history newest first.
// GET /api/me/savings?limit=N
func (e *EngagementAPI) HandleListSavings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	user := userFrom(r.Context())
	entries, err := e.Savings.History(r.Context(), user, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	total, err := e.Savings.Total(r.Context(), user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":       entries,
		"total":         total,
		"total_display": e.Render.Money(total),
	})
}

type logSavingsRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	GoalID string          `json:"goal_id,omitempty"`
}

// HandleLogSavings records a deposit.
// POST /api/me/savings
func (e *EngagementAPI) HandleLogSavings(w http.ResponseWriter, r *http.Request) {
	var req logSavingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var date time.Time
	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	entry, res, err := e.Savings.Log(r.Context(), userFrom(r.Context()), req.Amount, date, req.GoalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"entry":    entry,
		"outcome":  res.Outcome,
		"messages": res.Messages,
	})
}

// ─── Quiz ───────────────────────────────────────────────────────────────────

// HandleQuiz returns the current question.
// GET /api/me/quiz
func (e *EngagementAPI) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, e.Quiz.Current(userFrom(r.Context())))
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// HandleQuizAnswer scores an answer to the current question.
// POST /api/me/quiz/answer
func (e *EngagementAPI) HandleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := e.Quiz.Answer(r.Context(), userFrom(r.Context()), req.Answer)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleQuizNext advances to the next question.
// POST /api/me/quiz/next
func (e *EngagementAPI) HandleQuizNext(w http.ResponseWriter, r *http.Request) {
	st, err := e.Quiz.Next(userFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleQuizRestart starts the quiz over. Earned points are kept.
// POST /api/me/quiz/restart
func (e *EngagementAPI) HandleQuizRestart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, e.Quiz.Restart(userFrom(r.Context())))
}

