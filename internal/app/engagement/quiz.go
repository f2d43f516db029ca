package engagement

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/observability"
)

// ─── Quiz Session ───────────────────────────────────────────────────────────
// Each user walks the question source in order: answer once, then move on.
// Once the last question is passed the session is finished until restarted.
// Session cursors live in memory; scores live on the profile.

// QuizState is the user's position in the quiz.
type QuizState struct {
	Index    int              `json:"index"` // zero-based
	Total    int              `json:"total"`
	Question *domain.Question `json:"question,omitempty"`
	Answered bool             `json:"answered"`
	Finished bool             `json:"finished"`
}

// AnswerResult reports how an answer was scored.
type AnswerResult struct {
	Result
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type quizSession struct {
	mu       sync.Mutex
	index    int
	answered bool
}

// QuizService runs per-user quiz sessions over a question source.
type QuizService struct {
	accounts *account.Store
	source   domain.QuizSource
	render   *Renderer
	log      logrus.FieldLogger

	mu       sync.Mutex
	sessions map[string]*quizSession
}

// NewQuizService creates a quiz service over source.
func NewQuizService(accounts *account.Store, source domain.QuizSource, render *Renderer, log logrus.FieldLogger) *QuizService {
	return &QuizService{
		accounts: accounts,
		source:   source,
		render:   render,
		log:      log.WithField("component", "quiz"),
		sessions: make(map[string]*quizSession),
	}
}

func (s *QuizService) session(username string) *quizSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[username]
	if !ok {
		sess = &quizSession{}
		s.sessions[username] = sess
	}
	return sess
}

// state must be called with sess.mu held.
func (s *QuizService) state(sess *quizSession) QuizState {
	st := QuizState{
		Index:    sess.index,
		Total:    s.source.Len(),
		Answered: sess.answered,
	}
	if q, ok := s.source.Question(sess.index); ok {
		st.Question = &q
	} else {
		st.Finished = true
	}
	return st
}

// Current returns the question the user is on.
func (s *QuizService) Current(username string) QuizState {
	sess := s.session(username)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.state(sess)
}

// Answer scores the chosen option for the current question. Each question
// accepts exactly one answer.
func (s *QuizService) Answer(ctx context.Context, username, chosen string) (AnswerResult, error) {
	sess := s.session(username)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	q, ok := s.source.Question(sess.index)
	if !ok {
		return AnswerResult{}, domain.ErrQuizFinished
	}
	if sess.answered {
		return AnswerResult{}, domain.ErrAlreadyAnswered
	}

	res := AnswerResult{CorrectAnswer: q.Answer}
	err := s.accounts.Update(ctx, username, func(p *domain.UserProfile) error {
		correct, out := s.accounts.Engine().RecordQuizAnswer(p, chosen, q)
		res.Correct = correct
		res.Outcome = out
		if correct {
			res.Messages = append([]string{"Correct!"}, s.render.Outcome(p, out)...)
		} else {
			res.Messages = []string{s.render.Sprintf("Incorrect. The correct answer was: %s", q.Answer)}
		}
		return nil
	})
	if err != nil {
		return AnswerResult{}, err
	}
	sess.answered = true

	observability.RecordQuizAnswer(res.Correct)
	observability.RecordOutcome(res.Outcome)
	s.log.WithFields(logrus.Fields{
		"user":     username,
		"question": sess.index,
		"correct":  res.Correct,
	}).Debug("quiz answered")
	return res, nil
}

// Next advances past an answered question.
func (s *QuizService) Next(username string) (QuizState, error) {
	sess := s.session(username)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.index >= s.source.Len() {
		return QuizState{}, domain.ErrQuizFinished
	}
	if !sess.answered {
		return QuizState{}, domain.ErrQuestionNotAnswered
	}
	sess.index++
	sess.answered = false
	return s.state(sess), nil
}

// Restart moves the user back to the first question. Scores are kept.
func (s *QuizService) Restart(username string) QuizState {
	sess := s.session(username)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.index = 0
	sess.answered = false
	return s.state(sess)
}
