// Package account is the account store: it creates users, checks passwords
// and hands profiles to the reward engine one mutation at a time.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/finquest-app/finquest/internal/app/rewards"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/observability"
)

// Store owns user profiles. Mutations of one user are serialized with a
// per-username lock; different users proceed in parallel.
type Store struct {
	profiles domain.ProfileStore
	engine   *rewards.Engine
	log      logrus.FieldLogger

	locks    sync.Map // username → *sync.Mutex
	hashCost int
	now      func() time.Time
}

// New creates an account store over the given profile storage.
func New(profiles domain.ProfileStore, engine *rewards.Engine, log logrus.FieldLogger) *Store {
	return &Store{
		profiles: profiles,
		engine:   engine,
		log:      log.WithField("component", "account"),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// SetHashCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func (s *Store) SetHashCost(cost int) { s.hashCost = cost }

// Engine returns the reward engine profiles are mutated with.
func (s *Store) Engine() *rewards.Engine { return s.engine }

func (s *Store) lock(username string) func() {
	v, _ := s.locks.LoadOrStore(username, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Register creates a user and applies the sign-up reward.
func (s *Store) Register(ctx context.Context, username, password string) (*domain.UserProfile, domain.Outcome, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.Outcome{}, domain.ErrInvalidUsername
	}

	unlock := s.lock(username)
	defer unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, domain.Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	p := domain.NewUserProfile(username, string(hash), s.now())
	out := s.engine.Register(p)
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		return nil, domain.Outcome{}, err
	}

	observability.RegisteredUsers.Inc()
	observability.RecordOutcome(out)
	s.log.WithField("user", username).Info("user registered")
	return p.Clone(), out, nil
}

// Authenticate checks a password. Unknown users and wrong passwords both
// return ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	p, err := s.profiles.LoadProfile(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.Credential), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	s.log.WithField("user", p.Username).Debug("user logged in")
	return p, nil
}

// Get returns a snapshot of the user's profile.
func (s *Store) Get(ctx context.Context, username string) (*domain.UserProfile, error) {
	return s.profiles.LoadProfile(ctx, username)
}

// Update loads the profile, applies fn and saves the result, holding the
// user's lock throughout. If fn fails nothing is saved.
func (s *Store) Update(ctx context.Context, username string, fn func(p *domain.UserProfile) error) error {
	unlock := s.lock(username)
	defer unlock()

	p, err := s.profiles.LoadProfile(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	if err := s.profiles.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Usernames lists every registered user.
func (s *Store) Usernames(ctx context.Context) ([]string, error) {
	return s.profiles.ListUsernames(ctx)
}
