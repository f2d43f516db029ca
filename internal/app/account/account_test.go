package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/finquest-app/finquest/internal/app/rewards"
	"github.com/finquest-app/finquest/internal/domain"
	"github.com/finquest-app/finquest/internal/infra/memstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := New(memstore.New(), rewards.New(rewards.DefaultConfig()), log)
	s.SetHashCost(bcrypt.MinCost)
	return s
}

// ─── Register / Authenticate ────────────────────────────────────────────────

func TestRegister(t *testing.T) {
	s := newTestStore(t)
	p, out, err := s.Register(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if p.Points != 100 || !p.HasBadge(domain.BadgeNewbie) {
		t.Errorf("profile = %+v", p)
	}
	if !out.HasBadge(domain.BadgeNewbie) || out.PointsAwarded != 100 {
		t.Errorf("outcome = %+v", out)
	}
	if p.Credential == "secret" {
		t.Error("password stored in clear text")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, _, err := s.Register(ctx, "ana", "a"); err != nil {
		t.Fatal(err)
	}
	_, _, err := s.Register(ctx, "ana", "b")
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Errorf("Register(dup) = %v, want ErrDuplicateUsername", err)
	}
}

func TestRegister_Empty(t *testing.T) {
	s := newTestStore(t)
	for _, tc := range [][2]string{{"", "pw"}, {"  ", "pw"}, {"ana", ""}} {
		if _, _, err := s.Register(context.Background(), tc[0], tc[1]); !errors.Is(err, domain.ErrInvalidUsername) {
			t.Errorf("Register(%q,%q) = %v, want ErrInvalidUsername", tc[0], tc[1], err)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Register(ctx, "ana", "secret")

	if _, err := s.Authenticate(ctx, "ana", "secret"); err != nil {
		t.Errorf("Authenticate(correct) error: %v", err)
	}
	if _, err := s.Authenticate(ctx, "ana", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Authenticate(wrong) = %v", err)
	}
	if _, err := s.Authenticate(ctx, "ghost", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Authenticate(ghost) = %v", err)
	}
}

// ─── Update ─────────────────────────────────────────────────────────────────

func TestUpdate_FailureDoesNotSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Register(ctx, "ana", "pw")

	boom := errors.New("boom")
	err := s.Update(ctx, "ana", func(p *domain.UserProfile) error {
		p.Points = 1_000_000
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() = %v, want boom", err)
	}
	p, _ := s.Get(ctx, "ana")
	if p.Points != 100 {
		t.Errorf("Points = %d after failed update, want 100", p.Points)
	}
}

func TestUpdate_UnknownUser(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(context.Background(), "ghost", func(*domain.UserProfile) error { return nil })
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Update(ghost) = %v, want ErrUserNotFound", err)
	}
}

// TestUpdate_SerializesPerUser hammers one profile from many goroutines. Without
// the per-user lock, load-modify-save races would lose entries and points.
func TestUpdate_SerializesPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Register(ctx, "ana", "pw")
	s.Register(ctx, "bob", "pw")
	engine := s.Engine()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		for _, user := range []string{"ana", "bob"} {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				err := s.Update(ctx, user, func(p *domain.UserProfile) error {
					_, _, err := engine.RecordSavings(p, decimal.NewFromInt(1), time.Now(), "")
					return err
				})
				if err != nil {
					t.Errorf("Update(%s) error: %v", user, err)
				}
			}(user)
		}
	}
	wg.Wait()

	for _, user := range []string{"ana", "bob"} {
		p, _ := s.Get(ctx, user)
		if len(p.SavingsHistory) != n {
			t.Errorf("%s history = %d, want %d", user, len(p.SavingsHistory), n)
		}
		if want := int64(100 + n*50); p.Points != want {
			t.Errorf("%s points = %d, want %d", user, p.Points, want)
		}
		if !p.TotalSaved().Equal(decimal.NewFromInt(n)) {
			t.Errorf("%s TotalSaved = %s", user, p.TotalSaved())
		}
	}
}

// ─── Tokens ─────────────────────────────────────────────────────────────────

func TestTokens_RoundTrip(t *testing.T) {
	tok := NewTokens("test-secret", time.Hour)
	raw, err := tok.Issue("ana")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	user, err := tok.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if user != "ana" {
		t.Errorf("Verify() = %q, want ana", user)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tok := NewTokens("test-secret", time.Hour)
	raw, _ := tok.Issue("ana")

	other := NewTokens("other-secret", time.Hour)
	if _, err := other.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v", err)
	}

	expired := NewTokens("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expired: err = %v", err)
	}

	if _, err := tok.Verify("garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("garbage: err = %v", err)
	}
}

func ExampleTokens() {
	tok := NewTokens("secret", time.Minute)
	raw, _ := tok.Issue("ana")
	user, _ := tok.Verify(raw)
	fmt.Println(user)
	// Output: ana
}
