package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finquest-app/finquest/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Profile Persistence Tests
// ═══════════════════════════════════════════════════════════════════════════

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleProfile() *domain.UserProfile {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := domain.NewUserProfile("ana", "$2a$hash", created)
	p.Points = 370
	p.CorrectQuizAnswers = 2
	p.Badges = []domain.BadgeID{domain.BadgeNewbie, domain.BadgeGoalSetter, domain.BadgeFirstSaver}
	p.Goals = []domain.Goal{
		{ID: "g1", Name: "Car", Target: decimal.RequireFromString("1000"), Saved: decimal.RequireFromString("1000"), Completed: true, CreatedAt: created},
		{ID: "g2", Name: "Trip", Target: decimal.RequireFromString("250.50"), Saved: decimal.Zero, CreatedAt: created},
	}
	p.SavingsHistory = []domain.SavingsEntry{
		{ID: "s1", Amount: decimal.RequireFromString("1000"), Date: domain.DateOf(created), GoalID: "g1"},
	}
	return p
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := newTestDB(t)
	names, err := db.ListUsernames(context.Background())
	if err != nil {
		t.Fatalf("ListUsernames() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("fresh db has users %v", names)
	}
}

func TestCreateAndLoadProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	want := sampleProfile()

	if err := db.CreateProfile(ctx, want); err != nil {
		t.Fatalf("CreateProfile() error: %v", err)
	}

	got, err := db.LoadProfile(ctx, "ana")
	if err != nil {
		t.Fatalf("LoadProfile() error: %v", err)
	}
	if got.Credential != want.Credential || got.Points != 370 || got.CorrectQuizAnswers != 2 {
		t.Errorf("scalar fields = %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if len(got.Badges) != 3 || got.Badges[2] != domain.BadgeFirstSaver {
		t.Errorf("Badges = %v, want insertion order kept", got.Badges)
	}
	if len(got.Goals) != 2 || got.Goals[0].ID != "g1" || !got.Goals[0].Completed {
		t.Fatalf("Goals = %+v", got.Goals)
	}
	if !got.Goals[1].Target.Equal(decimal.RequireFromString("250.5")) {
		t.Errorf("Trip target = %s", got.Goals[1].Target)
	}
	if len(got.SavingsHistory) != 1 || got.SavingsHistory[0].GoalID != "g1" {
		t.Fatalf("SavingsHistory = %+v", got.SavingsHistory)
	}
	if !got.SavingsHistory[0].Date.Equal(want.SavingsHistory[0].Date) {
		t.Errorf("entry date = %v", got.SavingsHistory[0].Date)
	}
}

func TestCreateProfile_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateProfile(ctx, sampleProfile()); err != nil {
		t.Fatal(err)
	}
	err := db.CreateProfile(ctx, sampleProfile())
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Errorf("duplicate CreateProfile() = %v, want ErrDuplicateUsername", err)
	}
}

func TestLoadProfile_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.LoadProfile(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("LoadProfile(ghost) = %v, want ErrUserNotFound", err)
	}
}

func TestSaveProfile_ReplacesState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	p := sampleProfile()
	if err := db.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	p.Points = 420
	p.Badges = append(p.Badges, domain.BadgeGoalAchiever)
	p.Goals = p.Goals[1:] // remove g1
	p.SavingsHistory = append(p.SavingsHistory, domain.SavingsEntry{
		ID: "s2", Amount: decimal.RequireFromString("5.25"), Date: domain.DateOf(time.Now()),
	})

	if err := db.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile() error: %v", err)
	}

	got, err := db.LoadProfile(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if got.Points != 420 {
		t.Errorf("Points = %d, want 420", got.Points)
	}
	if len(got.Badges) != 4 {
		t.Errorf("Badges = %v", got.Badges)
	}
	if len(got.Goals) != 1 || got.Goals[0].ID != "g2" {
		t.Errorf("Goals = %+v", got.Goals)
	}
	if len(got.SavingsHistory) != 2 {
		t.Fatalf("SavingsHistory len = %d, want 2", len(got.SavingsHistory))
	}
	if !got.TotalSaved().Equal(decimal.RequireFromString("1005.25")) {
		t.Errorf("TotalSaved = %s", got.TotalSaved())
	}
}

func TestSaveProfile_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	err := db.SaveProfile(context.Background(), sampleProfile())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("SaveProfile(unknown) = %v, want ErrUserNotFound", err)
	}
}

func TestListUsernames_Sorted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"zoe", "ana", "max"} {
		p := domain.NewUserProfile(name, "x", time.Now())
		if err := db.CreateProfile(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	names, err := db.ListUsernames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ana", "max", "zoe"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListUsernames() = %v, want %v", names, want)
		}
	}
}

func TestReopen_KeepsData(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.CreateProfile(context.Background(), sampleProfile()); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	if _, err := db2.LoadProfile(context.Background(), "ana"); err != nil {
		t.Errorf("LoadProfile after reopen: %v", err)
	}
}
