package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finquest-app/finquest/internal/domain"
)

const dateLayout = time.DateOnly

// ─── Profile Operations ─────────────────────────────────────────────────────

// CreateProfile inserts a new user with all of its child rows.
func (d *DB) CreateProfile(ctx context.Context, p *domain.UserProfile) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (username, credential, points, correct_quiz_answers, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, p.Username, p.Credential, p.Points, p.CorrectQuizAnswers, p.CreatedAt.UTC().Format(time.RFC3339Nano))
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, p.Username)
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return writeChildren(ctx, tx, p)
	})
}

// SaveProfile replaces the stored state of an existing user.
func (d *DB) SaveProfile(ctx context.Context, p *domain.UserProfile) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET credential = ?, points = ?, correct_quiz_answers = ?
			WHERE username = ?
		`, p.Credential, p.Points, p.CorrectQuizAnswers, p.Username)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrUserNotFound, p.Username)
		}
		for _, stmt := range []string{
			`DELETE FROM user_badges WHERE username = ?`,
			`DELETE FROM goals WHERE username = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, p.Username); err != nil {
				return fmt.Errorf("clear rows: %w", err)
			}
		}
		return writeChildren(ctx, tx, p)
	})
}

// writeChildren inserts badges and goals and appends savings entries not yet
// stored. Savings rows are never rewritten.
func writeChildren(ctx context.Context, tx *sql.Tx, p *domain.UserProfile) error {
	for i, b := range p.Badges {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_badges (username, badge, position) VALUES (?, ?, ?)
		`, p.Username, string(b), i); err != nil {
			return fmt.Errorf("insert badge %s: %w", b, err)
		}
	}
	for i, g := range p.Goals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO goals (id, username, position, name, target, saved, completed, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, g.ID, p.Username, i, g.Name, g.Target.String(), g.Saved.String(), boolToInt(g.Completed),
			g.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert goal %s: %w", g.ID, err)
		}
	}
	for i, s := range p.SavingsHistory {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO savings_entries (id, username, position, amount, entry_date, goal_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, s.ID, p.Username, i, s.Amount.String(), s.Date.Format(dateLayout), s.GoalID); err != nil {
			return fmt.Errorf("insert savings entry %s: %w", s.ID, err)
		}
	}
	return nil
}

// LoadProfile reads a user and its child rows.
func (d *DB) LoadProfile(ctx context.Context, username string) (*domain.UserProfile, error) {
	p := &domain.UserProfile{Username: username}
	var createdStr string
	err := d.db.QueryRowContext(ctx, `
		SELECT credential, points, correct_quiz_answers, created_at
		FROM users WHERE username = ?
	`, username).Scan(&p.Credential, &p.Points, &p.CorrectQuizAnswers, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	if p.Badges, err = d.loadBadges(ctx, username); err != nil {
		return nil, err
	}
	if p.Goals, err = d.loadGoals(ctx, username); err != nil {
		return nil, err
	}
	if p.SavingsHistory, err = d.loadSavings(ctx, username); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *DB) loadBadges(ctx context.Context, username string) ([]domain.BadgeID, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT badge FROM user_badges WHERE username = ? ORDER BY position
	`, username)
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	defer rows.Close()

	badges := []domain.BadgeID{}
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		badges = append(badges, domain.BadgeID(b))
	}
	return badges, rows.Err()
}

func (d *DB) loadGoals(ctx context.Context, username string) ([]domain.Goal, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, target, saved, completed, created_at
		FROM goals WHERE username = ? ORDER BY position
	`, username)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		var (
			g                         domain.Goal
			target, saved, createdStr string
			completed                 int
		)
		if err := rows.Scan(&g.ID, &g.Name, &target, &saved, &completed, &createdStr); err != nil {
			return nil, err
		}
		if g.Target, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("goal %s target: %w", g.ID, err)
		}
		if g.Saved, err = decimal.NewFromString(saved); err != nil {
			return nil, fmt.Errorf("goal %s saved: %w", g.ID, err)
		}
		g.Completed = completed == 1
		g.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (d *DB) loadSavings(ctx context.Context, username string) ([]domain.SavingsEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, amount, entry_date, goal_id
		FROM savings_entries WHERE username = ? ORDER BY position
	`, username)
	if err != nil {
		return nil, fmt.Errorf("load savings: %w", err)
	}
	defer rows.Close()

	var entries []domain.SavingsEntry
	for rows.Next() {
		var (
			s               domain.SavingsEntry
			amount, dateStr string
		)
		if err := rows.Scan(&s.ID, &amount, &dateStr, &s.GoalID); err != nil {
			return nil, err
		}
		if s.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("savings %s amount: %w", s.ID, err)
		}
		s.Date, _ = time.Parse(dateLayout, dateStr)
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

// ListUsernames returns all usernames in sorted order.
func (d *DB) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ domain.ProfileStore = (*DB)(nil)
