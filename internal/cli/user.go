package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finquest-app/finquest/internal/app/account"
	"github.com/finquest-app/finquest/internal/app/engagement"
	"github.com/finquest-app/finquest/internal/app/rewards"
	"github.com/finquest-app/finquest/internal/daemon"
)

// ─── User Administration ────────────────────────────────────────────────────
// These commands open the configured store directly. With the memory driver
// nothing outlives the command, so they are only useful against sqlite.

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userRegisterCmd)

	userRegisterCmd.Flags().StringP("password", "p", "", "password for the new user")
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users in the configured store",
}

// openAccounts opens the store and an account service over it.
func openAccounts() (*account.Store, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := daemon.OpenStore(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	log, err := daemon.NewLogger(cfg.Log, io.Discard)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return account.New(store, rewards.New(cfg.Rewards), log), store.Close, nil
}

// ─── user list ──────────────────────────────────────────────────────────────

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, closeFn, err := openAccounts()
		if err != nil {
			return err
		}
		defer closeFn()

		names, err := accounts.Usernames(ctxOf(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No users registered.")
			return nil
		}
		fmt.Fprintf(out, "Registered users (%d):\n", len(names))
		for _, n := range names {
			fmt.Fprintf(out, "  • %s\n", n)
		}
		return nil
	},
}

// ─── user show ──────────────────────────────────────────────────────────────

var userShowCmd = &cobra.Command{
	Use:   "show USERNAME",
	Short: "Show a user's points, badges, goals and recent savings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, closeFn, err := openAccounts()
		if err != nil {
			return err
		}
		defer closeFn()

		render := engagement.DefaultRenderer()
		d, err := engagement.NewDashboardService(accounts, render, 0).Dashboard(ctxOf(cmd), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", d.Username)
		fmt.Fprintf(out, "  Points:       %d\n", d.Points)
		fmt.Fprintf(out, "  Total saved:  %s\n", d.TotalSavedDisplay)
		fmt.Fprintf(out, "  Badges:       %d\n", d.BadgeCount)
		for _, b := range d.Badges {
			if b.Earned {
				fmt.Fprintf(out, "    🏅 %s\n", b.Name)
			}
		}
		if len(d.Goals) > 0 {
			fmt.Fprintln(out, "  Goals:")
			for _, g := range d.Goals {
				state := fmt.Sprintf("%.1f%%", g.ProgressPct)
				if g.Completed {
					state = "completed"
				}
				fmt.Fprintf(out, "    %s: %s / %s (%s)\n", g.Name, render.Money(g.Saved), render.Money(g.Target), state)
			}
		}
		if len(d.RecentSavings) > 0 {
			fmt.Fprintln(out, "  Recent savings:")
			for _, e := range d.RecentSavings {
				fmt.Fprintf(out, "    💰 %s on %s\n", render.Money(e.Amount), e.Date.Format("2006-01-02"))
			}
		}
		return nil
	},
}

// ─── user register ──────────────────────────────────────────────────────────

var userRegisterCmd = &cobra.Command{
	Use:   "register USERNAME",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("password required: finquest user register %s -p <password>", args[0])
		}

		accounts, closeFn, err := openAccounts()
		if err != nil {
			return err
		}
		defer closeFn()

		p, out, err := accounts.Register(ctxOf(cmd), args[0], password)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✅ User %q registered.\n", p.Username)
		for _, m := range engagement.DefaultRenderer().Outcome(p, out) {
			fmt.Fprintf(w, "   %s\n", m)
		}
		return nil
	},
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
