package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finquest-app/finquest/internal/domain"
)

func init() {
	rootCmd.AddCommand(badgesCmd)
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List the badge catalog and how to earn each badge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Badges (%d):\n", len(domain.DefaultBadges()))
		for _, b := range domain.DefaultBadges() {
			fmt.Fprintf(out, "  🏅 %-14s %s\n", b.Name, describeCriterion(b.Criterion))
			fmt.Fprintf(out, "     %s\n", b.Description)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Points: register +%d, goal +%d, savings +%d, correct answer +%d, goal completed +%d\n",
			cfg.Rewards.RegisterPoints, cfg.Rewards.GoalPoints, cfg.Rewards.SavingsPoints,
			cfg.Rewards.QuizPoints, cfg.Rewards.GoalCompletedPoints)
		return nil
	},
}

func describeCriterion(c domain.BadgeCriterion) string {
	switch c.Kind {
	case domain.CriterionOnAction:
		switch c.Action {
		case domain.ActionRegister:
			return "create an account"
		case domain.ActionFirstSave:
			return "log your first savings"
		case domain.ActionFirstGoal:
			return "set your first goal"
		case domain.ActionCompleteGoal:
			return "complete a goal"
		}
		return string(c.Action)
	case domain.CriterionQuizCorrectCount:
		return fmt.Sprintf("answer %d quiz questions correctly", c.Threshold)
	case domain.CriterionTotalPoints:
		return fmt.Sprintf("reach %d points", c.Threshold)
	default:
		return string(c.Kind)
	}
}
