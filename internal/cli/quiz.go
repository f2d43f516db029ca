package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finquest-app/finquest/internal/app/quiz"
	"github.com/finquest-app/finquest/internal/daemon"
)

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.AddCommand(quizValidateCmd)
	quizCmd.AddCommand(quizListCmd)
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Inspect quiz question banks",
}

// ─── quiz validate ──────────────────────────────────────────────────────────

var quizValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a TOML question bank",
	Long: `Check that every question in a TOML bank has a prompt, at least two
distinct options, and an answer that is one of its options.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := quiz.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %d questions OK\n", args[0], b.Len())
		return nil
	},
}

// ─── quiz list ──────────────────────────────────────────────────────────────

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the questions of the configured bank",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source, err := daemon.LoadQuiz(cfg.Quiz)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i := 0; i < source.Len(); i++ {
			q, _ := source.Question(i)
			fmt.Fprintf(out, "%d. %s\n", i+1, q.Prompt)
			for _, o := range q.Options {
				mark := " "
				if o == q.Answer {
					mark = "*"
				}
				fmt.Fprintf(out, "   %s %s\n", mark, o)
			}
		}
		return nil
	},
}
