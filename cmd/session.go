package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingo/internal/drill"
	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/progress"
	"github.com/abhisek/lingo/internal/schema"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create, grade and complete stored sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Plan a session for a learner from a deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		deckPath, _ := cmd.Flags().GetString("deck")
		typ, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		deck, err := drill.LoadDeck(deckPath)
		if err != nil {
			return err
		}
		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sp, err := svc.PlanSession(cmd.Context(), progress.PlanRequest{
			UserID:     user,
			Type:       typ,
			Limit:      limit,
			Candidates: deck.SessionItems(),
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, sp)
	},
}

type attemptsDoc struct {
	Items []grading.Submission `json:"items"`
}

var sessionGradeCmd = &cobra.Command{
	Use:   "grade SESSION_ID",
	Short: "Grade answers for a stored session",
	Long:  "Reads {\"items\": [{\"item_id\", \"user_answer\", \"latency_ms\"}]} from --file or stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		raw, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		doc, err := schema.Decode[attemptsDoc](schema.Attempts, raw)
		if err != nil {
			return err
		}

		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		out, err := svc.GradeSession(cmd.Context(), args[0], doc.Items)
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show SESSION_ID",
	Short: "Show a stored session with its items, answers and adjustment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		detail, err := svc.Session(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, detail)
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete SESSION_ID",
	Short: "Mark a stored session as ended",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := svc.CompleteSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session", args[0], "completed.")
		return nil
	},
}

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show and advance a learner's level",
}

var levelShowCmd = &cobra.Command{
	Use:   "show USER_ID",
	Short: "Show the current level and level history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		info, err := svc.Level(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

var levelEvaluateCmd = &cobra.Command{
	Use:   "evaluate USER_ID",
	Short: "Evaluate promotion from stored statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		d, err := svc.EvaluatePromotion(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, d)
	},
}

var levelUpCmd = &cobra.Command{
	Use:   "up USER_ID",
	Short: "Promote the learner when every threshold is met",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := progress.SourceAuto
		if manual, _ := cmd.Flags().GetBool("manual"); manual {
			source = progress.SourceManual
		}

		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := svc.AutoLevelUp(cmd.Context(), args[0], source)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	sessionCreateCmd.Flags().String("user", "", "Learner ID")
	sessionCreateCmd.Flags().String("deck", "", "YAML or JSON deck supplying candidate items")
	sessionCreateCmd.Flags().String("type", "", "Requested session type")
	sessionCreateCmd.Flags().Int("limit", 0, "Number of items (0 for the default)")
	_ = sessionCreateCmd.MarkFlagRequired("user")
	_ = sessionCreateCmd.MarkFlagRequired("deck")

	sessionGradeCmd.Flags().StringP("file", "f", "-", "JSON answers file (- for stdin)")

	sessionCmd.AddCommand(sessionCreateCmd, sessionGradeCmd, sessionShowCmd, sessionCompleteCmd)

	levelUpCmd.Flags().Bool("manual", false, "Record the change as a manual level-up")
	levelCmd.AddCommand(levelShowCmd, levelEvaluateCmd, levelUpCmd)
}
