package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingo/internal/app"
	"github.com/abhisek/lingo/internal/drill"
	"github.com/abhisek/lingo/internal/progress"
	drillscreen "github.com/abhisek/lingo/internal/screens/drill"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Practice a deck in the terminal",
	Long: "Asks each deck prompt in turn and grades answers as you type them. " +
		"With --user the deck is planned as a stored session and the answers " +
		"update the learner's review boxes and level.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath, _ := cmd.Flags().GetString("deck")
		limit, _ := cmd.Flags().GetInt("limit")
		user, _ := cmd.Flags().GetString("user")
		typ, _ := cmd.Flags().GetString("type")

		deck, err := drill.LoadDeck(deckPath)
		if err != nil {
			return err
		}
		if user == "" {
			return app.Run(drillscreen.New(drill.New(deck, limit, nil)))
		}

		svc, st, err := openService(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		sp, err := svc.PlanSession(ctx, progress.PlanRequest{
			UserID:     user,
			Type:       typ,
			Limit:      limit,
			Candidates: deck.SessionItems(),
		})
		if err != nil {
			return err
		}
		ids := make([]string, len(sp.Items))
		for i, it := range sp.Items {
			ids[i] = it.ItemID
		}
		planned := deck.Filter(ids)
		if len(planned.Items) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s items in this deck for %s.\n", sp.Plan.Type, user)
			return svc.CompleteSession(ctx, sp.SessionID)
		}

		d := drill.New(planned, 0, nil)
		if err := app.Run(drillscreen.New(d)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if subs := d.Submissions(); len(subs) > 0 {
			outcome, err := svc.GradeSession(ctx, sp.SessionID, subs)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %d answers (%d accepted) to session %s.\n",
				outcome.Summary.Total, outcome.Summary.Accepted, sp.SessionID)
			for _, m := range outcome.Moves {
				fmt.Fprintf(out, "  %s: box %d -> %d\n", m.ConceptKey, m.From, m.To)
			}
		}
		if err := svc.CompleteSession(ctx, sp.SessionID); err != nil {
			return err
		}

		res, err := svc.AutoLevelUp(ctx, user, progress.SourceAuto)
		if err != nil {
			return err
		}
		if res.LeveledUp {
			fmt.Fprintf(out, "Level up! %s is now level %d.\n", user, res.NewLevel)
		}
		return nil
	},
}

func init() {
	drillCmd.Flags().String("deck", "", "YAML or JSON deck to practice")
	drillCmd.Flags().Int("limit", 0, "Number of items (0 for the whole deck, or the configured default with --user)")
	drillCmd.Flags().String("user", "", "Learner ID; answers are stored when set")
	drillCmd.Flags().String("type", "", "Requested session type with --user")
	_ = drillCmd.MarkFlagRequired("deck")
}
