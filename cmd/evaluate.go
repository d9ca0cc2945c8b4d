package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/level"
	"github.com/abhisek/lingo/internal/schema"
	"github.com/abhisek/lingo/internal/session"
)

var gradeCmd = &cobra.Command{
	Use:   "grade ANSWER",
	Short: "Grade one answer against a canonical sentence",
	Example: `  lingo grade "I'm a student" --canonical "I am a student." --variants "I'm a student"
  lingo grade "She go to school" --canonical "She goes to school." --near-misses "She go to school"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		canonical, _ := cmd.Flags().GetString("canonical")
		variants, _ := cmd.Flags().GetString("variants")
		nearMisses, _ := cmd.Flags().GetString("near-misses")
		return printJSON(cmd, grading.Grade(args[0], canonical,
			grading.ParseAnswerList(variants), grading.ParseAnswerList(nearMisses)))
	},
}

// batchDoc is the document read by grade-batch.
type batchDoc struct {
	Items     []grading.Submission        `json:"items"`
	Snapshots map[string]grading.Snapshot `json:"snapshots"`
}

type batchOutput struct {
	Results []grading.ItemResult `json:"results"`
	Summary *session.Summary     `json:"summary"`
}

var gradeBatchCmd = &cobra.Command{
	Use:   "grade-batch",
	Short: "Grade a batch of answers against their snapshots",
	Long:  "Reads {\"items\": [...], \"snapshots\": {...}} from --file or stdin and prints results in input order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		raw, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		doc, err := schema.Decode[batchDoc](schema.Batch, raw)
		if err != nil {
			return err
		}
		results, err := grading.GradeBatch(doc.Items, doc.Snapshots)
		if err != nil {
			return err
		}
		return printJSON(cmd, batchOutput{Results: results, Summary: session.BuildSummary(results, 0)})
	},
}

type promotionDoc struct {
	CurrentLevel int          `json:"current_level"`
	Stats        level.Stats  `json:"stats"`
	Policy       level.Policy `json:"policy"`
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Evaluate a promotion from stats and a policy",
	Long:  "Reads {\"current_level\", \"stats\", \"policy\"} from --file or stdin and prints the decision.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		raw, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		doc, err := schema.Decode[promotionDoc](schema.Promotion, raw)
		if err != nil {
			return err
		}
		return printJSON(cmd, level.Evaluate(doc.CurrentLevel, doc.Stats, doc.Policy))
	},
}

type adjustmentDoc struct {
	CurrentLevel int             `json:"current_level"`
	Stats        level.Stats     `json:"stats"`
	Condition    level.Condition `json:"condition"`
	LevelMix     level.Mix       `json:"level_mix"`
}

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Evaluate a difficulty adjustment from stats and a condition",
	Long:  "Reads {\"current_level\", \"stats\", \"condition\", \"level_mix\"} from --file or stdin and prints the adjustment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		raw, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		doc, err := schema.Decode[adjustmentDoc](schema.Adjustment, raw)
		if err != nil {
			return err
		}
		return printJSON(cmd, level.Adjust(doc.CurrentLevel, doc.Stats, doc.Condition, doc.LevelMix))
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Decide the effective session plan for a request",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		userLevel, _ := cmd.Flags().GetInt("level")
		built, _ := cmd.Flags().GetInt("built")
		limit, _ := cmd.Flags().GetInt("limit")
		return printJSON(cmd, newPlanner().DecidePlan(session.PlanInput{
			Requested:          session.FromClient(typ),
			UserLevel:          userLevel,
			BuiltSentenceCount: built,
			Limit:              limit,
		}))
	},
}

func init() {
	gradeCmd.Flags().String("canonical", "", "Canonical English sentence")
	gradeCmd.Flags().String("variants", "", "Accepted variants separated by | ; , or newlines")
	gradeCmd.Flags().String("near-misses", "", "Known near misses separated by | ; , or newlines")
	_ = gradeCmd.MarkFlagRequired("canonical")

	for _, c := range []*cobra.Command{gradeBatchCmd, promoteCmd, adjustCmd} {
		c.Flags().StringP("file", "f", "-", "JSON input file (- for stdin)")
	}

	planCmd.Flags().String("type", "", "Requested session type: standard, review_only, new_only, weakness")
	planCmd.Flags().Int("level", level.MinLevel, "Learner level")
	planCmd.Flags().Int("built", 0, "Sentences the learner has built so far")
	planCmd.Flags().Int("limit", 0, "Number of items (0 for the default)")
}
