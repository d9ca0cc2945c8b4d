package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingo/internal/config"
	"github.com/abhisek/lingo/internal/logging"
	"github.com/abhisek/lingo/internal/progress"
	"github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/store"
)

// cfg and logger are set before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lingo",
	Short: "English sentence practice with graded answers and level progression",
	Long: "Lingo grades English sentence answers, tracks concept review boxes and " +
		"moves learners between levels as their results improve.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		l, err := logging.Setup(c.Log, os.Stderr)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGO_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a lingo.yaml config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(gradeBatchCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(drillCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured store path, then LINGO_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// loadPolicies reads the configured policy file, or the built-in defaults.
func loadPolicies() (*config.Policies, error) {
	if cfg == nil || cfg.Policy.File == "" {
		return config.DefaultPolicies(), nil
	}
	return config.LoadPolicies(cfg.Policy.File)
}

// newPlanner builds the session gate with the configured default limit.
func newPlanner() *session.GatePlanner {
	p := session.NewPlanner()
	if cfg != nil {
		p.DefaultLimit = cfg.Session.DefaultLimit
	}
	return p
}

// openService opens the store and wires a progress service over it.
// The caller closes the returned store.
func openService(cmd *cobra.Command) (*progress.Service, *store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	policies, err := loadPolicies()
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load policies: %w", err)
	}

	svc := progress.NewService(progress.Options{
		Sessions: st.Sessions(),
		Sink:     progress.WithLogging(st.Attempts(), logger),
		Results:  st.Attempts(),
		Stats:    st.Stats(),
		Levels:   st.Users(),
		Policies: policies,
		Planner:  newPlanner(),
		Logger:   logger,
	})
	return svc, st, nil
}
