// Command ops is the operational CLI: seed the template catalog, run a
// generation pass by hand, mint test tokens, and back up the data directory.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"agentpulse/internal/action"
	"agentpulse/internal/auth"
	"agentpulse/internal/config"
	"agentpulse/internal/generate"
	"agentpulse/internal/model"
	"agentpulse/internal/ops"
	"agentpulse/internal/pulse"
	"agentpulse/internal/store"
	"agentpulse/internal/template"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ops",
		Short:         "agentpulse operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "agentpulse.yml", "path to config file")

	root.AddCommand(
		newSeedCmd(&configPath),
		newGenerateCmd(&configPath),
		newTokenCmd(&configPath),
		newBackupCmd(),
		newRestoreCmd(),
	)
	return root
}

// openStores builds the configured repositories. The caller closes db.
func openStores(configPath string) (*config.Config, *template.SQLRepo, *action.SQLRepo, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage.Driver == "" {
		return nil, nil, nil, nil, fmt.Errorf("storage.driver must be configured for ops commands")
	}
	db, err := store.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		return nil, nil, nil, nil, err
	}
	return cfg, template.NewSQLRepo(db), action.NewSQLRepo(db), db, nil
}

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter template catalog (skips existing ids)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, templates, _, db, err := openStores(*configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			seed := template.SeedTemplates()
			if err := templates.Seed(cmd.Context(), seed); err != nil {
				return fmt.Errorf("seed templates: %w", err)
			}
			fmt.Printf("seeded catalog (%d templates)\n", len(seed))
			return nil
		},
	}
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var (
		userID   string
		created  string
		timezone string
		score    int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one generation pass for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, templates, actions, db, err := openStores(*configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			createdAt, err := time.Parse(time.RFC3339, created)
			if err != nil {
				return fmt.Errorf("--created must be RFC3339: %w", err)
			}

			engine := &generate.Engine{
				Templates:       templates,
				Actions:         actions,
				Scores:          pulse.Fixed(cfg.Generation.DefaultScore),
				Clock:           generate.RealClock{},
				Logger:          log.Default(),
				DefaultTimezone: cfg.Generation.DefaultTimezone,
			}

			user := model.UserState{
				UserID:           userID,
				AccountCreatedAt: createdAt,
				Timezone:         timezone,
			}
			if cmd.Flags().Changed("score") {
				user.CurrentScore = &score
			}

			result, err := engine.Generate(cmd.Context(), user)
			if err != nil {
				return err
			}
			switch result.Outcome {
			case generate.OutcomeCreated:
				fmt.Printf("created %d actions\n", len(result.Actions))
				for _, a := range result.Actions {
					fmt.Printf("  [%d] %s (%s)\n", a.Weight(), a.Title, a.Category)
				}
			case generate.OutcomeAlreadyExists:
				fmt.Println("actions already generated for today")
			case generate.OutcomeNoTemplates:
				fmt.Println("no templates matched")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&created, "created", "", "account creation time, RFC3339 (required)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (default from config)")
	cmd.Flags().IntVar(&score, "score", 0, "override PULSE score (0-100)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("created")
	return cmd
}

func newTokenCmd(configPath *string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			token, err := auth.GenerateToken([]byte(cfg.Auth.JWTSecret), userID, cfg.Auth.TokenTTL())
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newBackupCmd() *cobra.Command {
	var dataDir, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory to a tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ops.Backup(dataDir, out); err != nil {
				return err
			}
			fmt.Printf("backed up %s to %s\n", dataDir, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "data", "data directory")
	cmd.Flags().StringVar(&out, "out", "", "archive path (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a data directory from a backup archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ops.Restore(archive, target); err != nil {
				return err
			}
			fmt.Printf("restored %s into %s\n", archive, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "archive path (required)")
	cmd.Flags().StringVar(&target, "data", "data", "target data directory")
	_ = cmd.MarkFlagRequired("archive")
	return cmd
}
