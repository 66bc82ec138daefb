package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	"hufschlaeger.net/canvas-clickup-sync/internal/credential"
	"hufschlaeger.net/canvas-clickup-sync/internal/service"
)

// tokenLookup liefert Tokens aus dem System-Keyring, wenn Env und Flags leer sind
var tokenLookup = credential.Get

type syncFlags struct {
	canvasURL    string
	canvasToken  string
	clickupURL   string
	clickupToken string
	listID       string
	policyFile   string
	courses      []string
	concurrency  int
	dryRun       bool
	verbose      bool
}

func newSyncCmd() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Assignments mit der ClickUp-Liste abgleichen",
		Example: `  # Alle aktiven Kurse synchronisieren (Werte aus .env)
  canvas-clickup-sync sync

  # Nur bestimmte Kurse, ohne zu schreiben
  canvas-clickup-sync sync --course 101 --course 202 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			policy, err := config.LoadPolicy(cfg.PolicyFile)
			if err != nil {
				return fmt.Errorf("sync-konfiguration fehlerhaft: %w", err)
			}

			if cfg.Verbose {
				cfg.PrintDebugInfo()
			}

			syncer := service.NewSyncer(cfg, policy, service.WithOutput(cmd.OutOrStdout()))
			_, err = syncer.Sync(cmd.Context())
			return err
		},
	}

	bindSyncFlags(cmd, flags)
	return cmd
}

func bindSyncFlags(cmd *cobra.Command, flags *syncFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.canvasURL, "canvas-url", "", "Canvas Basis-URL (CANVAS_URL)")
	f.StringVar(&flags.canvasToken, "canvas-token", "", "Canvas Access Token (CANVAS_TOKEN)")
	f.StringVar(&flags.clickupURL, "clickup-url", "", "ClickUp API URL (CLICKUP_URL)")
	f.StringVar(&flags.clickupToken, "clickup-token", "", "ClickUp Personal Token (CLICKUP_TOKEN)")
	f.StringVar(&flags.listID, "list", "", "ClickUp Listen-ID (CLICKUP_LIST_ID)")
	f.StringVar(&flags.policyFile, "config", "", "Sync-Konfiguration (SYNC_CONFIG)")
	f.StringSliceVar(&flags.courses, "course", nil, "Canvas Kurs-ID, mehrfach möglich (COURSE_IDS)")
	f.IntVar(&flags.concurrency, "concurrency", config.DefaultConcurrency, "Parallele Requests (CONCURRENCY)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Nur den Plan ausgeben, nichts schreiben (DRY_RUN)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Ausführliche Ausgabe (VERBOSE)")
}

// loadConfig: Env (.env) als Basis, gesetzte Flags gewinnen, leere Tokens
// kommen aus dem Keyring
func loadConfig(cmd *cobra.Command, flags *syncFlags) (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("canvas-url") {
		cfg.CanvasURL = flags.canvasURL
	}
	if changed("canvas-token") {
		cfg.CanvasToken = flags.canvasToken
	}
	if changed("clickup-url") {
		cfg.ClickUpURL = flags.clickupURL
	}
	if changed("clickup-token") {
		cfg.ClickUpToken = flags.clickupToken
	}
	if changed("list") {
		cfg.ClickUpListID = flags.listID
	}
	if changed("config") {
		cfg.PolicyFile = flags.policyFile
	}
	if changed("course") {
		cfg.CourseIDs = flags.courses
	}
	if changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}
	if changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if changed("verbose") {
		cfg.Verbose = flags.verbose
	}

	if os.Getenv("KEYRING_DISABLE") == "" {
		cfg.ResolveTokens(tokenLookup)
	}

	return cfg, nil
}
