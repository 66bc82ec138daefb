package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo setzt die per ldflags injizierten Build-Informationen
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "canvas-clickup-sync",
		Short: "Canvas Assignments als ClickUp Tasks synchronisieren",
		Long: `Canvas zu ClickUp Sync

Lädt die Assignments aller aktiven Canvas-Kurse, ordnet sie über das
Custom Field "Canvas Link" den Tasks einer ClickUp-Liste zu und legt
fehlende Tasks an bzw. aktualisiert abweichende Felder.

Welche Felder angelegt und überschrieben werden, steuert die
Sync-Konfiguration (SYNC_CONFIG, Standard: config.yml).`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newSyncCmd(), newAuthCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Versionsinformationen ausgeben",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "canvas-clickup-sync %s\ncommit: %s\nbuilt:  %s\n",
				appVersion, appCommit, appDate)
		},
	}
}

// Execute führt die Root-Command mit den Argumenten aus os.Args aus
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
