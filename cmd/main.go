package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"hufschlaeger.net/canvas-clickup-sync/internal/cli"
	"hufschlaeger.net/canvas-clickup-sync/internal/service"
)

// Per ldflags beim Build gesetzt
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, failureMessage(err))
		os.Exit(1)
	}
}

// failureMessage unterscheidet Abbrüche vor dem Schreiben (Daten oder
// Listen-Schema inkonsistent) von fehlgeschlagenen Läufen
func failureMessage(err error) string {
	if service.IsFatal(err) {
		return fmt.Sprintf("❌ Synchronisation abgebrochen, nichts geschrieben: %v", err)
	}
	return fmt.Sprintf("❌ Synchronisation fehlgeschlagen: %v", err)
}
