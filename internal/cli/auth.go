package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	"hufschlaeger.net/canvas-clickup-sync/internal/credential"
)

var (
	storeToken  = credential.Set
	removeToken = credential.Delete
)

var tokenKeys = map[string]string{
	"canvas":  config.CanvasTokenKey,
	"clickup": config.ClickUpTokenKey,
}

func tokenKey(service string) (string, error) {
	key, ok := tokenKeys[strings.ToLower(service)]
	if !ok {
		return "", fmt.Errorf("unbekannter Dienst %q (erlaubt: canvas, clickup)", service)
	}
	return key, nil
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "API Tokens im System-Keyring verwalten",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <canvas|clickup> <token>",
		Short: "Token im Keyring speichern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := tokenKey(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(args[1]) == "" {
				return fmt.Errorf("token darf nicht leer sein")
			}
			if err := storeToken(key, args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "🔐 Token für %s gespeichert\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <canvas|clickup>",
		Short: "Token aus dem Keyring entfernen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := tokenKey(args[0])
			if err != nil {
				return err
			}
			if err := removeToken(key); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Token für %s entfernt\n", args[0])
			return nil
		},
	})

	return cmd
}
