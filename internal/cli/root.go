// Package cli implements the cardboard command tree. Every command except
// edit and logs prints a JSON envelope on stdout.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aygame101/cardboard/internal/app"
)

// ErrPartialFailure is returned after printing an outcome in which some
// remote calls failed.
var ErrPartialFailure = errors.New("some operations failed")

// App carries the global flags shared by every command.
type App struct {
	ConfigPath string
	PrefsPath  string
	PrettyJSON bool

	// Test overrides.
	remote    app.Remote
	logWriter io.Writer
}

// NewRootCmd builds the cardboard command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cardboard",
		Short:         "Edit task board checklists from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Find a card
  cardboard boards
  cardboard lists <board-id>
  cardboard cards <list-id>

  # Edit its checklists interactively
  cardboard edit <card-id>

  # Scriptable save: make the checklist hold exactly these items
  cardboard checklist save <card-id> <checklist-id> --item "Buy eggs" --item "Buy bread"
`),
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", "", "Config file (default ~/.config/cardboard/config.toml)")
	cmd.PersistentFlags().StringVar(&a.PrefsPath, "prefs", "", "Preferences file (default ~/.config/cardboard/prefs.toml)")
	cmd.PersistentFlags().BoolVar(&a.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newBoardsCmd(a))
	cmd.AddCommand(newListsCmd(a))
	cmd.AddCommand(newCardsCmd(a))
	cmd.AddCommand(newChecklistsCmd(a))
	cmd.AddCommand(newChecklistCmd(a))
	cmd.AddCommand(newItemCmd(a))
	cmd.AddCommand(newEditCmd(a))
	cmd.AddCommand(newLogsCmd(a))

	return cmd
}

// open builds the application for one command run. The caller closes it.
func (a *App) open() (*app.App, error) {
	return app.New(app.Options{
		ConfigPath: a.ConfigPath,
		PrefsPath:  a.PrefsPath,
		LogWriter:  a.logWriter,
		Remote:     a.remote,
	})
}

// withApp opens the application, runs fn and closes it again.
func withApp(a *App, fn func(*app.App) error) error {
	application, err := a.open()
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()
	return fn(application)
}

type envelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

func writeOut(cmd *cobra.Command, a *App, data any) error {
	return writeEnvelope(cmd, a, envelope{Data: data})
}

func writeEnvelope(cmd *cobra.Command, a *App, env envelope) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if a.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
