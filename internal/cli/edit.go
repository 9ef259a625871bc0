package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aygame101/cardboard/internal/app"
)

func newEditCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [card-id]",
		Short: "Open the interactive checklist editor",
		Long:  "Open the checklist editor for a card. Without a card id the last edited card is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				cardID := ""
				if len(args) == 1 {
					cardID = strings.TrimSpace(args[0])
				}
				if cardID == "" {
					cardID = application.Prefs.LastCard
				}
				if cardID == "" {
					return fmt.Errorf("card id required (no last edited card)")
				}
				return application.RunEditor(cmd.Context(), cardID)
			})
		},
	}
}
