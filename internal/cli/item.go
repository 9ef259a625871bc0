package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aygame101/cardboard/internal/app"
	"github.com/aygame101/cardboard/internal/trello"
)

func newItemCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Work with single checklist items",
	}
	cmd.AddCommand(newItemToggleCmd(a))
	return cmd
}

func newItemToggleCmd(a *App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "toggle <checklist-id> <item-id>",
		Short: "Flip an item's completion, or set it with --state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checklistID, itemID := args[0], args[1]

			var want trello.State
			if target != "" {
				parsed, ok := trello.ParseState(target)
				if !ok {
					return fmt.Errorf("invalid --state %q (want complete or incomplete)", target)
				}
				want = parsed
			}

			return withApp(a, func(application *app.App) error {
				current, err := currentState(cmd, application, checklistID, itemID, want)
				if err != nil {
					return err
				}
				next, err := application.Toggle(cmd.Context(), checklistID, itemID, current)
				if err != nil {
					return err
				}
				return writeOut(cmd, a, map[string]any{"checklistId": checklistID, "itemId": itemID, "state": next})
			})
		},
	}
	cmd.Flags().StringVar(&target, "state", "", "Target state: complete or incomplete")
	return cmd
}

// currentState returns the state to flip from. With a target the current
// state is its opposite; otherwise the item is looked up remotely.
func currentState(cmd *cobra.Command, application *app.App, checklistID, itemID string, want trello.State) (trello.State, error) {
	if want != "" {
		return want.Toggled(), nil
	}
	items, err := application.Remote.ListItems(cmd.Context(), checklistID)
	if err != nil {
		return "", fmt.Errorf("fetch checklist items: %w", err)
	}
	for _, item := range items {
		if item.ID == itemID {
			return item.State, nil
		}
	}
	return "", fmt.Errorf("item %s not found on checklist %s", itemID, checklistID)
}
