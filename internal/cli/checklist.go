package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aygame101/cardboard/internal/app"
	"github.com/aygame101/cardboard/internal/checklist"
)

func newChecklistCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Create, save and delete checklists",
	}
	cmd.AddCommand(newChecklistCreateCmd(a))
	cmd.AddCommand(newChecklistSaveCmd(a))
	cmd.AddCommand(newChecklistDeleteCmd(a))
	return cmd
}

func newChecklistCreateCmd(a *App) *cobra.Command {
	var name string
	var items []string

	cmd := &cobra.Command{
		Use:   "create <card-id>",
		Short: "Create a checklist with items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				res, err := application.Create(cmd.Context(), args[0], name, items)
				if err != nil {
					return fmt.Errorf("%s: %w", checklist.MsgCreateFailed, err)
				}
				if err := writeOut(cmd, a, res); err != nil {
					return err
				}
				if res.ItemsFailed > 0 {
					return ErrPartialFailure
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Checklist name (default \"Checklist\")")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Item name (repeatable)")
	return cmd
}

func newChecklistSaveCmd(a *App) *cobra.Command {
	var name string
	var items []string
	var clear bool

	cmd := &cobra.Command{
		Use:   "save <card-id> <checklist-id>",
		Short: "Make a checklist hold exactly the given items",
		Long: strings.TrimSpace(`
Save fetches the checklist, renames it when --name differs, and then issues
the minimal deletes and adds so the remote items match the --item list.
Items are matched by exact name; completion of kept items is preserved and
order is not changed.`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(checklist.FilterDesired(items)) == 0 && !clear {
				return fmt.Errorf("no items given (use --clear to remove every item)")
			}
			cardID, checklistID := args[0], args[1]
			return withApp(a, func(application *app.App) error {
				persisted, err := application.Checklists.Fetch(cmd.Context(), cardID, checklistID)
				if err != nil {
					return err
				}
				if strings.TrimSpace(name) == "" {
					name = persisted.Name
				}
				out, err := application.Save(cmd.Context(), persisted, cardID, name, items)
				if werr := writeEnvelope(cmd, a, envelope{Data: out, Meta: map[string]any{"messages": messages(out)}}); werr != nil {
					return werr
				}
				if err != nil {
					return err
				}
				if !out.Success() {
					return ErrPartialFailure
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New checklist name (default keeps the current name)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Desired item name (repeatable)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Allow saving with no items, deleting every item")
	return cmd
}

func newChecklistDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <checklist-id>",
		Short: "Delete a checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				if err := application.Delete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("%s: %w", checklist.MsgDeleteFailed, err)
				}
				return writeOut(cmd, a, map[string]any{"id": args[0], "deleted": true})
			})
		},
	}
}

func messages(out checklist.SaveOutcome) []string {
	msgs := out.Messages()
	if msgs == nil {
		return []string{}
	}
	return msgs
}
