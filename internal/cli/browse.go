package cli

import (
	"github.com/spf13/cobra"

	"github.com/aygame101/cardboard/internal/app"
)

func newBoardsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List open boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				boards, err := application.Remote.ListBoards(cmd.Context())
				if err != nil {
					return err
				}
				return writeOut(cmd, a, boards)
			})
		},
	}
}

func newListsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lists <board-id>",
		Short: "List the lists of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				lists, err := application.Remote.ListLists(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, a, lists)
			})
		},
	}
}

func newCardsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cards <list-id>",
		Short: "List the cards of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				cards, err := application.Remote.ListCards(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, a, cards)
			})
		},
	}
}

func newChecklistsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "checklists <card-id>",
		Short: "List the checklists of a card with their items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(a, func(application *app.App) error {
				lists, err := application.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, a, lists)
			})
		},
	}
}
