package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aygame101/cardboard/internal/config"
	"github.com/aygame101/cardboard/internal/logging"
	"github.com/aygame101/cardboard/internal/logtail"
)

func newLogsCmd(a *App) *cobra.Command {
	var lines int
	var level string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the cardboard log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := logtail.Read(cfg.LogPath(), lines)
			if err != nil {
				return err
			}
			if level != "" {
				out = logtail.Filter(out, logging.ParseLevel(level))
			}
			w := cmd.OutOrStdout()
			for _, line := range out {
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines (0 for the whole file)")
	cmd.Flags().StringVar(&level, "level", "", "Only show lines at or above this level (debug|info|warn|error)")
	return cmd
}
