package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"carbrand-quiz/internal/app"
	"carbrand-quiz/internal/domain"
	"github.com/spf13/cobra"
)

// NewScoresCmd prints the leaderboard.
func NewScoresCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()
			return printLeaderboard(ctx, cmd.OutOrStdout(), e.service, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries to show")
	return cmd
}

func printLeaderboard(ctx context.Context, out io.Writer, service *app.GameService, limit int) error {
	top, err := service.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Fprintln(out, "No scores yet! Be the first to play!")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tSCORE")
	for i, entry := range top {
		fmt.Fprintf(w, "%s\t%s\t%d\n", domain.Ordinal(i+1), domain.DisplayName(entry.PlayerName), entry.BestScore)
	}
	return w.Flush()
}
