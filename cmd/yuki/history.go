package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"yuki/internal/textproc"
)

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		stats bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled in %s", cfg.Path())
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if stats {
				s, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exchanges: %d (voice %d, text %d)\n", s.Total, s.Voice, s.Text)
				fmt.Fprintf(out, "Sessions:  %d\n", s.Sessions)
				fmt.Fprintf(out, "Average:   %s\n", textproc.FormatDuration(s.AvgDuration.Seconds()))
				for _, a := range s.TopActions {
					fmt.Fprintf(out, "  %-16s %d\n", a.Action, a.Count)
				}
				return nil
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSOURCE\tACTION\tINPUT\tREPLY")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.At.Format(time.DateTime), e.Source, e.Action, e.Input, e.Reply)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of exchanges to show")
	cmd.Flags().BoolVar(&stats, "stats", false, "show totals instead of exchanges")
	return cmd
}
