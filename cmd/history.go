package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kyrias/bano/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the history database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quietLog()

		cs, err := openStore()
		if err != nil {
			return err
		}
		cfg, err := cs.Load()
		if err != nil {
			return err
		}
		if cfg.Defaults.HistoryDB == "" {
			return errors.New("history_db is not set in the config")
		}

		h, err := store.Open(cfg.Defaults.HistoryDB)
		if err != nil {
			return err
		}
		defer h.Close()

		runs, err := h.Runs(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func printRuns(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, r := range runs {
		label := yellow(r.Status)
		switch r.Status {
		case store.StatusOK:
			label = green(r.Status)
		case store.StatusFailed:
			label = red(r.Status)
		}

		took := "-"
		if r.FinishedAt != nil {
			took = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}

		fmt.Fprintf(w, "%s  %-7s  %8s  %s\n", r.StartedAt.Local().Format(time.DateTime), label, took, r.ID)
		for _, o := range r.Outputs {
			fmt.Fprintf(w, "    %-6s %4d entries  %s\n", o.Short, o.Entries, o.Path)
		}
		if r.Error != "" {
			fmt.Fprintf(w, "    %s\n", firstLine(r.Error))
		}
	}
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
