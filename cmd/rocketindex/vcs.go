package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/gitutil"
)

var blameCmd = &cobra.Command{
	Use:   "blame FILE",
	Short: "Per-line git blame for a tracked file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		repo, err := gitutil.Open(root)
		if err != nil {
			return fmt.Errorf("opening repository at %s: %w", root, err)
		}
		lines, err := repo.Blame(args[0])
		if err != nil {
			return fmt.Errorf("blame %s: %w", args[0], err)
		}
		if len(lines) == 0 {
			return newNotFound("no blame information for %q", args[0])
		}
		return emit(lines, func() {
			for i, l := range lines {
				fmt.Printf("%4d  %-20s %s\n", i+1, l.Author, l.Commit[:min(8, len(l.Commit))])
			}
		})
	},
}

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history FILE",
	Short: "Commit history for a tracked file, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		repo, err := gitutil.Open(root)
		if err != nil {
			return fmt.Errorf("opening repository at %s: %w", root, err)
		}
		entries, err := repo.History(args[0], flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("history %s: %w", args[0], err)
		}
		if len(entries) == 0 {
			return newNotFound("no history for %q", args[0])
		}
		return emit(entries, func() {
			for _, e := range entries {
				fmt.Printf("%s  %-20s %s  %s\n", e.Hash[:min(8, len(e.Hash))], e.Author, e.Date, e.Message)
			}
		})
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum number of commits to show, 0 for unbounded")
}
