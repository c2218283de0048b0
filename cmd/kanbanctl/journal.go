package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/kanban-server/board"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Print the most recent journal entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := newClient().GetJournal()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

var logCmd = &cobra.Command{
	Use:   "log <text>",
	Short: "Append a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().AddJournalEntry(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var update board.Update

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Move a task and/or log a journal entry in one call",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if update.TaskID == "" && update.JournalEntry == "" {
			return errors.New("nothing to do: pass --task/--status and/or --entry")
		}
		res, err := newClient().QuickUpdate(update)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the server is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Health(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&update.TaskID, "task", "", "Task ID to move")
	updateCmd.Flags().StringVar(&update.Status, "status", "", "New current status")
	updateCmd.Flags().StringVar(&update.JournalEntry, "entry", "", "Journal entry text")
}
