package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/db"
)

func (a *app) noteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "daily notes",
	}

	var setDate string

	set := &cobra.Command{
		Use:   "set <content>",
		Short: "write (replace) a date's note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if setDate == "" {
				setDate = time.Now().Format(db.DateFormat)
			}

			return a.db.SaveDailyNote(cmd.Context(), setDate, args[0])
		},
	}

	set.Flags().StringVar(&setDate, "date", "", "date (default: today)")

	var getDate string

	get := &cobra.Command{
		Use:   "get",
		Short: "print a date's note",
		RunE: func(cmd *cobra.Command, args []string) error {
			if getDate == "" {
				getDate = time.Now().Format(db.DateFormat)
			}

			content, err := a.db.GetDailyNote(cmd.Context(), getDate)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), content)

			return nil
		},
	}

	get.Flags().StringVar(&getDate, "date", "", "date (default: today)")

	list := &cobra.Command{
		Use:   "list",
		Short: "list all notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.db.ListDailyNotes(cmd.Context())
			if err != nil {
				return err
			}

			for _, note := range notes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", note.Date, note.Content)
			}

			return nil
		},
	}

	cmd.AddCommand(set, get, list)

	return cmd
}

func (a *app) focusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "focus (pomodoro) session log",
	}

	var (
		logDate  string
		logStart string
		logTask  string
	)

	logCmd := &cobra.Command{
		Use:   "log <minutes>",
		Short: "record a finished focus session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var minutes int
			if _, err := fmt.Sscanf(args[0], "%d", &minutes); err != nil {
				return fmt.Errorf("parse minutes %q: %w", args[0], err)
			}

			if logDate == "" {
				logDate = time.Now().Format(db.DateFormat)
			}

			return a.db.InsertFocusEntry(cmd.Context(), &db.FocusEntry{
				Date:      logDate,
				StartTime: logStart,
				Minutes:   minutes,
				TaskID:    logTask,
			})
		},
	}

	logCmd.Flags().StringVar(&logDate, "date", "", "date (default: today)")
	logCmd.Flags().StringVar(&logStart, "start", "", "start time (HH:MM)")
	logCmd.Flags().StringVar(&logTask, "task", "", "task the session was spent on")

	var listDate string

	list := &cobra.Command{
		Use:   "list",
		Short: "list a date's sessions and total minutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listDate == "" {
				listDate = time.Now().Format(db.DateFormat)
			}

			entries, err := a.db.ListFocusEntriesForDate(cmd.Context(), listDate)
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d min  %s\n", entry.StartTime, entry.Minutes, entry.TaskID)
			}

			total, err := a.db.FocusMinutesForDate(cmd.Context(), listDate)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "total: %d min\n", total)

			return nil
		},
	}

	list.Flags().StringVar(&listDate, "date", "", "date (default: today)")

	cmd.AddCommand(logCmd, list)

	return cmd
}
