package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/db"
)

func (a *app) scheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "manage the day-schedule grid",
	}

	var (
		addDate  string
		addColor string
	)

	add := &cobra.Command{
		Use:   "add <title> <start> <end>",
		Short: "add a timed block (times are HH:MM)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addDate == "" {
				addDate = time.Now().Format(db.DateFormat)
			}

			event := &db.ScheduleEvent{
				Date:      addDate,
				Title:     args[0],
				StartTime: args[1],
				EndTime:   args[2],
				Color:     addColor,
			}

			if err := a.db.InsertScheduleEvent(cmd.Context(), event); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), event.ID)

			return nil
		},
	}

	add.Flags().StringVar(&addDate, "date", "", "date (default: today)")
	add.Flags().StringVar(&addColor, "color", "", "display color")

	var listDate string

	list := &cobra.Command{
		Use:   "list",
		Short: "list a date's blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listDate == "" {
				listDate = time.Now().Format(db.DateFormat)
			}

			events, err := a.db.ListScheduleEventsForDate(cmd.Context(), listDate)
			if err != nil {
				return err
			}

			for _, event := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s-%s  %s\n", event.ID, event.StartTime, event.EndTime, event.Title)
			}

			return nil
		},
	}

	list.Flags().StringVar(&listDate, "date", "", "date (default: today)")

	remove := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "delete a block and unlink its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.db.DeleteScheduleEvent(cmd.Context(), args[0])
		},
	}

	upcoming := &cobra.Command{
		Use:   "upcoming",
		Short: "list blocks starting within the notification window",
		RunE: func(cmd *cobra.Command, args []string) error {
			lead := time.Duration(a.cfg.NotifyLeadMinutes) * time.Minute

			events, err := a.notify.Upcoming(cmd.Context(), time.Now(), lead)
			if err != nil {
				return err
			}

			for _, event := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", event.StartTime, event.ID, event.Title)
			}

			return nil
		},
	}

	cmd.AddCommand(add, list, remove, upcoming)

	return cmd
}
