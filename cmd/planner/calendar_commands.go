package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/db"
)

func (a *app) calendarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "manage monthly calendar (rota) events",
	}

	var (
		addDate  string
		addStart string
		addEnd   string
	)

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "add a rota marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addDate == "" {
				addDate = time.Now().Format(db.DateFormat)
			}

			event := &db.CalendarEvent{
				Date:      addDate,
				Title:     args[0],
				StartTime: addStart,
				EndTime:   addEnd,
			}

			if err := a.db.InsertCalendarEvent(cmd.Context(), event); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), event.ID)

			return nil
		},
	}

	add.Flags().StringVar(&addDate, "date", "", "date (default: today)")
	add.Flags().StringVar(&addStart, "start", "", "start time (HH:MM)")
	add.Flags().StringVar(&addEnd, "end", "", "end time (HH:MM)")

	var (
		listDate  string
		listMonth string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "list rota markers for a date or a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				events []*db.CalendarEvent
				err    error
			)

			if listMonth != "" {
				month, parseErr := time.Parse("2006-01", listMonth)
				if parseErr != nil {
					return fmt.Errorf("parse month %q: %w", listMonth, parseErr)
				}

				events, err = a.db.ListCalendarEventsForMonth(cmd.Context(), month.Year(), month.Month())
			} else {
				if listDate == "" {
					listDate = time.Now().Format(db.DateFormat)
				}

				events, err = a.db.ListCalendarEventsForDate(cmd.Context(), listDate)
			}

			if err != nil {
				return err
			}

			for _, event := range events {
				times := "all day"
				if event.StartTime != "" {
					times = event.StartTime + "-" + event.EndTime
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-13s %s\n", event.ID, event.Date, times, event.Title)
			}

			return nil
		},
	}

	list.Flags().StringVar(&listDate, "date", "", "date (default: today)")
	list.Flags().StringVar(&listMonth, "month", "", "month (YYYY-MM)")

	remove := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "delete a rota marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.db.DeleteCalendarEvent(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, list, remove)

	return cmd
}
