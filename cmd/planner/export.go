package main

import (
	"encoding/csv"
	"os"

	"github.com/spf13/cobra"
)

// csvHeader matches the columns of the tasks table, one task per row.
var csvHeader = []string{
	"id", "description", "status", "date_added", "deadline", "priority",
	"category", "notes", "tags", "date_completed", "schedule_event_id",
	"created_by_automation_id", "show_mode", "parent_task_id",
}

func (a *app) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "export all tasks as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()

				out = file
			}

			list, err := a.db.ListAllTasks(cmd.Context())
			if err != nil {
				return err
			}

			writer := csv.NewWriter(out)

			if err := writer.Write(csvHeader); err != nil {
				return err
			}

			for _, task := range list {
				record := []string{
					task.ID, task.Description, task.Status, task.DateAdded, task.Deadline,
					task.Priority, task.Category, task.Notes, task.Tags, task.DateCompleted,
					task.ScheduleEventID, task.CreatedByAutomationID, task.ShowMode, task.ParentTaskID,
				}

				if err := writer.Write(record); err != nil {
					return err
				}
			}

			writer.Flush()

			return writer.Error()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}
