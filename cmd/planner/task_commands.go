package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/db"
	"github.com/matt-steen/day-planner/pkg/tasks"
)

func (a *app) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "manage tasks, sub-tasks, and dependencies",
	}

	cmd.AddCommand(
		a.taskAddCommand(),
		a.taskListCommand(),
		a.taskDueCommand(),
		a.taskDoneCommand(),
		a.taskReopenCommand(),
		a.taskCheckCommand(),
		a.taskDeleteCommand(),
		a.taskDepCommand(),
	)

	return cmd
}

func taskFieldFlags(cmd *cobra.Command, fields *tasks.Fields) {
	cmd.Flags().StringVar(&fields.Deadline, "deadline", "", "deadline date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fields.Priority, "priority", "", "priority (Low, Medium, High)")
	cmd.Flags().StringVar(&fields.Category, "category", "", "category name")
	cmd.Flags().StringVar(&fields.Notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&fields.Tags, "tags", "", "comma-joined tags")
	cmd.Flags().StringVar(&fields.ShowMode, "show-mode", "", "auto or always_pending")
}

func (a *app) taskAddCommand() *cobra.Command {
	var (
		fields tasks.Fields
		parent string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "create a task (or a sub-task with --parent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields.Description = args[0]

			var (
				task *db.Task
				err  error
			)

			if parent == "" {
				task, err = a.tasks.CreateTask(cmd.Context(), fields)
			} else {
				task, err = a.tasks.CreateSubTask(cmd.Context(), parent, fields)
			}

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), task.ID)

			return nil
		},
	}

	taskFieldFlags(cmd, &fields)
	cmd.Flags().StringVar(&parent, "parent", "", "parent task id")

	return cmd
}

func (a *app) taskListCommand() *cobra.Command {
	var (
		status string
		parent string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list top-level tasks (or a parent's sub-tasks)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []*db.Task
				err  error
			)

			if parent != "" {
				list, err = a.db.ListSubTasks(cmd.Context(), parent, status)
			} else {
				list, err = a.db.ListTopLevelTasks(cmd.Context(), status)
			}

			if err != nil {
				return err
			}

			printTasks(cmd, list)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", db.StatusPending, "task status filter")
	cmd.Flags().StringVar(&parent, "parent", "", "list sub-tasks of this task")

	return cmd
}

func (a *app) taskDueCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "list tasks due on a date (deadline, show date, or always pending)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(db.DateFormat)
			}

			list, err := a.tasks.TasksDueOn(cmd.Context(), date)
			if err != nil {
				return err
			}

			for _, task := range list {
				done, err := a.tasks.IsOccurrenceComplete(cmd.Context(), task.ID, date)
				if err != nil {
					return err
				}

				mark := " "
				if done || task.Status == db.StatusCompleted {
					mark = "x"
				}

				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s (%s)\n", mark, task.ID, task.Description, task.Priority)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (default: today)")

	return cmd
}

func (a *app) taskDoneCommand() *cobra.Command {
	var occurrence string

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "complete a task, or log a recurring occurrence with --occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if occurrence != "" {
				return a.tasks.SetOccurrenceComplete(cmd.Context(), args[0], occurrence, true)
			}

			return a.tasks.SetStatus(cmd.Context(), args[0], true)
		},
	}

	cmd.Flags().StringVar(&occurrence, "occurrence", "", "log completion for this date only (YYYY-MM-DD)")

	return cmd
}

func (a *app) taskReopenCommand() *cobra.Command {
	var occurrence string

	cmd := &cobra.Command{
		Use:   "reopen <task-id>",
		Short: "reopen a task, or clear a recurring occurrence with --occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if occurrence != "" {
				return a.tasks.SetOccurrenceComplete(cmd.Context(), args[0], occurrence, false)
			}

			return a.tasks.SetStatus(cmd.Context(), args[0], false)
		},
	}

	cmd.Flags().StringVar(&occurrence, "occurrence", "", "clear completion for this date only (YYYY-MM-DD)")

	return cmd
}

func (a *app) taskCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <task-id>",
		Short: "show what blocks a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtasks, err := a.tasks.PendingSubtaskCount(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			dependencies, err := a.tasks.PendingDependencyCount(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pending sub-tasks: %d\npending dependencies: %d\n", subtasks, dependencies)

			return nil
		},
	}
}

func (a *app) taskDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "delete a task and everything hanging off it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tasks.DeleteTask(cmd.Context(), args[0])
		},
	}
}

func (a *app) taskDepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "manage prerequisite edges",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task-id> <depends-on-id>",
			Short: "make a task wait for another",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.tasks.AddDependency(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "remove <task-id> <depends-on-id>",
			Short: "remove a prerequisite edge",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.tasks.RemoveDependency(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "list <task-id>",
			Short: "list a task's prerequisites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := a.tasks.Dependencies(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}

				return nil
			},
		},
	)

	return cmd
}

func printTasks(cmd *cobra.Command, list []*db.Task) {
	for _, task := range list {
		deadline := task.Deadline
		if deadline == "" {
			deadline = "-"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %-6s %-10s %s\n",
			task.ID, task.Status, task.Priority, deadline, task.Description)
	}
}
