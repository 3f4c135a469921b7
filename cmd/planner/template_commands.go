package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/db"
)

func (a *app) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "manage and instantiate task templates",
	}

	cmd.AddCommand(
		a.templateAddCommand(),
		a.templateListCommand(),
		a.templateDeleteCommand(),
		a.templateInstantiateCommand(),
	)

	return cmd
}

func (a *app) templateAddCommand() *cobra.Command {
	var (
		description string
		category    string
		priority    string
		subTasks    []string
	)

	cmd := &cobra.Command{
		Use:   "add <name> <parent-description>",
		Short: "create a template with one parent row and optional sub-task rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			template := &db.TaskTemplate{
				Name:            args[0],
				Description:     description,
				DefaultCategory: category,
				DefaultPriority: priority,
				Rows:            []*db.TemplateTask{{Description: args[1]}},
			}

			for _, sub := range subTasks {
				template.Rows = append(template.Rows, &db.TemplateTask{
					Description: sub,
					IsSubTask:   true,
				})
			}

			if err := a.db.SaveTemplate(cmd.Context(), template); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), template.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "template description")
	cmd.Flags().StringVar(&category, "category", "", "default category for created tasks")
	cmd.Flags().StringVar(&priority, "priority", "", "default priority for created tasks")
	cmd.Flags().StringArrayVar(&subTasks, "sub", nil, "sub-task description (repeatable)")

	return cmd
}

func (a *app) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list templates and their rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := a.db.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}

			for _, template := range templates {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d rows)\n", template.ID, template.Name, len(template.Rows))

				for _, row := range template.Rows {
					kind := "parent"
					if row.IsSubTask {
						kind = "sub"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "    %-6s %s\n", kind, row.Description)
				}
			}

			return nil
		},
	}
}

func (a *app) templateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "delete a template and its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.db.DeleteTemplate(cmd.Context(), args[0])
		},
	}
}

func (a *app) templateInstantiateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "instantiate <template-id>",
		Short: "expand a template into a real task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := a.templates.Instantiate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), parentID)

			return nil
		},
	}
}
