package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/db"
	"github.com/matt-steen/day-planner/pkg/notify"
	"github.com/matt-steen/day-planner/pkg/sweep"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func (a *app) automationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automation",
		Short: "manage and run automation rules",
	}

	cmd.AddCommand(
		a.automationAddCommand(),
		a.automationListCommand(),
		a.automationDeleteCommand(),
		a.automationRunCommand(),
		a.automationSweepCommand(),
	)

	return cmd
}

func (a *app) automationAddCommand() *cobra.Command {
	var (
		name         string
		days         []string
		taskActions  []string
		blockActions []string
	)

	cmd := &cobra.Command{
		Use:   "add <trigger-title>",
		Short: "create a rule triggered by a calendar event title",
		Long: `Create a rule. Task actions are "description|priority|category",
schedule actions are "title|start|end" (times HH:MM). Repeat the flags for
multiple actions. --day limits the rule to weekdays (sun..sat); omit it to
fire on any day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask := 0

			for _, day := range days {
				weekday, ok := weekdayNames[strings.ToLower(day)]
				if !ok {
					return fmt.Errorf("unknown weekday %q", day)
				}

				mask |= db.DayMask(weekday)
			}

			rule := &db.Automation{
				TriggerTitle: args[0],
				RuleName:     name,
				TriggerDays:  mask,
			}

			for _, spec := range taskActions {
				params := splitParams(spec)
				rule.Actions = append(rule.Actions, &db.AutomationAction{
					ActionType: db.ActionEnsureTask,
					Param1:     params[0], Param2: params[1], Param3: params[2],
				})
			}

			for _, spec := range blockActions {
				params := splitParams(spec)
				rule.Actions = append(rule.Actions, &db.AutomationAction{
					ActionType: db.ActionCreateScheduleBlock,
					Param1:     params[0], Param2: params[1], Param3: params[2],
				})
			}

			if err := a.db.SaveAutomation(cmd.Context(), rule); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), rule.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rule name")
	cmd.Flags().StringArrayVar(&days, "day", nil, "limit to weekday (repeatable: sun..sat)")
	cmd.Flags().StringArrayVar(&taskActions, "task", nil, `ensure-task action: "description|priority|category"`)
	cmd.Flags().StringArrayVar(&blockActions, "block", nil, `schedule-block action: "title|start|end"`)

	return cmd
}

// splitParams splits "a|b|c" into exactly three params, padding with "".
func splitParams(spec string) [3]string {
	var params [3]string

	for i, part := range strings.SplitN(spec, "|", 3) {
		params[i] = strings.TrimSpace(part)
	}

	return params
}

func (a *app) automationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list rules and their actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.db.ListAutomations(cmd.Context())
			if err != nil {
				return err
			}

			for _, rule := range rules {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %q on %q\n", rule.ID, rule.RuleName, rule.TriggerTitle)

				for _, action := range rule.Actions {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s: %s | %s | %s\n",
						action.ActionType, action.Param1, action.Param2, action.Param3)
				}
			}

			return nil
		},
	}
}

func (a *app) automationDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "delete a rule and its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.db.DeleteAutomation(cmd.Context(), args[0])
		},
	}
}

func (a *app) automationRunCommand() *cobra.Command {
	var (
		date  string
		title string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run rules for a date's calendar events (or one title with --title)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(db.DateFormat)
			}

			var (
				ran bool
				err error
			)

			if title != "" {
				ran, err = a.automation.RunForEvent(cmd.Context(), title, date)
			} else {
				ran, err = a.automation.RunAllForDate(cmd.Context(), date)
			}

			if err != nil {
				return err
			}

			if ran {
				fmt.Fprintln(cmd.OutOrStdout(), "actions ran")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date (default: today)")
	cmd.Flags().StringVar(&title, "title", "", "run rules for this event title only")

	return cmd
}

func (a *app) automationSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "run the daily sweep and the upcoming-event check until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			lead := time.Duration(a.cfg.NotifyLeadMinutes) * time.Minute
			sweeper := sweep.New(a.automation, notify.NewChecker(a.db), lead)

			if err := sweeper.Start(cmd.Context(), a.cfg.SweepTime); err != nil {
				return err
			}

			defer sweeper.Stop()

			<-cmd.Context().Done()

			return nil
		},
	}
}
