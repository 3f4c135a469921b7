package db

import (
	"context"
	"database/sql"
	"errors"
)

// SaveAutomation inserts or updates a rule and replaces its actions in a
// single transaction. Trigger titles are globally unique ignoring case; a
// collision with another rule fails before anything is written.
func (d *Database) SaveAutomation(ctx context.Context, rule *Automation) error {
	if rule.RuleName == "" {
		return &ValidationError{Field: "rule name", Reason: "must not be empty"}
	}

	if rule.TriggerTitle == "" {
		return &ValidationError{Field: "trigger title", Reason: "must not be empty"}
	}

	var existingID string

	err := d.conn.QueryRowContext(ctx,
		`SELECT id FROM automations WHERE trigger_title = ? COLLATE NOCASE`,
		rule.TriggerTitle).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return storagef(err, "checking trigger title '%s'", rule.TriggerTitle)
	}

	if existingID != "" && existingID != rule.ID {
		return &DuplicateTriggerError{TriggerTitle: rule.TriggerTitle}
	}

	return d.withTx(ctx, "automation save", func(tx *sql.Tx) error {
		if rule.ID == "" {
			rule.ID = NewID()

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO automations (id, rule_name, trigger_title, trigger_days)
				 VALUES (?, ?, ?, ?)`,
				rule.ID, rule.RuleName, rule.TriggerTitle, rule.TriggerDays); err != nil {
				return storagef(err, "adding automation '%s'", rule.RuleName)
			}
		} else {
			result, err := tx.ExecContext(ctx,
				`UPDATE automations SET rule_name = ?, trigger_title = ?, trigger_days = ?
				 WHERE id = ?`,
				rule.RuleName, rule.TriggerTitle, rule.TriggerDays, rule.ID)
			if err != nil {
				return storagef(err, "updating automation %s", rule.ID)
			}

			if err := requireRow(result, "automation", rule.ID); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`DELETE FROM automation_actions WHERE automation_id = ?`, rule.ID); err != nil {
				return storagef(err, "clearing actions of automation %s", rule.ID)
			}
		}

		for i, action := range rule.Actions {
			if action.ID == "" {
				action.ID = NewID()
			}

			action.AutomationID = rule.ID
			action.SortOrder = i

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO automation_actions (id, automation_id, action_type, param1, param2, param3, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				action.ID, action.AutomationID, action.ActionType,
				nullable(action.Param1), nullable(action.Param2), nullable(action.Param3),
				action.SortOrder); err != nil {
				return storagef(err, "adding action to automation %s", rule.ID)
			}
		}

		return nil
	})
}

// GetAutomation fetches a rule and its ordered actions.
func (d *Database) GetAutomation(ctx context.Context, id string) (*Automation, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT id, trigger_title, rule_name, trigger_days FROM automations WHERE id = ?`, id)

	rule, err := scanAutomation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "automation", ID: id}
	}

	if err != nil {
		return nil, storagef(err, "loading automation %s", id)
	}

	if rule.Actions, err = d.listActions(ctx, rule.ID); err != nil {
		return nil, err
	}

	return rule, nil
}

// FindAutomationByTrigger looks a rule up by trigger title ignoring case.
// Returns nil without error when no rule matches; a non-match is the normal
// outcome of an automation check, not a failure.
func (d *Database) FindAutomationByTrigger(ctx context.Context, triggerTitle string) (*Automation, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT id, trigger_title, rule_name, trigger_days
		 FROM automations WHERE trigger_title = ? COLLATE NOCASE`, triggerTitle)

	rule, err := scanAutomation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, storagef(err, "finding automation for trigger '%s'", triggerTitle)
	}

	if rule.Actions, err = d.listActions(ctx, rule.ID); err != nil {
		return nil, err
	}

	return rule, nil
}

// ListAutomations returns all rules ordered by name, actions included.
func (d *Database) ListAutomations(ctx context.Context) ([]*Automation, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, trigger_title, rule_name, trigger_days FROM automations ORDER BY rule_name`)
	if err != nil {
		return nil, storagef(err, "loading automations")
	}
	defer rows.Close()

	var rules []*Automation

	for rows.Next() {
		rule, err := scanAutomation(rows)
		if err != nil {
			return nil, storagef(err, "scanning automation")
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning automations")
	}

	for _, rule := range rules {
		if rule.Actions, err = d.listActions(ctx, rule.ID); err != nil {
			return nil, err
		}
	}

	return rules, nil
}

// DeleteAutomation removes a rule; its actions cascade away with it.
func (d *Database) DeleteAutomation(ctx context.Context, id string) error {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM automations WHERE id = ?`, id)
	if err != nil {
		return storagef(err, "deleting automation %s", id)
	}

	return requireRow(result, "automation", id)
}

func (d *Database) listActions(ctx context.Context, automationID string) ([]*AutomationAction, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, automation_id, action_type, param1, param2, param3, sort_order
		 FROM automation_actions WHERE automation_id = ? ORDER BY sort_order`, automationID)
	if err != nil {
		return nil, storagef(err, "loading actions of automation %s", automationID)
	}
	defer rows.Close()

	var actions []*AutomationAction

	for rows.Next() {
		var action AutomationAction

		var param1, param2, param3 sql.NullString

		if err := rows.Scan(&action.ID, &action.AutomationID, &action.ActionType,
			&param1, &param2, &param3, &action.SortOrder); err != nil {
			return nil, storagef(err, "scanning automation action")
		}

		action.Param1 = param1.String
		action.Param2 = param2.String
		action.Param3 = param3.String

		actions = append(actions, &action)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning automation actions")
	}

	return actions, nil
}

func scanAutomation(row rowScanner) (*Automation, error) {
	var rule Automation

	var ruleName sql.NullString

	err := row.Scan(&rule.ID, &rule.TriggerTitle, &ruleName, &rule.TriggerDays)
	if err != nil {
		return nil, err
	}

	rule.RuleName = ruleName.String

	return &rule, nil
}
