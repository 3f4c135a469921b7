package db

import (
	"context"
	"database/sql"
	"errors"
)

// SaveTemplate inserts or updates a template and replaces its rows in a
// single transaction. A non-empty row set must start with the parent row and
// contain no other parent.
func (d *Database) SaveTemplate(ctx context.Context, template *TaskTemplate) error {
	if template.Name == "" {
		return &ValidationError{Field: "template name", Reason: "must not be empty"}
	}

	if err := validateTemplateRows(template.Rows); err != nil {
		return err
	}

	return d.withTx(ctx, "template save", func(tx *sql.Tx) error {
		if template.ID == "" {
			template.ID = NewID()

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO task_templates (id, name, description, default_category, default_priority)
				 VALUES (?, ?, ?, ?, ?)`,
				template.ID, template.Name, nullable(template.Description),
				nullable(template.DefaultCategory), nullable(template.DefaultPriority)); err != nil {
				return storagef(err, "adding template '%s'", template.Name)
			}
		} else {
			result, err := tx.ExecContext(ctx,
				`UPDATE task_templates SET name = ?, description = ?, default_category = ?, default_priority = ?
				 WHERE id = ?`,
				template.Name, nullable(template.Description),
				nullable(template.DefaultCategory), nullable(template.DefaultPriority), template.ID)
			if err != nil {
				return storagef(err, "updating template %s", template.ID)
			}

			if err := requireRow(result, "template", template.ID); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`DELETE FROM template_tasks WHERE template_id = ?`, template.ID); err != nil {
				return storagef(err, "clearing rows of template %s", template.ID)
			}
		}

		for i, taskRow := range template.Rows {
			if taskRow.ID == "" {
				taskRow.ID = NewID()
			}

			taskRow.TemplateID = template.ID
			taskRow.SortOrder = i

			isSub := 0
			if taskRow.IsSubTask {
				isSub = 1
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO template_tasks (id, template_id, description, priority, notes, is_sub_task, sort_order)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				taskRow.ID, taskRow.TemplateID, taskRow.Description,
				nullable(taskRow.Priority), nullable(taskRow.Notes), isSub, taskRow.SortOrder); err != nil {
				return storagef(err, "adding row to template %s", template.ID)
			}
		}

		return nil
	})
}

func validateTemplateRows(rows []*TemplateTask) error {
	for i, row := range rows {
		if row.Description == "" {
			return &ValidationError{Field: "template row description", Reason: "must not be empty"}
		}

		if i == 0 && row.IsSubTask {
			return &ValidationError{Field: "template rows", Reason: "first row must be the parent task"}
		}

		if i > 0 && !row.IsSubTask {
			return &ValidationError{Field: "template rows", Reason: "only the first row may be the parent task"}
		}
	}

	return nil
}

// GetTemplate fetches a template and its ordered rows.
func (d *Database) GetTemplate(ctx context.Context, id string) (*TaskTemplate, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT id, name, description, default_category, default_priority
		 FROM task_templates WHERE id = ?`, id)

	template, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "template", ID: id}
	}

	if err != nil {
		return nil, storagef(err, "loading template %s", id)
	}

	if template.Rows, err = d.listTemplateRows(ctx, template.ID); err != nil {
		return nil, err
	}

	return template, nil
}

// ListTemplates returns all templates ordered by name, rows included.
func (d *Database) ListTemplates(ctx context.Context) ([]*TaskTemplate, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, name, description, default_category, default_priority
		 FROM task_templates ORDER BY name`)
	if err != nil {
		return nil, storagef(err, "loading templates")
	}
	defer rows.Close()

	var templates []*TaskTemplate

	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, storagef(err, "scanning template")
		}

		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning templates")
	}

	for _, template := range templates {
		if template.Rows, err = d.listTemplateRows(ctx, template.ID); err != nil {
			return nil, err
		}
	}

	return templates, nil
}

// DeleteTemplate removes a template; its rows cascade away with it.
func (d *Database) DeleteTemplate(ctx context.Context, id string) error {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM task_templates WHERE id = ?`, id)
	if err != nil {
		return storagef(err, "deleting template %s", id)
	}

	return requireRow(result, "template", id)
}

func (d *Database) listTemplateRows(ctx context.Context, templateID string) ([]*TemplateTask, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, template_id, description, priority, notes, is_sub_task, sort_order
		 FROM template_tasks WHERE template_id = ? ORDER BY sort_order`, templateID)
	if err != nil {
		return nil, storagef(err, "loading rows of template %s", templateID)
	}
	defer rows.Close()

	var taskRows []*TemplateTask

	for rows.Next() {
		var taskRow TemplateTask

		var priority, notes sql.NullString

		var isSub int

		if err := rows.Scan(&taskRow.ID, &taskRow.TemplateID, &taskRow.Description,
			&priority, &notes, &isSub, &taskRow.SortOrder); err != nil {
			return nil, storagef(err, "scanning template row")
		}

		taskRow.Priority = priority.String
		taskRow.Notes = notes.String
		taskRow.IsSubTask = isSub != 0

		taskRows = append(taskRows, &taskRow)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning template rows")
	}

	return taskRows, nil
}

func scanTemplate(row rowScanner) (*TaskTemplate, error) {
	var template TaskTemplate

	var description, category, priority sql.NullString

	err := row.Scan(&template.ID, &template.Name, &description, &category, &priority)
	if err != nil {
		return nil, err
	}

	template.Description = description.String
	template.DefaultCategory = category.String
	template.DefaultPriority = priority.String

	return &template, nil
}
