package db

import "context"

// AddDependency records that taskID cannot be completed until dependsOnID is
// done. Duplicate edges are ignored. Validity checks (self-loops, parent and
// child edges, cycles) belong to the task graph manager, not the store.
func (d *Database) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_task_id) VALUES (?, ?)`,
		taskID, dependsOnID)
	if err != nil {
		return storagef(err, "adding dependency of %s on %s", taskID, dependsOnID)
	}

	return nil
}

// RemoveDependency deletes a single prerequisite edge.
func (d *Database) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	_, err := d.conn.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = ? AND depends_on_task_id = ?`,
		taskID, dependsOnID)
	if err != nil {
		return storagef(err, "removing dependency of %s on %s", taskID, dependsOnID)
	}

	return nil
}

func (d *Database) queryIDs(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, storagef(err, "loading dependency edges for %s", arg)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storagef(err, "scanning dependency edge")
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning dependency edges")
	}

	return ids, nil
}

// ListDependencies returns the ids of the tasks the given task depends on.
func (d *Database) ListDependencies(ctx context.Context, taskID string) ([]string, error) {
	return d.queryIDs(ctx,
		`SELECT depends_on_task_id FROM task_dependencies WHERE task_id = ?`, taskID)
}

// ListDependents returns the ids of the tasks that depend on the given task.
func (d *Database) ListDependents(ctx context.Context, taskID string) ([]string, error) {
	return d.queryIDs(ctx,
		`SELECT task_id FROM task_dependencies WHERE depends_on_task_id = ?`, taskID)
}

// PendingDependencyCount returns how many of a task's prerequisites are
// still pending.
func (d *Database) PendingDependencyCount(ctx context.Context, taskID string) (int, error) {
	var count int

	err := d.conn.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM task_dependencies td
		 JOIN tasks t ON t.id = td.depends_on_task_id
		 WHERE td.task_id = ? AND t.status = ?`, taskID, StatusPending).Scan(&count)
	if err != nil {
		return 0, storagef(err, "counting pending dependencies of task %s", taskID)
	}

	return count, nil
}

// PendingSubtaskCount returns the number of pending sub-tasks under a task.
func (d *Database) PendingSubtaskCount(ctx context.Context, taskID string) (int, error) {
	var count int

	err := d.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE parent_task_id = ? AND status = ?`,
		taskID, StatusPending).Scan(&count)
	if err != nil {
		return 0, storagef(err, "counting pending sub-tasks of task %s", taskID)
	}

	return count, nil
}
