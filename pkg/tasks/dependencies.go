package tasks

import (
	"context"
	"fmt"
)

// TaskBlockedError reports an attempted completion while sub-tasks or
// prerequisites are still pending. The task's status is left unchanged.
type TaskBlockedError struct {
	TaskID              string
	PendingSubtasks     int
	PendingDependencies int
}

func (e *TaskBlockedError) Error() string {
	return fmt.Sprintf("task %s cannot be completed: %d pending sub-task(s), %d unresolved dependency(ies)",
		e.TaskID, e.PendingSubtasks, e.PendingDependencies)
}

// InvalidDependencyError reports a rejected prerequisite edge.
type InvalidDependencyError struct {
	TaskID      string
	DependsOnID string
	Reason      string
}

func (e *InvalidDependencyError) Error() string {
	return fmt.Sprintf("task %s cannot depend on %s: %s", e.TaskID, e.DependsOnID, e.Reason)
}

// AddDependency records that taskID must wait for dependsOnID. Self-loops,
// edges between a task and its direct parent or child, and edges that would
// close a cycle anywhere in the dependency graph are all rejected.
func (m *Manager) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	if taskID == dependsOnID {
		return &InvalidDependencyError{TaskID: taskID, DependsOnID: dependsOnID, Reason: "a task cannot depend on itself"}
	}

	task, err := m.db.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	dependsOn, err := m.db.GetTask(ctx, dependsOnID)
	if err != nil {
		return err
	}

	if dependsOn.ParentTaskID == task.ID {
		return &InvalidDependencyError{
			TaskID: taskID, DependsOnID: dependsOnID,
			Reason: "a task cannot depend on its own sub-task",
		}
	}

	if task.ParentTaskID == dependsOn.ID {
		return &InvalidDependencyError{
			TaskID: taskID, DependsOnID: dependsOnID,
			Reason: "a sub-task cannot depend on its own parent",
		}
	}

	cycles, err := m.wouldCycle(ctx, taskID, dependsOnID)
	if err != nil {
		return err
	}

	if cycles {
		return &InvalidDependencyError{
			TaskID: taskID, DependsOnID: dependsOnID,
			Reason: "the edge would create a dependency cycle",
		}
	}

	return m.db.AddDependency(ctx, taskID, dependsOnID)
}

// RemoveDependency deletes a single prerequisite edge.
func (m *Manager) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	return m.db.RemoveDependency(ctx, taskID, dependsOnID)
}

// Dependencies returns the prerequisite ids of a task.
func (m *Manager) Dependencies(ctx context.Context, taskID string) ([]string, error) {
	return m.db.ListDependencies(ctx, taskID)
}

// wouldCycle walks the depends-on graph from the prospective prerequisite;
// if taskID is reachable, adding the edge would close a cycle.
func (m *Manager) wouldCycle(ctx context.Context, taskID, dependsOnID string) (bool, error) {
	visited := make(map[string]bool)
	frontier := []string{dependsOnID}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		if current == taskID {
			return true, nil
		}

		if visited[current] {
			continue
		}

		visited[current] = true

		next, err := m.db.ListDependencies(ctx, current)
		if err != nil {
			return false, err
		}

		frontier = append(frontier, next...)
	}

	return false, nil
}
