package tasks_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matt-steen/day-planner/pkg/db"
	"github.com/matt-steen/day-planner/pkg/tasks"
)

func getManager(t *testing.T, assert *assert.Assertions) (*tasks.Manager, *db.Database) {
	t.Helper()

	database, err := db.NewDatabase(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
	assert.Nil(err)

	return tasks.NewManager(database), database
}

func TestCreateTaskDefaults(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, _ := getManager(t, assert)

	task, err := manager.CreateTask(ctx, tasks.Fields{Description: "buy groceries"})
	assert.Nil(err)
	assert.Equal(db.StatusPending, task.Status)
	assert.Equal(db.PriorityMedium, task.Priority)
	assert.Equal(db.ShowModeAuto, task.ShowMode)
	assert.NotEmpty(task.DateAdded)

	var validation *db.ValidationError

	_, err = manager.CreateTask(ctx, tasks.Fields{})
	assert.ErrorAs(err, &validation)
}

func TestCreateSubTaskInheritsCategory(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, _ := getManager(t, assert)

	parent, err := manager.CreateTask(ctx, tasks.Fields{Description: "plan trip", Category: "Travel"})
	assert.Nil(err)

	sub, err := manager.CreateSubTask(ctx, parent.ID, tasks.Fields{Description: "book flights"})
	assert.Nil(err)
	assert.Equal("Travel", sub.Category)
	assert.Equal(parent.ID, sub.ParentTaskID)

	var notFound *db.NotFoundError

	_, err = manager.CreateSubTask(ctx, "no-such-parent", tasks.Fields{Description: "orphan"})
	assert.ErrorAs(err, &notFound)
}

func TestCompletionBlockedByPendingSubTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, database := getManager(t, assert)

	parent, err := manager.CreateTask(ctx, tasks.Fields{Description: "release"})
	assert.Nil(err)

	sub, err := manager.CreateSubTask(ctx, parent.ID, tasks.Fields{Description: "write changelog"})
	assert.Nil(err)

	var blocked *tasks.TaskBlockedError

	err = manager.SetStatus(ctx, parent.ID, true)
	assert.ErrorAs(err, &blocked)
	assert.Equal(1, blocked.PendingSubtasks)

	// the failed attempt must not have touched the row
	loaded, err := database.GetTask(ctx, parent.ID)
	assert.Nil(err)
	assert.Equal(db.StatusPending, loaded.Status)

	assert.Nil(manager.SetStatus(ctx, sub.ID, true))
	assert.Nil(manager.SetStatus(ctx, parent.ID, true))

	loaded, err = database.GetTask(ctx, parent.ID)
	assert.Nil(err)
	assert.Equal(db.StatusCompleted, loaded.Status)
	assert.NotEmpty(loaded.DateCompleted)
}

func TestCompletionBlockedByPendingDependency(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, _ := getManager(t, assert)

	deploy, err := manager.CreateTask(ctx, tasks.Fields{Description: "deploy"})
	assert.Nil(err)

	review, err := manager.CreateTask(ctx, tasks.Fields{Description: "code review"})
	assert.Nil(err)

	assert.Nil(manager.AddDependency(ctx, deploy.ID, review.ID))

	var blocked *tasks.TaskBlockedError

	err = manager.SetStatus(ctx, deploy.ID, true)
	assert.ErrorAs(err, &blocked)
	assert.Equal(1, blocked.PendingDependencies)

	assert.Nil(manager.SetStatus(ctx, review.ID, true))
	assert.Nil(manager.SetStatus(ctx, deploy.ID, true))
}

func TestReopenIsNeverBlocked(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, database := getManager(t, assert)

	task, err := manager.CreateTask(ctx, tasks.Fields{Description: "weekly review"})
	assert.Nil(err)
	assert.Nil(manager.SetStatus(ctx, task.ID, true))

	// add a pending sub-task after completion, then reopen
	_, err = manager.CreateSubTask(ctx, task.ID, tasks.Fields{Description: "new follow-up"})
	assert.Nil(err)

	assert.Nil(manager.SetStatus(ctx, task.ID, false))

	loaded, err := database.GetTask(ctx, task.ID)
	assert.Nil(err)
	assert.Equal(db.StatusPending, loaded.Status)
	assert.Empty(loaded.DateCompleted)
}

func TestDeleteTaskCascades(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, database := getManager(t, assert)

	parent, err := manager.CreateTask(ctx, tasks.Fields{Description: "project"})
	assert.Nil(err)

	sub, err := manager.CreateSubTask(ctx, parent.ID, tasks.Fields{Description: "step one"})
	assert.Nil(err)

	other, err := manager.CreateTask(ctx, tasks.Fields{Description: "bystander"})
	assert.Nil(err)

	assert.Nil(manager.AddDependency(ctx, other.ID, sub.ID))
	assert.Nil(database.AddShowDate(ctx, sub.ID, "2024-06-10"))
	assert.Nil(database.LogCompletion(ctx, sub.ID, "2024-06-10"))

	assert.Nil(manager.DeleteTask(ctx, parent.ID))

	var notFound *db.NotFoundError

	_, err = database.GetTask(ctx, sub.ID)
	assert.ErrorAs(err, &notFound)

	// the edge onto the deleted sub-task is gone, the bystander is not
	edges, err := manager.Dependencies(ctx, other.ID)
	assert.Nil(err)
	assert.Empty(edges)

	_, err = database.GetTask(ctx, other.ID)
	assert.Nil(err)
}

func TestTasksDueOnUnionAndDedup(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, database := getManager(t, assert)

	const date = "2024-06-10"

	both, err := manager.CreateTask(ctx, tasks.Fields{Description: "deadline and show date", Deadline: date})
	assert.Nil(err)
	assert.Nil(database.AddShowDate(ctx, both.ID, date))

	always, err := manager.CreateTask(ctx, tasks.Fields{
		Description: "inbox zero",
		ShowMode:    db.ShowModeAlwaysPending,
	})
	assert.Nil(err)

	done, err := manager.CreateTask(ctx, tasks.Fields{Description: "already done", Deadline: date})
	assert.Nil(err)
	assert.Nil(manager.SetStatus(ctx, done.ID, true))

	_, err = manager.CreateTask(ctx, tasks.Fields{Description: "unrelated", Deadline: "2024-07-01"})
	assert.Nil(err)

	due, err := manager.TasksDueOn(ctx, date)
	assert.Nil(err)
	assert.Len(due, 2)

	ids := map[string]bool{}
	for _, task := range due {
		ids[task.ID] = true
	}

	assert.True(ids[both.ID])
	assert.True(ids[always.ID])
}

func TestOccurrenceCompletion(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, database := getManager(t, assert)

	oneOff, err := manager.CreateTask(ctx, tasks.Fields{Description: "one-off"})
	assert.Nil(err)

	var validation *db.ValidationError

	err = manager.SetOccurrenceComplete(ctx, oneOff.ID, "2024-06-10", true)
	assert.ErrorAs(err, &validation)

	recurring, err := manager.CreateTask(ctx, tasks.Fields{Description: "water plants"})
	assert.Nil(err)
	assert.Nil(database.AddShowDate(ctx, recurring.ID, "2024-06-10"))
	assert.Nil(database.AddShowDate(ctx, recurring.ID, "2024-06-17"))

	assert.Nil(manager.SetOccurrenceComplete(ctx, recurring.ID, "2024-06-10", true))

	complete, err := manager.IsOccurrenceComplete(ctx, recurring.ID, "2024-06-10")
	assert.Nil(err)
	assert.True(complete)

	complete, err = manager.IsOccurrenceComplete(ctx, recurring.ID, "2024-06-17")
	assert.Nil(err)
	assert.False(complete)

	// occurrence completion leaves the task itself pending
	loaded, err := database.GetTask(ctx, recurring.ID)
	assert.Nil(err)
	assert.Equal(db.StatusPending, loaded.Status)

	assert.Nil(manager.SetOccurrenceComplete(ctx, recurring.ID, "2024-06-10", false))

	complete, err = manager.IsOccurrenceComplete(ctx, recurring.ID, "2024-06-10")
	assert.Nil(err)
	assert.False(complete)
}

func TestAddDependencyValidation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, _ := getManager(t, assert)

	parent, err := manager.CreateTask(ctx, tasks.Fields{Description: "parent"})
	assert.Nil(err)

	sub, err := manager.CreateSubTask(ctx, parent.ID, tasks.Fields{Description: "sub"})
	assert.Nil(err)

	var invalid *tasks.InvalidDependencyError

	err = manager.AddDependency(ctx, parent.ID, parent.ID)
	assert.ErrorAs(err, &invalid)

	err = manager.AddDependency(ctx, parent.ID, sub.ID)
	assert.ErrorAs(err, &invalid)

	err = manager.AddDependency(ctx, sub.ID, parent.ID)
	assert.ErrorAs(err, &invalid)
}

func TestAddDependencyRejectsCycles(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	manager, _ := getManager(t, assert)

	a, err := manager.CreateTask(ctx, tasks.Fields{Description: "a"})
	assert.Nil(err)

	b, err := manager.CreateTask(ctx, tasks.Fields{Description: "b"})
	assert.Nil(err)

	c, err := manager.CreateTask(ctx, tasks.Fields{Description: "c"})
	assert.Nil(err)

	assert.Nil(manager.AddDependency(ctx, a.ID, b.ID))
	assert.Nil(manager.AddDependency(ctx, b.ID, c.ID))

	var invalid *tasks.InvalidDependencyError

	// direct cycle
	err = manager.AddDependency(ctx, b.ID, a.ID)
	assert.ErrorAs(err, &invalid)

	// transitive cycle through b
	err = manager.AddDependency(ctx, c.ID, a.ID)
	assert.ErrorAs(err, &invalid)
}
