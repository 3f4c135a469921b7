package template_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matt-steen/day-planner/pkg/db"
	"github.com/matt-steen/day-planner/pkg/template"
)

func getInstantiator(t *testing.T, assert *assert.Assertions) (*template.Instantiator, *db.Database) {
	t.Helper()

	database, err := db.NewDatabase(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
	assert.Nil(err)

	return template.NewInstantiator(database), database
}

func TestInstantiateCreatesTaskTree(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	instantiator, database := getInstantiator(t, assert)

	tmpl := &db.TaskTemplate{
		Name:            "weekly shop",
		DefaultCategory: "Home",
		DefaultPriority: db.PriorityLow,
		Rows: []*db.TemplateTask{
			{Description: "do the shopping", Priority: db.PriorityHigh},
			{Description: "write the list", IsSubTask: true},
			{Description: "check the fridge", IsSubTask: true},
		},
	}
	assert.Nil(database.SaveTemplate(ctx, tmpl))

	parentID, err := instantiator.Instantiate(ctx, tmpl.ID)
	assert.Nil(err)
	assert.NotEmpty(parentID)

	parent, err := database.GetTask(ctx, parentID)
	assert.Nil(err)
	assert.Equal("do the shopping", parent.Description)
	assert.Equal(db.PriorityHigh, parent.Priority)
	assert.Equal("Home", parent.Category)
	assert.Equal(db.StatusPending, parent.Status)
	assert.Empty(parent.ParentTaskID)

	subs, err := database.ListSubTasks(ctx, parentID, "")
	assert.Nil(err)
	assert.Len(subs, 2)

	for _, sub := range subs {
		assert.Equal(parentID, sub.ParentTaskID)
		// rows without their own priority fall back to the template default
		assert.Equal(db.PriorityLow, sub.Priority)
		assert.Equal("Home", sub.Category)
	}
}

func TestInstantiateTwiceMakesIndependentTrees(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	instantiator, database := getInstantiator(t, assert)

	tmpl := &db.TaskTemplate{
		Name: "trip prep",
		Rows: []*db.TemplateTask{
			{Description: "pack"},
			{Description: "charge batteries", IsSubTask: true},
		},
	}
	assert.Nil(database.SaveTemplate(ctx, tmpl))

	first, err := instantiator.Instantiate(ctx, tmpl.ID)
	assert.Nil(err)

	second, err := instantiator.Instantiate(ctx, tmpl.ID)
	assert.Nil(err)
	assert.NotEqual(first, second)

	// the template itself is untouched by instantiation
	loaded, err := database.GetTemplate(ctx, tmpl.ID)
	assert.Nil(err)
	assert.Len(loaded.Rows, 2)

	all, err := database.ListAllTasks(ctx)
	assert.Nil(err)
	assert.Len(all, 4)
}

func TestInstantiateEmptyTemplate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	instantiator, database := getInstantiator(t, assert)

	tmpl := &db.TaskTemplate{Name: "empty"}
	assert.Nil(database.SaveTemplate(ctx, tmpl))

	var empty *template.EmptyTemplateError

	_, err := instantiator.Instantiate(ctx, tmpl.ID)
	assert.ErrorAs(err, &empty)
	assert.Equal(tmpl.ID, empty.TemplateID)
}

func TestInstantiateMissingTemplate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	instantiator, _ := getInstantiator(t, assert)

	var notFound *db.NotFoundError

	_, err := instantiator.Instantiate(context.Background(), "no-such-template")
	assert.ErrorAs(err, &notFound)
}

func TestInstantiateDefaultPriority(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	instantiator, database := getInstantiator(t, assert)

	tmpl := &db.TaskTemplate{
		Name: "bare",
		Rows: []*db.TemplateTask{{Description: "solo"}},
	}
	assert.Nil(database.SaveTemplate(ctx, tmpl))

	parentID, err := instantiator.Instantiate(ctx, tmpl.ID)
	assert.Nil(err)

	parent, err := database.GetTask(ctx, parentID)
	assert.Nil(err)
	assert.Equal(db.PriorityMedium, parent.Priority)
}
