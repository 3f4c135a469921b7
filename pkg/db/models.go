package db

import "time"

// Task statuses. A task is either still pending or has been completed;
// per-occurrence completion of recurring tasks lives in the completion log
// and never changes these.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Show modes control date-based visibility. An always_pending task counts as
// due every day until it is completed.
const (
	ShowModeAuto          = "auto"
	ShowModeAlwaysPending = "always_pending"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Automation action types.
const (
	ActionEnsureTask          = "ensure_task_link"
	ActionCreateScheduleBlock = "create_schedule_block"
)

// DateFormat and TimeFormat are the layouts used for every date and time
// column in the store.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Task is a single task row. A task with a non-empty ParentTaskID is a
// sub-task of that parent; optional columns are empty strings when unset.
type Task struct {
	ID                    string
	Description           string
	Status                string
	DateAdded             string
	Deadline              string
	Priority              string
	Category              string
	Notes                 string
	Tags                  string
	DateCompleted         string
	ScheduleEventID       string
	CreatedByAutomationID string
	ShowMode              string
	ParentTaskID          string
}

// Pending reports whether the task itself is still pending.
func (t *Task) Pending() bool {
	return t.Status == StatusPending
}

// Dependency is a prerequisite edge: TaskID cannot be completed while
// DependsOnTaskID is pending.
type Dependency struct {
	TaskID          string
	DependsOnTaskID string
}

// ScheduleEvent is a timed block on the day-schedule grid. Start and end are
// HH:MM on the same day, end after start.
type ScheduleEvent struct {
	ID        string
	Date      string
	StartTime string
	EndTime   string
	Title     string
	Color     string
}

// CalendarEvent is a rota marker on the monthly calendar. Its title is the
// join key automation triggers match against.
type CalendarEvent struct {
	ID        string
	Date      string
	Title     string
	StartTime string
	EndTime   string
}

// Automation is a trigger rule plus its ordered actions. TriggerDays is a
// 7-bit day-of-week mask, bit 0 = Sunday (time.Weekday numbering); zero
// means the rule predates the mask and fires on any day.
type Automation struct {
	ID           string
	TriggerTitle string
	RuleName     string
	TriggerDays  int
	Actions      []*AutomationAction
}

// FiresOn reports whether the rule's day mask allows the given weekday.
func (a *Automation) FiresOn(weekday time.Weekday) bool {
	return a.TriggerDays == 0 || a.TriggerDays&(1<<uint(weekday)) != 0
}

// DayMask builds a trigger mask from a set of weekdays.
func DayMask(days ...time.Weekday) int {
	mask := 0
	for _, d := range days {
		mask |= 1 << uint(d)
	}

	return mask
}

// AutomationAction is one step of a rule. For ensure_task_link the params
// are description, priority, category; for create_schedule_block they are
// title, start time, end time.
type AutomationAction struct {
	ID           string
	AutomationID string
	ActionType   string
	Param1       string
	Param2       string
	Param3       string
	SortOrder    int
}

// TaskTemplate is a saved task tree: exactly one parent row plus any number
// of sub-task rows, instantiated into real tasks on demand.
type TaskTemplate struct {
	ID              string
	Name            string
	Description     string
	DefaultCategory string
	DefaultPriority string
	Rows            []*TemplateTask
}

// TemplateTask is one row of a template, ordered by SortOrder. The single
// row with IsSubTask false is the parent.
type TemplateTask struct {
	ID          string
	TemplateID  string
	Description string
	Priority    string
	Notes       string
	IsSubTask   bool
	SortOrder   int
}

// DailyNote is the free-form note for one date.
type DailyNote struct {
	Date    string
	Content string
}

// KnowledgeTopic is a node in the knowledge base tree.
type KnowledgeTopic struct {
	ID       string
	ParentID string
	Title    string
	Content  string
}

// FocusEntry records one completed focus (pomodoro) session, optionally
// linked to the task it was spent on.
type FocusEntry struct {
	ID        string
	Date      string
	StartTime string
	Minutes   int
	TaskID    string
}
