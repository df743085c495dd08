package models

import (
	"strings"
	"time"
)

// Project is the root of a delivery plan
type Project struct {
	ID            int64         `db:"id" yaml:"id"`
	Name          string        `db:"name" yaml:"name"`
	StartDate     Date          `db:"start_date" yaml:"start_date"`
	TargetEndDate Date          `db:"target_end_date" yaml:"target_end_date"`
	Status        ProjectStatus `db:"status" yaml:"status"`
	Theme         *string       `db:"theme" yaml:"theme,omitempty"`
	CreatedAt     time.Time     `db:"created_at" yaml:"-"`
}

// Phase is a time-boxed grouping of epics within a project
type Phase struct {
	ID          int64  `db:"id" yaml:"id"`
	ProjectID   int64  `db:"project_id" yaml:"-"`
	Name        string `db:"name" yaml:"name"`
	Description string `db:"description" yaml:"description,omitempty"`
	StartDate   *Date  `db:"start_date" yaml:"start_date,omitempty"`
	EndDate     *Date  `db:"end_date" yaml:"end_date,omitempty"`
}

// Epic is a feature-sized grouping of tasks within a phase
type Epic struct {
	ID          int64      `db:"id" yaml:"id"`
	PhaseID     int64      `db:"phase_id" yaml:"-"`
	Name        string     `db:"name" yaml:"name"`
	Description string     `db:"description" yaml:"description,omitempty"`
	Status      EpicStatus `db:"status" yaml:"status"`
}

// Task is a unit of assignable work within an epic
type Task struct {
	ID            int64      `db:"id" yaml:"id"`
	EpicID        int64      `db:"epic_id" yaml:"-"`
	Name          string     `db:"name" yaml:"name"`
	Description   string     `db:"description" yaml:"description,omitempty"`
	AssignedTo    string     `db:"assigned_to" yaml:"assigned_to,omitempty"`
	Priority      Priority   `db:"priority" yaml:"priority"`
	Status        TaskStatus `db:"status" yaml:"status"`
	ExternalLink  *string    `db:"external_link" yaml:"external_link,omitempty"`
	StartDate     *Date      `db:"start_date" yaml:"start_date,omitempty"`
	DueDate       *Date      `db:"due_date" yaml:"due_date,omitempty"`
	CompletedDate *Date      `db:"completed_date" yaml:"completed_date,omitempty"`
}

// SubTask is a granular piece of work within a task
type SubTask struct {
	ID            int64      `db:"id" yaml:"id"`
	TaskID        int64      `db:"task_id" yaml:"-"`
	Name          string     `db:"name" yaml:"name"`
	Description   string     `db:"description" yaml:"description,omitempty"`
	AssignedTo    string     `db:"assigned_to" yaml:"assigned_to,omitempty"`
	Status        TaskStatus `db:"status" yaml:"status"`
	CompletedDate *Date      `db:"completed_date" yaml:"completed_date,omitempty"`
}

// DailyLog is a per-day narrative status entry, split by site
type DailyLog struct {
	ID              int64     `db:"id"`
	ProjectID       int64     `db:"project_id"`
	LogDate         Date      `db:"log_date"`
	ActivitiesUS    string    `db:"activities_us"`
	ActivitiesIndia string    `db:"activities_india"`
	BlockersUS      string    `db:"blockers_us"`
	BlockersIndia   string    `db:"blockers_india"`
	Decisions       string    `db:"decisions"`
	NextStepsUS     string    `db:"next_steps_us"`
	NextStepsIndia  string    `db:"next_steps_india"`
	CreatedAt       time.Time `db:"created_at"`
}

// IsEmpty reports whether none of the narrative fields carry text
func (l DailyLog) IsEmpty() bool {
	return l.ActivitiesUS == "" && l.ActivitiesIndia == "" &&
		l.BlockersUS == "" && l.BlockersIndia == "" &&
		l.Decisions == "" &&
		l.NextStepsUS == "" && l.NextStepsIndia == ""
}

// LogField is one labelled narrative field of a daily log
type LogField struct {
	Label string
	Value string
}

// Fields returns the narrative fields in display order
func (l DailyLog) Fields() []LogField {
	return []LogField{
		{"Activities (US)", l.ActivitiesUS},
		{"Activities (India)", l.ActivitiesIndia},
		{"Blockers (US)", l.BlockersUS},
		{"Blockers (India)", l.BlockersIndia},
		{"Decisions", l.Decisions},
		{"Next Steps (US)", l.NextStepsUS},
		{"Next Steps (India)", l.NextStepsIndia},
	}
}

// NewTask holds the caller-supplied fields for a task insert.
// Zero Priority and Status fall back to Medium and To Do.
type NewTask struct {
	Name         string
	Description  string
	AssignedTo   string
	Priority     Priority
	Status       TaskStatus
	ExternalLink *string
	StartDate    *Date
	DueDate      *Date
}

// NewSubTask holds the caller-supplied fields for a subtask insert
type NewSubTask struct {
	Name        string
	Description string
	AssignedTo  string
	Status      TaskStatus
}

// NewDailyLog holds the narrative fields for a log insert.
// A nil LogDate means today.
type NewDailyLog struct {
	LogDate         *Date
	ActivitiesUS    string
	ActivitiesIndia string
	BlockersUS      string
	BlockersIndia   string
	Decisions       string
	NextStepsUS     string
	NextStepsIndia  string
}

// Trimmed returns a copy with surrounding whitespace removed from every
// narrative field
func (n NewDailyLog) Trimmed() NewDailyLog {
	n.ActivitiesUS = strings.TrimSpace(n.ActivitiesUS)
	n.ActivitiesIndia = strings.TrimSpace(n.ActivitiesIndia)
	n.BlockersUS = strings.TrimSpace(n.BlockersUS)
	n.BlockersIndia = strings.TrimSpace(n.BlockersIndia)
	n.Decisions = strings.TrimSpace(n.Decisions)
	n.NextStepsUS = strings.TrimSpace(n.NextStepsUS)
	n.NextStepsIndia = strings.TrimSpace(n.NextStepsIndia)
	return n
}

// IsEmpty reports whether none of the narrative fields carry text
func (n NewDailyLog) IsEmpty() bool {
	return n.ActivitiesUS == "" && n.ActivitiesIndia == "" &&
		n.BlockersUS == "" && n.BlockersIndia == "" &&
		n.Decisions == "" &&
		n.NextStepsUS == "" && n.NextStepsIndia == ""
}

// PlanTree is a project with its full phase/epic/task/subtask hierarchy
type PlanTree struct {
	Project Project     `yaml:"project"`
	Phases  []PhaseNode `yaml:"phases"`
}

type PhaseNode struct {
	Phase `yaml:",inline"`
	Epics []EpicNode `yaml:"epics,omitempty"`
}

type EpicNode struct {
	Epic  `yaml:",inline"`
	Tasks []TaskNode `yaml:"tasks,omitempty"`
}

type TaskNode struct {
	Task     `yaml:",inline"`
	SubTasks []SubTask `yaml:"subtasks,omitempty"`
}

// TaskCount returns the number of tasks across every phase
func (t *PlanTree) TaskCount() int {
	n := 0
	for _, p := range t.Phases {
		for _, e := range p.Epics {
			n += len(e.Tasks)
		}
	}
	return n
}
