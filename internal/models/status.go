package models

import (
	"fmt"
	"strings"
)

// ProjectStatus tracks a project or epic through its lifecycle
type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "Planned"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectOnHold     ProjectStatus = "On Hold"
)

// ProjectStatuses lists every project status in display order
var ProjectStatuses = []ProjectStatus{ProjectPlanned, ProjectInProgress, ProjectCompleted, ProjectOnHold}

// EpicStatus shares its values with ProjectStatus
type EpicStatus = ProjectStatus

// TaskStatus tracks a task or subtask
type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
	TaskBlocked    TaskStatus = "Blocked"
)

// TaskStatuses lists every task status in display order
var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskDone, TaskBlocked}

// Next returns the status that follows s in TaskStatuses, wrapping around
func (s TaskStatus) Next() TaskStatus {
	for i, st := range TaskStatuses {
		if st == s {
			return TaskStatuses[(i+1)%len(TaskStatuses)]
		}
	}
	return TaskToDo
}

// Priority is a ranked task priority
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities by severity; unknown values rank lowest
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// normalize lowercases and drops spaces, dashes and underscores so
// "in progress", "InProgress" and "in_progress" compare equal
func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// ParsePriority accepts free text such as "high" or "MEDIUM"
func ParsePriority(s string) (Priority, error) {
	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		if normalize(s) == normalize(string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseTaskStatus accepts free text such as "todo", "in progress" or "DONE"
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range TaskStatuses {
		if normalize(s) == normalize(string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// ParseProjectStatus accepts free text such as "planned" or "on hold"
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range ProjectStatuses {
		if normalize(s) == normalize(string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q", s)
}
