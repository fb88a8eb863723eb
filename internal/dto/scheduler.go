package dto

import (
	"fmt"
	"time"
)

// GenerateScheduleRequest triggers a full generation run for a cycle.
type GenerateScheduleRequest struct {
	CycleID string `json:"cycleId" validate:"required"`
}

// GroupAllocation reports assigned versus required slots for one group.
type GroupAllocation struct {
	GroupID       string `json:"groupId"`
	SubjectID     string `json:"subjectId"`
	ProfessorID   string `json:"professorId"`
	ClassroomID   string `json:"classroomId"`
	RequiredSlots int    `json:"requiredSlots"`
	AssignedSlots int    `json:"assignedSlots"`
}

// Shortfall returns how many required slots the group is missing.
func (a GroupAllocation) Shortfall() int {
	if a.AssignedSlots >= a.RequiredSlots {
		return 0
	}
	return a.RequiredSlots - a.AssignedSlots
}

// SkippedGroup records a group excluded from allocation and why.
type SkippedGroup struct {
	GroupID string `json:"groupId"`
	Reason  string `json:"reason"`
}

// GenerationReport summarises one generation run.
type GenerationReport struct {
	RunID       string            `json:"runId"`
	CycleID     string            `json:"cycleId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	ItemCount   int               `json:"itemCount"`
	Groups      []GroupAllocation `json:"groups"`
	Skipped     []SkippedGroup    `json:"skipped,omitempty"`
}

// ShortfallWarnings renders per-group shortfalls as human readable warnings.
func (r GenerationReport) ShortfallWarnings() []string {
	var warnings []string
	for _, alloc := range r.Groups {
		if missing := alloc.Shortfall(); missing > 0 {
			warnings = append(warnings, fmt.Sprintf("group %s under-scheduled: %d/%d slots assigned (%d missing)",
				alloc.GroupID, alloc.AssignedSlots, alloc.RequiredSlots, missing))
		}
	}
	for _, skipped := range r.Skipped {
		warnings = append(warnings, fmt.Sprintf("group %s skipped: %s", skipped.GroupID, skipped.Reason))
	}
	return warnings
}

// GenerateScheduleResponse is returned after a successful generation run.
type GenerateScheduleResponse struct {
	RunID     string            `json:"runId"`
	CycleID   string            `json:"cycleId"`
	ItemCount int               `json:"itemCount"`
	Groups    []GroupAllocation `json:"groups"`
	Skipped   []SkippedGroup    `json:"skipped,omitempty"`
}
