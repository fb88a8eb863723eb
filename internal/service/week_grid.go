package service

import (
	"fmt"
	"strings"
)

// The weekly grid is fixed by institutional policy: five weekdays, bookable
// window 07:00-16:00, 30 minute slots. Granularity is an invariant of the
// grid, not configuration.
const (
	gridStartMinute = 7 * 60
	gridEndMinute   = 16 * 60
	slotMinutes     = 30
	slotsPerDay     = (gridEndMinute - gridStartMinute) / slotMinutes
)

// weekDays holds the canonical Spanish weekday names, Monday first.
var weekDays = [...]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes"}

// TimeSlot is one bookable 30 minute unit. Start and End are minutes from
// midnight. Assigned flips false→true exactly once, within one generation run.
type TimeSlot struct {
	Start    int
	End      int
	Assigned bool
}

// DaySchedule is the ordered slot sequence of one weekday.
type DaySchedule struct {
	Day   string
	Slots []TimeSlot
}

// WeekGrid is the canonical set of bookable slots for a generation run. It is
// created fresh per run and owned by that run; assigned state never leaks
// across invocations.
type WeekGrid struct {
	Days []DaySchedule
}

// NewWeekGrid builds the Monday..Friday grid with every slot unassigned.
func NewWeekGrid() *WeekGrid {
	grid := &WeekGrid{Days: make([]DaySchedule, len(weekDays))}
	for d, name := range weekDays {
		day := DaySchedule{Day: name, Slots: make([]TimeSlot, slotsPerDay)}
		for i := 0; i < slotsPerDay; i++ {
			start := gridStartMinute + i*slotMinutes
			day.Slots[i] = TimeSlot{Start: start, End: start + slotMinutes}
		}
		grid.Days[d] = day
	}
	return grid
}

// minuteToClock renders minutes from midnight as "HH:MM".
func minuteToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// parseClock parses "HH:MM" or "HH:MM:SS" into minutes from midnight.
func parseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(parts[0]+":"+parts[1], "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return hour*60 + minute, nil
}

var accentReplacer = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")

var dayNameIndex = map[string]int{
	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"jueves":    3,
	"viernes":   4,
}

// dayIndex resolves a Spanish weekday name to its grid index, tolerating case
// and accent variations. Weekend names are rejected along with garbage.
func dayIndex(name string) (int, bool) {
	normalized := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	idx, ok := dayNameIndex[normalized]
	return idx, ok
}
