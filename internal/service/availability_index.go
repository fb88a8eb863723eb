package service

import (
	"go.uber.org/zap"

	"github.com/campus-horarios/timetable-api/internal/models"
)

type availabilityWindow struct {
	day   int
	start int
	end   int
}

// AvailabilityIndex answers whether a professor can teach a given interval.
// Windows are kept exactly as recorded and checked independently: adjacent
// windows are never merged, so a slot spanning the boundary of two windows is
// unavailable even when their union covers it.
type AvailabilityIndex struct {
	windows map[string][]availabilityWindow
}

// BuildAvailabilityIndex translates stored availability rows into the index.
// Malformed rows (unknown day name, unparseable times, inverted interval) are
// logged and dropped rather than propagated into allocation.
func BuildAvailabilityIndex(records []models.Availability, logger *zap.Logger) *AvailabilityIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	index := &AvailabilityIndex{windows: make(map[string][]availabilityWindow)}
	for _, record := range records {
		day, ok := dayIndex(record.Day)
		if !ok {
			logger.Warn("availability row has unknown day, dropping",
				zap.String("professor_id", record.ProfessorID),
				zap.String("day", record.Day))
			continue
		}
		start, err := parseClock(record.StartTime)
		if err != nil {
			logger.Warn("availability row has invalid start time, dropping",
				zap.String("professor_id", record.ProfessorID),
				zap.Error(err))
			continue
		}
		end, err := parseClock(record.EndTime)
		if err != nil {
			logger.Warn("availability row has invalid end time, dropping",
				zap.String("professor_id", record.ProfessorID),
				zap.Error(err))
			continue
		}
		if end <= start {
			logger.Warn("availability row has inverted interval, dropping",
				zap.String("professor_id", record.ProfessorID),
				zap.String("start", record.StartTime),
				zap.String("end", record.EndTime))
			continue
		}
		index.windows[record.ProfessorID] = append(index.windows[record.ProfessorID], availabilityWindow{day: day, start: start, end: end})
	}
	return index
}

// IsAvailable reports whether the professor has at least one window on the
// day fully containing [start,end). A professor with no recorded windows is
// never available; ambiguous availability is never treated as permissive.
func (idx *AvailabilityIndex) IsAvailable(professorID string, day, start, end int) bool {
	for _, window := range idx.windows[professorID] {
		if window.day != day {
			continue
		}
		if window.start <= start && window.end >= end {
			return true
		}
	}
	return false
}
