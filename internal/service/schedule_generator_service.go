package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/campus-horarios/timetable-api/internal/dto"
	"github.com/campus-horarios/timetable-api/internal/models"
	appErrors "github.com/campus-horarios/timetable-api/pkg/errors"
)

type schedulerCycleReader interface {
	FindByID(ctx context.Context, id string) (*models.Cycle, error)
}

type schedulerGroupLister interface {
	ListByCycle(ctx context.Context, cycleID string) ([]models.Group, error)
}

type schedulerSubjectLister interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type availabilityLister interface {
	ListAll(ctx context.Context) ([]models.Availability, error)
}

type scheduleReplacer interface {
	ReplaceForCycle(ctx context.Context, cycleID string, items []models.ScheduleItem) error
}

type scheduleInvalidator interface {
	InvalidateCycle(ctx context.Context, cycleID string)
}

// ScheduleGeneratorService runs the full generation pipeline: load the group
// catalog and availability snapshot, allocate slots greedily over a fresh
// weekly grid, and materialize the result as the cycle's general schedule.
type ScheduleGeneratorService struct {
	cycles       schedulerCycleReader
	groups       schedulerGroupLister
	subjects     schedulerSubjectLister
	availability availabilityLister
	schedule     scheduleReplacer
	invalidator  scheduleInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	reports      *gocache.Cache
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	ReportTTL time.Duration
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	cycles schedulerCycleReader,
	groups schedulerGroupLister,
	subjects schedulerSubjectLister,
	availability availabilityLister,
	schedule scheduleReplacer,
	invalidator scheduleInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReportTTL <= 0 {
		cfg.ReportTTL = 2 * time.Hour
	}
	return &ScheduleGeneratorService{
		cycles:       cycles,
		groups:       groups,
		subjects:     subjects,
		availability: availability,
		schedule:     schedule,
		invalidator:  invalidator,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		reports:      gocache.New(cfg.ReportTTL, cfg.ReportTTL),
	}
}

// RequiredSlots converts weekly class-hours to a slot count: two 30 minute
// slots per hour, ceiling so fractional hours never under-allocate.
func RequiredSlots(weeklyClassHours float64) int {
	return int(math.Ceil(weeklyClassHours * 2))
}

// Generate runs one full generation for the cycle and replaces its general
// schedule. Per-group problems (missing subject, capacity shortfall) are
// reported as warnings; only persistence failure aborts the run.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	start := time.Now()

	if _, err := s.cycles.FindByID(ctx, req.CycleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
	}

	groups, err := s.groups.ListByCycle(ctx, req.CycleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load groups")
	}
	if len(groups) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no groups defined for this cycle")
	}

	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	subjectByID := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectByID[subject.ID] = subject
	}

	records, err := s.availability.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	index := BuildAvailabilityIndex(records, s.logger)

	grid := NewWeekGrid()
	result := allocate(grid, groups, subjectByID, index)

	items := materializeItems(req.CycleID, result.placements, subjectByID)
	if err := s.schedule.ReplaceForCycle(ctx, req.CycleID, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist general schedule")
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateCycle(ctx, req.CycleID)
	}

	report := dto.GenerationReport{
		RunID:       uuid.NewString(),
		CycleID:     req.CycleID,
		GeneratedAt: time.Now().UTC(),
		ItemCount:   len(items),
		Groups:      result.allocations,
		Skipped:     result.skipped,
	}
	s.reports.SetDefault(report.RunID, report)

	shortfallSlots := 0
	for _, alloc := range result.allocations {
		shortfallSlots += alloc.Shortfall()
	}
	if s.metrics != nil {
		s.metrics.ObserveGenerationRun(time.Since(start), shortfallSlots)
	}
	for _, warning := range report.ShortfallWarnings() {
		s.logger.Warn("generation warning", zap.String("cycle_id", req.CycleID), zap.String("warning", warning))
	}
	s.logger.Info("schedule generation finished",
		zap.String("cycle_id", req.CycleID),
		zap.String("run_id", report.RunID),
		zap.Int("items", len(items)),
		zap.Int("groups", len(result.allocations)),
		zap.Int("shortfall_slots", shortfallSlots),
		zap.Duration("took", time.Since(start)))

	return &dto.GenerateScheduleResponse{
		RunID:     report.RunID,
		CycleID:   report.CycleID,
		ItemCount: report.ItemCount,
		Groups:    report.Groups,
		Skipped:   report.Skipped,
	}, nil
}

// Report returns a stored generation report while it has not expired.
func (s *ScheduleGeneratorService) Report(runID string) (*dto.GenerationReport, error) {
	if runID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	if raw, ok := s.reports.Get(runID); ok {
		if report, ok := raw.(dto.GenerationReport); ok {
			return &report, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "generation report not found or expired")
}

// --- Allocation ---

// placement records one 30 minute slot reserved for a group.
type placement struct {
	group   models.Group
	dayIdx  int
	slotIdx int
}

type roomKey struct {
	day       int
	slot      int
	classroom string
}

type allocationResult struct {
	placements  []placement
	allocations []dto.GroupAllocation
	skipped     []dto.SkippedGroup
}

// allocate walks groups in catalog order and, for each, scans the grid
// Monday→Friday, chronologically within a day, reserving free slots until the
// subject's required count is met or the grid is exhausted. Greedy, single
// pass, no backtracking: under-allocation is reported, not repaired.
func allocate(grid *WeekGrid, groups []models.Group, subjects map[string]models.Subject, index *AvailabilityIndex) allocationResult {
	var result allocationResult
	roomBusy := make(map[roomKey]bool)

	for _, group := range groups {
		subject, ok := subjects[group.SubjectID]
		if !ok {
			result.skipped = append(result.skipped, dto.SkippedGroup{
				GroupID: group.ID,
				Reason:  "subject " + group.SubjectID + " not found",
			})
			continue
		}

		required := RequiredSlots(subject.WeeklyClassHours)
		assigned := 0

	scan:
		for d := range grid.Days {
			for i := range grid.Days[d].Slots {
				if assigned == required {
					break scan
				}
				slot := &grid.Days[d].Slots[i]
				if slot.Assigned {
					continue
				}
				if roomBusy[roomKey{day: d, slot: i, classroom: group.ClassroomID}] {
					continue
				}
				if !index.IsAvailable(group.ProfessorID, d, slot.Start, slot.End) {
					continue
				}

				slot.Assigned = true
				roomBusy[roomKey{day: d, slot: i, classroom: group.ClassroomID}] = true
				result.placements = append(result.placements, placement{group: group, dayIdx: d, slotIdx: i})
				assigned++
			}
		}

		result.allocations = append(result.allocations, dto.GroupAllocation{
			GroupID:       group.ID,
			SubjectID:     group.SubjectID,
			ProfessorID:   group.ProfessorID,
			ClassroomID:   group.ClassroomID,
			RequiredSlots: required,
			AssignedSlots: assigned,
		})
	}

	return result
}

// materializeItems coalesces contiguous placements per group and day into
// schedule items. Total item minutes always equal assigned slots times the
// slot length.
func materializeItems(cycleID string, placements []placement, subjects map[string]models.Subject) []models.ScheduleItem {
	type runKey struct {
		groupID string
		day     int
	}
	slotsByRun := make(map[runKey][]int)
	groupByID := make(map[string]models.Group)
	var order []runKey

	for _, p := range placements {
		key := runKey{groupID: p.group.ID, day: p.dayIdx}
		if _, seen := slotsByRun[key]; !seen {
			order = append(order, key)
		}
		slotsByRun[key] = append(slotsByRun[key], p.slotIdx)
		groupByID[p.group.ID] = p.group
	}

	var items []models.ScheduleItem
	for _, key := range order {
		slots := slotsByRun[key]
		sort.Ints(slots)
		group := groupByID[key.groupID]

		degreeProgram := ""
		if subject, ok := subjects[group.SubjectID]; ok && subject.DegreeProgram != nil {
			degreeProgram = *subject.DegreeProgram
		}

		runStart := slots[0]
		previous := slots[0]
		for _, idx := range slots[1:] {
			if idx == previous+1 {
				previous = idx
				continue
			}
			items = append(items, buildItem(cycleID, group.ID, degreeProgram, key.day, runStart, previous))
			runStart = idx
			previous = idx
		}
		items = append(items, buildItem(cycleID, group.ID, degreeProgram, key.day, runStart, previous))
	}
	return items
}

func buildItem(cycleID, groupID, degreeProgram string, day, firstSlot, lastSlot int) models.ScheduleItem {
	return models.ScheduleItem{
		CycleID:       cycleID,
		GroupID:       groupID,
		DegreeProgram: degreeProgram,
		Day:           weekDays[day],
		StartTime:     minuteToClock(gridStartMinute + firstSlot*slotMinutes),
		EndTime:       minuteToClock(gridStartMinute + lastSlot*slotMinutes + slotMinutes),
	}
}
