package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-horarios/timetable-api/internal/dto"
	"github.com/campus-horarios/timetable-api/internal/models"
	appErrors "github.com/campus-horarios/timetable-api/pkg/errors"
)

type generatorFixtureConfig struct {
	cycleErr     error
	groups       []models.Group
	subjects     []models.Subject
	availability []models.Availability
	replaceErr   error
	sink         *scheduleSinkStub
}

func newGeneratorFixture(cfg generatorFixtureConfig) *ScheduleGeneratorService {
	sink := cfg.sink
	if sink == nil {
		sink = &scheduleSinkStub{err: cfg.replaceErr}
	}
	return NewScheduleGeneratorService(
		cycleReaderStub{err: cfg.cycleErr},
		groupListerStub{items: cfg.groups},
		subjectListerStub{items: cfg.subjects},
		availabilityListerStub{items: cfg.availability},
		sink,
		nil,
		nil,
		nil,
		nil,
		ScheduleGeneratorConfig{ReportTTL: time.Hour},
	)
}

func mondayMorning(professorID string) []models.Availability {
	return []models.Availability{
		{ID: "a-1", ProfessorID: professorID, Day: "Lunes", StartTime: "08:00", EndTime: "11:00"},
	}
}

func TestGenerateFillsExactWindow(t *testing.T) {
	sink := &scheduleSinkStub{}
	service := newGeneratorFixture(generatorFixtureConfig{
		groups:       []models.Group{{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1", CycleID: "cycle-1"}},
		subjects:     []models.Subject{{ID: "s-1", Name: "Cálculo I", WeeklyClassHours: 3}},
		availability: mondayMorning("p-1"),
		sink:         sink,
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, 6, resp.Groups[0].RequiredSlots)
	assert.Equal(t, 6, resp.Groups[0].AssignedSlots)
	assert.Zero(t, resp.Groups[0].Shortfall())

	require.Len(t, sink.items, 1, "contiguous slots should coalesce into one block")
	item := sink.items[0]
	assert.Equal(t, "Lunes", item.Day)
	assert.Equal(t, "08:00", item.StartTime)
	assert.Equal(t, "11:00", item.EndTime)
	assert.Equal(t, "g-1", item.GroupID)
}

func TestGenerateReportsFullShortfallWithoutAvailability(t *testing.T) {
	sink := &scheduleSinkStub{}
	service := newGeneratorFixture(generatorFixtureConfig{
		groups:   []models.Group{{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"}},
		subjects: []models.Subject{{ID: "s-1", Name: "Física", WeeklyClassHours: 2}},
		sink:     sink,
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err, "shortfall is a warning, not an error")
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, 4, resp.Groups[0].RequiredSlots)
	assert.Equal(t, 0, resp.Groups[0].AssignedSlots)
	assert.Equal(t, 4, resp.Groups[0].Shortfall())
	assert.Empty(t, sink.items)
}

func TestGenerateCatalogOrderWinsContention(t *testing.T) {
	sink := &scheduleSinkStub{}
	availability := append(mondayMorning("p-1"), mondayMorning("p-2")...)
	service := newGeneratorFixture(generatorFixtureConfig{
		groups: []models.Group{
			{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"},
			{ID: "g-2", SubjectID: "s-2", ProfessorID: "p-2", ClassroomID: "c-1"},
		},
		subjects: []models.Subject{
			{ID: "s-1", Name: "Álgebra", WeeklyClassHours: 2},
			{ID: "s-2", Name: "Programación", WeeklyClassHours: 2},
		},
		availability: availability,
		sink:         sink,
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, 4, resp.Groups[0].AssignedSlots)
	assert.Equal(t, 2, resp.Groups[1].AssignedSlots, "second group gets what remains of the shared window")

	require.Len(t, sink.items, 2)
	assert.Equal(t, "08:00", sink.items[0].StartTime)
	assert.Equal(t, "10:00", sink.items[0].EndTime)
	assert.Equal(t, "10:00", sink.items[1].StartTime)
	assert.Equal(t, "11:00", sink.items[1].EndTime)
}

func TestGenerateCeilsFractionalHours(t *testing.T) {
	service := newGeneratorFixture(generatorFixtureConfig{
		groups:       []models.Group{{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"}},
		subjects:     []models.Subject{{ID: "s-1", Name: "Estadística", WeeklyClassHours: 1.5}},
		availability: mondayMorning("p-1"),
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Groups[0].RequiredSlots)
	assert.Equal(t, 3, resp.Groups[0].AssignedSlots)
}

func TestGenerateClampsToGridEnd(t *testing.T) {
	sink := &scheduleSinkStub{}
	service := newGeneratorFixture(generatorFixtureConfig{
		groups:   []models.Group{{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"}},
		subjects: []models.Subject{{ID: "s-1", Name: "Química", WeeklyClassHours: 2}},
		availability: []models.Availability{
			{ID: "a-1", ProfessorID: "p-1", Day: "Viernes", StartTime: "15:00", EndTime: "17:00"},
		},
		sink: sink,
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Groups[0].AssignedSlots, "slots past 16:00 do not exist")
	assert.Equal(t, 2, resp.Groups[0].Shortfall())
	require.Len(t, sink.items, 1)
	assert.Equal(t, "15:00", sink.items[0].StartTime)
	assert.Equal(t, "16:00", sink.items[0].EndTime)
}

func TestGenerateIsIdempotentForUnchangedInputs(t *testing.T) {
	cfg := generatorFixtureConfig{
		groups: []models.Group{
			{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"},
			{ID: "g-2", SubjectID: "s-2", ProfessorID: "p-2", ClassroomID: "c-2"},
		},
		subjects: []models.Subject{
			{ID: "s-1", Name: "Álgebra", WeeklyClassHours: 3},
			{ID: "s-2", Name: "Programación", WeeklyClassHours: 2.5},
		},
		availability: append(mondayMorning("p-1"), mondayMorning("p-2")...),
	}
	service := newGeneratorFixture(cfg)

	first, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	second, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)

	require.Equal(t, len(first.Groups), len(second.Groups))
	for i := range first.Groups {
		assert.Equal(t, first.Groups[i].GroupID, second.Groups[i].GroupID)
		assert.Equal(t, first.Groups[i].AssignedSlots, second.Groups[i].AssignedSlots,
			"rerunning with unchanged inputs must reproduce each group's totals")
	}
	assert.Equal(t, first.ItemCount, second.ItemCount)
}

func TestGenerateSameProfessorGroupsNeverOverlap(t *testing.T) {
	sink := &scheduleSinkStub{}
	service := newGeneratorFixture(generatorFixtureConfig{
		groups: []models.Group{
			{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"},
			{ID: "g-2", SubjectID: "s-2", ProfessorID: "p-1", ClassroomID: "c-2"},
		},
		subjects: []models.Subject{
			{ID: "s-1", Name: "Álgebra", WeeklyClassHours: 1},
			{ID: "s-2", Name: "Geometría", WeeklyClassHours: 1},
		},
		availability: mondayMorning("p-1"),
		sink:         sink,
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, 2, resp.Groups[0].AssignedSlots)
	assert.Equal(t, 2, resp.Groups[1].AssignedSlots)

	type interval struct{ start, end int }
	seen := map[string][]interval{}
	for _, item := range sink.items {
		start, err := parseClock(item.StartTime)
		require.NoError(t, err)
		end, err := parseClock(item.EndTime)
		require.NoError(t, err)
		for _, prev := range seen[item.Day] {
			assert.True(t, end <= prev.start || start >= prev.end,
				"blocks %s-%s and %02d:%02d-%02d:%02d of the same professor overlap on %s",
				item.StartTime, item.EndTime, prev.start/60, prev.start%60, prev.end/60, prev.end%60, item.Day)
		}
		seen[item.Day] = append(seen[item.Day], interval{start: start, end: end})
	}
}

func TestGenerateSkipsGroupWithUnknownSubject(t *testing.T) {
	service := newGeneratorFixture(generatorFixtureConfig{
		groups: []models.Group{
			{ID: "g-1", SubjectID: "missing", ProfessorID: "p-1", ClassroomID: "c-1"},
			{ID: "g-2", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"},
		},
		subjects:     []models.Subject{{ID: "s-1", Name: "Historia", WeeklyClassHours: 1}},
		availability: mondayMorning("p-1"),
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "g-1", resp.Skipped[0].GroupID)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "g-2", resp.Groups[0].GroupID)
}

func TestGenerateCycleNotFound(t *testing.T) {
	service := newGeneratorFixture(generatorFixtureConfig{cycleErr: sql.ErrNoRows})

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGenerateRequiresGroups(t *testing.T) {
	service := newGeneratorFixture(generatorFixtureConfig{})

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestGeneratePersistFailureAborts(t *testing.T) {
	service := newGeneratorFixture(generatorFixtureConfig{
		groups:       []models.Group{{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"}},
		subjects:     []models.Subject{{ID: "s-1", Name: "Historia", WeeklyClassHours: 1}},
		availability: mondayMorning("p-1"),
		replaceErr:   errors.New("db down"),
	})

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestReportRoundTrip(t *testing.T) {
	service := newGeneratorFixture(generatorFixtureConfig{
		groups:       []models.Group{{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1"}},
		subjects:     []models.Subject{{ID: "s-1", Name: "Historia", WeeklyClassHours: 1}},
		availability: mondayMorning("p-1"),
	})

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{CycleID: "cycle-1"})
	require.NoError(t, err)

	report, err := service.Report(resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, resp.RunID, report.RunID)
	assert.Equal(t, "cycle-1", report.CycleID)

	_, err = service.Report("unknown-run")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRequiredSlots(t *testing.T) {
	assert.Equal(t, 0, RequiredSlots(0))
	assert.Equal(t, 2, RequiredSlots(1))
	assert.Equal(t, 3, RequiredSlots(1.25))
	assert.Equal(t, 3, RequiredSlots(1.5))
	assert.Equal(t, 8, RequiredSlots(4))
}

// --- stubs ---

type cycleReaderStub struct {
	err error
}

func (s cycleReaderStub) FindByID(ctx context.Context, id string) (*models.Cycle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Cycle{ID: id, Name: "2026-1"}, nil
}

type groupListerStub struct {
	items []models.Group
}

func (s groupListerStub) ListByCycle(ctx context.Context, cycleID string) ([]models.Group, error) {
	return s.items, nil
}

type subjectListerStub struct {
	items []models.Subject
}

func (s subjectListerStub) ListAll(ctx context.Context) ([]models.Subject, error) {
	return s.items, nil
}

type availabilityListerStub struct {
	items []models.Availability
}

func (s availabilityListerStub) ListAll(ctx context.Context) ([]models.Availability, error) {
	return s.items, nil
}

type scheduleSinkStub struct {
	items []models.ScheduleItem
	err   error
}

func (s *scheduleSinkStub) ReplaceForCycle(ctx context.Context, cycleID string, items []models.ScheduleItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = items
	return nil
}
