package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-horarios/timetable-api/internal/dto"
	"github.com/campus-horarios/timetable-api/internal/models"
	appErrors "github.com/campus-horarios/timetable-api/pkg/errors"
)

type groupFixtureConfig struct {
	cycleErr   error
	professors []models.Professor
	subjects   []models.Subject
	classrooms []models.Classroom
	store      *groupStoreStub
}

func newGroupFixture(cfg groupFixtureConfig) (*GroupGeneratorService, *groupStoreStub) {
	store := cfg.store
	if store == nil {
		store = &groupStoreStub{}
	}
	service := NewGroupGeneratorService(
		cycleReaderStub{err: cfg.cycleErr},
		professorListerStub{items: cfg.professors},
		subjectListerStub{items: cfg.subjects},
		classroomListerStub{items: cfg.classrooms},
		store,
		nil,
		nil,
		nil,
		nil,
	)
	return service, store
}

func twoClassrooms() []models.Classroom {
	return []models.Classroom{{ID: "c-1", Name: "A-101"}, {ID: "c-2", Name: "A-102"}}
}

func TestGroupGenerateCreatesGroupPerResolvedClass(t *testing.T) {
	service, store := newGroupFixture(groupFixtureConfig{
		professors: []models.Professor{
			{ID: "p-1", ClassNames: "Cálculo Diferencial, Bases de Datos", Active: true},
		},
		subjects: []models.Subject{
			{ID: "s-1", Name: "Cálculo Diferencial", Semester: 1},
			{ID: "s-2", Name: "Bases de Datos", Semester: 3},
		},
		classrooms: twoClassrooms(),
	})

	resp, err := service.Generate(context.Background(), dto.GenerateGroupsRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Empty(t, resp.Unresolved)

	require.Len(t, store.replaced, 2)
	assert.Equal(t, "s-1", store.replaced[0].SubjectID)
	assert.Equal(t, "p-1", store.replaced[0].ProfessorID)
	assert.Equal(t, "cycle-1", store.replaced[0].CycleID)
	assert.Equal(t, 1, store.replaced[0].Semester)
	assert.NotEmpty(t, store.replaced[0].ID)
}

func TestGroupGenerateRoundRobinsClassrooms(t *testing.T) {
	service, store := newGroupFixture(groupFixtureConfig{
		professors: []models.Professor{
			{ID: "p-1", ClassNames: "Cálculo Diferencial, Bases de Datos, Programación", Active: true},
		},
		subjects: []models.Subject{
			{ID: "s-1", Name: "Cálculo Diferencial"},
			{ID: "s-2", Name: "Bases de Datos"},
			{ID: "s-3", Name: "Programación"},
		},
		classrooms: twoClassrooms(),
	})

	_, err := service.Generate(context.Background(), dto.GenerateGroupsRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	require.Len(t, store.replaced, 3)
	assert.Equal(t, "c-1", store.replaced[0].ClassroomID)
	assert.Equal(t, "c-2", store.replaced[1].ClassroomID)
	assert.Equal(t, "c-1", store.replaced[2].ClassroomID, "assignment wraps around the classroom list")
}

func TestGroupGenerateReportsUnresolvedClass(t *testing.T) {
	service, store := newGroupFixture(groupFixtureConfig{
		professors: []models.Professor{
			{ID: "p-1", ClassNames: "Astrofísica Avanzada", Active: true},
		},
		subjects:   []models.Subject{{ID: "s-1", Name: "Cálculo Diferencial"}},
		classrooms: twoClassrooms(),
	})

	resp, err := service.Generate(context.Background(), dto.GenerateGroupsRequest{CycleID: "cycle-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
	require.Len(t, resp.Unresolved, 1)
	assert.Equal(t, "p-1", resp.Unresolved[0].ProfessorID)
	assert.Equal(t, "Astrofísica Avanzada", resp.Unresolved[0].ClassName)
	assert.Empty(t, store.replaced)
}

func TestGroupGeneratePrefixedIDCollision(t *testing.T) {
	service, store := newGroupFixture(groupFixtureConfig{
		professors: []models.Professor{
			{ID: "p-1", ClassNames: "Cálculo Diferencial", Active: true},
			{ID: "p-2", ClassNames: "Cálculo Diferencial", Active: true},
		},
		subjects:   []models.Subject{{ID: "s-1", Name: "Cálculo Diferencial"}},
		classrooms: twoClassrooms(),
	})

	resp, err := service.Generate(context.Background(), dto.GenerateGroupsRequest{CycleID: "cycle-1", IDPrefix: "G2026"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
	require.Len(t, resp.Unresolved, 1)
	assert.Equal(t, "p-2", resp.Unresolved[0].ProfessorID, "second claimant of the prefixed id is skipped")

	require.Len(t, store.replaced, 1)
	assert.Equal(t, "G2026-s-1", store.replaced[0].ID)
}

func TestGroupGeneratePreconditions(t *testing.T) {
	classrooms := twoClassrooms()
	subjects := []models.Subject{{ID: "s-1", Name: "Cálculo Diferencial"}}
	professors := []models.Professor{{ID: "p-1", ClassNames: "Cálculo Diferencial", Active: true}}

	cases := []struct {
		name string
		cfg  groupFixtureConfig
	}{
		{"no professors", groupFixtureConfig{subjects: subjects, classrooms: classrooms}},
		{"no subjects", groupFixtureConfig{professors: professors, classrooms: classrooms}},
		{"no classrooms", groupFixtureConfig{professors: professors, subjects: subjects}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newGroupFixture(tc.cfg)
			_, err := service.Generate(context.Background(), dto.GenerateGroupsRequest{CycleID: "cycle-1"})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestGroupGenerateCycleNotFound(t *testing.T) {
	service, _ := newGroupFixture(groupFixtureConfig{cycleErr: sql.ErrNoRows})
	_, err := service.Generate(context.Background(), dto.GenerateGroupsRequest{CycleID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSplitClassNames(t *testing.T) {
	assert.Equal(t, []string{"Cálculo", "Bases de Datos"}, splitClassNames(" Cálculo ,, Bases de Datos , "))
	assert.Empty(t, splitClassNames(""))
	assert.Empty(t, splitClassNames(" , ,"))
}

// --- stubs ---

type professorListerStub struct {
	items []models.Professor
}

func (s professorListerStub) ListActive(ctx context.Context) ([]models.Professor, error) {
	return s.items, nil
}

type classroomListerStub struct {
	items []models.Classroom
}

func (s classroomListerStub) ListAll(ctx context.Context) ([]models.Classroom, error) {
	return s.items, nil
}

type groupStoreStub struct {
	existing []models.Group
	replaced []models.Group
}

func (s *groupStoreStub) ListByCycle(ctx context.Context, cycleID string) ([]models.Group, error) {
	return s.existing, nil
}

func (s *groupStoreStub) ReplaceForCycle(ctx context.Context, cycleID string, groups []models.Group) error {
	s.replaced = groups
	return nil
}
