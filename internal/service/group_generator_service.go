package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-horarios/timetable-api/internal/dto"
	"github.com/campus-horarios/timetable-api/internal/models"
	appErrors "github.com/campus-horarios/timetable-api/pkg/errors"
)

type groupProfessorLister interface {
	ListActive(ctx context.Context) ([]models.Professor, error)
}

type groupSubjectLister interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type groupClassroomLister interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
}

type groupStore interface {
	ListByCycle(ctx context.Context, cycleID string) ([]models.Group, error)
	ReplaceForCycle(ctx context.Context, cycleID string, groups []models.Group) error
}

type groupCycleReader interface {
	FindByID(ctx context.Context, id string) (*models.Cycle, error)
}

// ClassroomAssigner picks a classroom for the n-th generated group.
type ClassroomAssigner interface {
	Assign(n int, classrooms []models.Classroom) models.Classroom
}

// RoundRobinAssigner cycles through classrooms in list order.
type RoundRobinAssigner struct{}

// Assign returns the n-th classroom modulo the list length.
func (RoundRobinAssigner) Assign(n int, classrooms []models.Classroom) models.Classroom {
	return classrooms[n%len(classrooms)]
}

// GroupGeneratorService turns professor class lists into persisted groups for
// a cycle, resolving each class name to a subject record.
type GroupGeneratorService struct {
	cycles     groupCycleReader
	professors groupProfessorLister
	subjects   groupSubjectLister
	classrooms groupClassroomLister
	groups     groupStore
	resolver   SubjectResolver
	assigner   ClassroomAssigner
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewGroupGeneratorService wires group generation dependencies.
func NewGroupGeneratorService(
	cycles groupCycleReader,
	professors groupProfessorLister,
	subjects groupSubjectLister,
	classrooms groupClassroomLister,
	groups groupStore,
	resolver SubjectResolver,
	assigner ClassroomAssigner,
	validate *validator.Validate,
	logger *zap.Logger,
) *GroupGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewSubjectResolver(0)
	}
	if assigner == nil {
		assigner = RoundRobinAssigner{}
	}
	return &GroupGeneratorService{
		cycles:     cycles,
		professors: professors,
		subjects:   subjects,
		classrooms: classrooms,
		groups:     groups,
		resolver:   resolver,
		assigner:   assigner,
		validator:  validate,
		logger:     logger,
	}
}

// Generate builds and persists the group set for a cycle. Class names that
// resolve to no subject, and group ID collisions for manually prefixed IDs,
// are reported and skipped; they never abort the run.
func (s *GroupGeneratorService) Generate(ctx context.Context, req dto.GenerateGroupsRequest) (*dto.GenerateGroupsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group generation payload")
	}

	if _, err := s.cycles.FindByID(ctx, req.CycleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
	}

	professors, err := s.professors.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professors")
	}
	if len(professors) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active professors to generate groups for")
	}

	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no subjects defined")
	}

	classrooms, err := s.classrooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	if len(classrooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no classrooms defined")
	}

	var created []models.Group
	var unresolved []dto.UnresolvedClass
	seenIDs := make(map[string]bool)

	for _, professor := range professors {
		for _, rawName := range splitClassNames(professor.ClassNames) {
			subject, ok := s.resolver.Resolve(rawName, subjects)
			if !ok {
				s.logger.Warn("class name resolved to no subject, skipping",
					zap.String("professor_id", professor.ID),
					zap.String("class_name", rawName))
				unresolved = append(unresolved, dto.UnresolvedClass{
					ProfessorID: professor.ID,
					ClassName:   rawName,
					Reason:      "no matching subject",
				})
				continue
			}

			groupID := uuid.NewString()
			if req.IDPrefix != "" {
				groupID = fmt.Sprintf("%s-%s", req.IDPrefix, subject.ID)
			}
			if seenIDs[groupID] {
				s.logger.Warn("group id collision, skipping",
					zap.String("group_id", groupID),
					zap.String("professor_id", professor.ID))
				unresolved = append(unresolved, dto.UnresolvedClass{
					ProfessorID: professor.ID,
					ClassName:   rawName,
					Reason:      fmt.Sprintf("group id %s already taken", groupID),
				})
				continue
			}
			seenIDs[groupID] = true

			created = append(created, models.Group{
				ID:          groupID,
				SubjectID:   subject.ID,
				ProfessorID: professor.ID,
				ClassroomID: s.assigner.Assign(len(created), classrooms).ID,
				CycleID:     req.CycleID,
				Semester:    subject.Semester,
			})
		}
	}

	if err := s.groups.ReplaceForCycle(ctx, req.CycleID, created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist groups")
	}

	s.logger.Info("group generation finished",
		zap.String("cycle_id", req.CycleID),
		zap.Int("created", len(created)),
		zap.Int("unresolved", len(unresolved)))

	return &dto.GenerateGroupsResponse{
		CycleID:    req.CycleID,
		Created:    len(created),
		Unresolved: unresolved,
	}, nil
}

// List returns the persisted groups of a cycle.
func (s *GroupGeneratorService) List(ctx context.Context, cycleID string) ([]models.Group, error) {
	if cycleID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cycle id is required")
	}
	groups, err := s.groups.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

func splitClassNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
