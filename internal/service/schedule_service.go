package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-horarios/timetable-api/internal/models"
	appErrors "github.com/campus-horarios/timetable-api/pkg/errors"
	"github.com/campus-horarios/timetable-api/pkg/export"
)

type scheduleDetailLister interface {
	ListByCycle(ctx context.Context, cycleID string) ([]models.ScheduleItemDetail, error)
	ListByProfessor(ctx context.Context, professorID string) ([]models.ScheduleItemDetail, error)
	ListByClassroom(ctx context.Context, classroomID string) ([]models.ScheduleItemDetail, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cycleReader interface {
	FindByID(ctx context.Context, id string) (*models.Cycle, error)
}

// ScheduleService serves read views over the general schedule with a Redis
// read-through cache and a CSV rendering of a cycle's timetable.
type ScheduleService struct {
	schedule scheduleDetailLister
	cycles   cycleReader
	cache    scheduleCache
	exporter *export.CSVExporter
	metrics  *MetricsService
	logger   *zap.Logger
	ttl      time.Duration
	enabled  bool
}

// ScheduleServiceConfig governs read caching.
type ScheduleServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewScheduleService wires schedule read dependencies.
func NewScheduleService(
	schedule scheduleDetailLister,
	cycles cycleReader,
	cache scheduleCache,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &ScheduleService{
		schedule: schedule,
		cycles:   cycles,
		cache:    cache,
		exporter: export.NewCSVExporter(),
		metrics:  metrics,
		logger:   logger,
		ttl:      cfg.CacheTTL,
		enabled:  cfg.CacheEnabled && cache != nil,
	}
}

// ByCycle returns the general schedule of one cycle.
func (s *ScheduleService) ByCycle(ctx context.Context, cycleID string) ([]models.ScheduleItemDetail, error) {
	return s.cached(ctx, fmt.Sprintf("schedule:cycle:%s", cycleID), func() ([]models.ScheduleItemDetail, error) {
		return s.schedule.ListByCycle(ctx, cycleID)
	})
}

// ByProfessor returns every scheduled block assigned to one professor.
func (s *ScheduleService) ByProfessor(ctx context.Context, professorID string) ([]models.ScheduleItemDetail, error) {
	return s.cached(ctx, fmt.Sprintf("schedule:professor:%s", professorID), func() ([]models.ScheduleItemDetail, error) {
		return s.schedule.ListByProfessor(ctx, professorID)
	})
}

// ByClassroom returns every scheduled block held in one classroom.
func (s *ScheduleService) ByClassroom(ctx context.Context, classroomID string) ([]models.ScheduleItemDetail, error) {
	return s.cached(ctx, fmt.Sprintf("schedule:classroom:%s", classroomID), func() ([]models.ScheduleItemDetail, error) {
		return s.schedule.ListByClassroom(ctx, classroomID)
	})
}

// ExportCycleCSV renders a cycle's schedule as CSV bytes.
func (s *ScheduleService) ExportCycleCSV(ctx context.Context, cycleID string) ([]byte, error) {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle")
	}

	items, err := s.ByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	rows := make([]export.ScheduleCSVRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, export.ScheduleCSVRow{
			Cycle:         cycle.Name,
			DegreeProgram: item.DegreeProgram,
			Group:         item.GroupID,
			Subject:       item.SubjectName,
			Professor:     item.ProfessorName,
			Classroom:     item.ClassroomName,
			Day:           item.Day,
			StartTime:     item.StartTime,
			EndTime:       item.EndTime,
		})
	}

	payload, err := s.exporter.Render(rows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule CSV")
	}
	return payload, nil
}

// InvalidateCycle evicts every cached schedule view after regeneration.
// Professor and classroom views can span cycles, so the whole namespace goes.
func (s *ScheduleService) InvalidateCycle(ctx context.Context, cycleID string) {
	if !s.enabled {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "schedule:*"); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.String("cycle_id", cycleID), zap.Error(err))
	}
}

func (s *ScheduleService) cached(ctx context.Context, key string, load func() ([]models.ScheduleItemDetail, error)) ([]models.ScheduleItemDetail, error) {
	if s.enabled {
		var cachedItems []models.ScheduleItemDetail
		err := s.cache.Get(ctx, key, &cachedItems)
		if err == nil {
			s.metrics.RecordCacheOperation(true)
			return cachedItems, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("schedule cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	items, err := load()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if s.enabled {
		if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
			s.logger.Warn("schedule cache store failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}
