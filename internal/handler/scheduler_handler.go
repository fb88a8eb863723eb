package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/campus-horarios/timetable-api/internal/dto"
	"github.com/campus-horarios/timetable-api/internal/service"
	"github.com/campus-horarios/timetable-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Report(runID string) (*dto.GenerationReport, error)
}

// SchedulerHandler exposes the schedule generation endpoints.
type SchedulerHandler struct {
	service scheduleGenerator
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(svc *service.ScheduleGeneratorService) *SchedulerHandler {
	return &SchedulerHandler{service: svc}
}

// Generate godoc
// @Summary Generate the general schedule for a cycle
// @Description Replaces the cycle's schedule with a freshly allocated one. Groups that cannot be fully placed are reported as warnings, not errors.
// @Tags Scheduler
// @Produce json
// @Param cycleId path string true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /cycles/{cycleId}/schedule/generate [post]
func (h *SchedulerHandler) Generate(c *gin.Context) {
	req := dto.GenerateScheduleRequest{CycleID: c.Param("cycleId")}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	warnings := dto.GenerationReport{Groups: result.Groups, Skipped: result.Skipped}.ShortfallWarnings()
	response.JSONWithWarnings(c, 200, result, warnings)
}

// Report godoc
// @Summary Fetch a stored generation report
// @Tags Scheduler
// @Produce json
// @Param runId path string true "Generation run ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/runs/{runId} [get]
func (h *SchedulerHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, report)
}
