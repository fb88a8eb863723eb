package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-horarios/timetable-api/internal/models"
	"github.com/campus-horarios/timetable-api/internal/service"
	"github.com/campus-horarios/timetable-api/pkg/response"
)

type scheduleReader interface {
	ByCycle(ctx context.Context, cycleID string) ([]models.ScheduleItemDetail, error)
	ByProfessor(ctx context.Context, professorID string) ([]models.ScheduleItemDetail, error)
	ByClassroom(ctx context.Context, classroomID string) ([]models.ScheduleItemDetail, error)
	ExportCycleCSV(ctx context.Context, cycleID string) ([]byte, error)
}

// ScheduleHandler exposes read views over the general schedule.
type ScheduleHandler struct {
	service scheduleReader
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// ByCycle godoc
// @Summary Get the general schedule of a cycle
// @Tags Schedule
// @Produce json
// @Param cycleId path string true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /cycles/{cycleId}/schedule [get]
func (h *ScheduleHandler) ByCycle(c *gin.Context) {
	items, err := h.service.ByCycle(c.Request.Context(), c.Param("cycleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, items)
}

// ByProfessor godoc
// @Summary Get a professor's schedule
// @Tags Schedule
// @Produce json
// @Param professorId path string true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{professorId}/schedule [get]
func (h *ScheduleHandler) ByProfessor(c *gin.Context) {
	items, err := h.service.ByProfessor(c.Request.Context(), c.Param("professorId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, items)
}

// ByClassroom godoc
// @Summary Get a classroom's schedule
// @Tags Schedule
// @Produce json
// @Param classroomId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{classroomId}/schedule [get]
func (h *ScheduleHandler) ByClassroom(c *gin.Context) {
	items, err := h.service.ByClassroom(c.Request.Context(), c.Param("classroomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, items)
}

// ExportCSV godoc
// @Summary Download a cycle's schedule as CSV
// @Tags Schedule
// @Produce text/csv
// @Param cycleId path string true "Cycle ID"
// @Success 200 {string} string "CSV payload"
// @Router /cycles/{cycleId}/schedule/export [get]
func (h *ScheduleHandler) ExportCSV(c *gin.Context) {
	cycleID := c.Param("cycleId")
	payload, err := h.service.ExportCycleCSV(c.Request.Context(), cycleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.csv", cycleID))
	c.Data(http.StatusOK, "text/csv", payload)
}
