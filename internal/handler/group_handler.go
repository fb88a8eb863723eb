package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/campus-horarios/timetable-api/internal/dto"
	"github.com/campus-horarios/timetable-api/internal/models"
	"github.com/campus-horarios/timetable-api/internal/service"
	appErrors "github.com/campus-horarios/timetable-api/pkg/errors"
	"github.com/campus-horarios/timetable-api/pkg/response"
)

type groupGenerator interface {
	Generate(ctx context.Context, req dto.GenerateGroupsRequest) (*dto.GenerateGroupsResponse, error)
	List(ctx context.Context, cycleID string) ([]models.Group, error)
}

// GroupHandler exposes group catalog endpoints.
type GroupHandler struct {
	service groupGenerator
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(svc *service.GroupGeneratorService) *GroupHandler {
	return &GroupHandler{service: svc}
}

// Generate godoc
// @Summary Generate the group catalog for a cycle
// @Description Builds one group per resolvable professor class, replacing the cycle's previous catalog.
// @Tags Groups
// @Accept json
// @Produce json
// @Param cycleId path string true "Cycle ID"
// @Param payload body dto.GenerateGroupsRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Router /cycles/{cycleId}/groups/generate [post]
func (h *GroupHandler) Generate(c *gin.Context) {
	var req dto.GenerateGroupsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group generation payload"))
			return
		}
	}
	req.CycleID = c.Param("cycleId")
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, result)
}

// List godoc
// @Summary List the group catalog of a cycle
// @Tags Groups
// @Produce json
// @Param cycleId path string true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /cycles/{cycleId}/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context(), c.Param("cycleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, 200, groups)
}
