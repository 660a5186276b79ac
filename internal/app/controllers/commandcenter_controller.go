package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
)

// CommandCenterController serves the consolidated operations dashboard
type CommandCenterController struct {
	commandCenterService services.CommandCenterService
}

// NewCommandCenterController creates a new CommandCenterController
func NewCommandCenterController(commandCenterService services.CommandCenterService) *CommandCenterController {
	return &CommandCenterController{
		commandCenterService: commandCenterService,
	}
}

// GetDashboard handles the command center payload
// @Summary Command center dashboard
// @Description Returns the activity feed, trial heatmap and attention counters in one payload. Non-admin callers are scoped to their own center.
// @Tags command-center
// @Produce json
// @Security BearerAuth
// @Param centerId query int false "Restrict to one center (admins only)"
// @Success 200 {object} dto.APIResponse{data=dto.CommandCenterResponse} "Dashboard retrieved"
// @Router /command-center [get]
func (c *CommandCenterController) GetDashboard(ctx *gin.Context) {
	// Users bound to a center always see their own center. Admins may pick
	// one via the query param, or see everything.
	centerID := middleware.GetCenterID(ctx)
	if centerID == 0 {
		if v := ctx.Query("centerId"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				centerID = id
			}
		}
	}

	dashboard, err := c.commandCenterService.Dashboard(ctx, centerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard))
}
