package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/services"
	"hotel-admin/utils"
)

type DashboardController struct {
	ReportSvc *services.ReportService
	Log       *zap.Logger
}

func NewDashboardController(svc *services.ReportService, log *zap.Logger) *DashboardController {
	return &DashboardController{ReportSvc: svc, Log: log}
}

// GET /api/admin/dashboard/stats
func (ctrl *DashboardController) Stats(c *gin.Context) {
	stats, err := ctrl.ReportSvc.ComputeDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// GET /api/admin/dashboard/users
func (ctrl *DashboardController) Users(c *gin.Context) {
	users, err := ctrl.ReportSvc.ListUsersWithStats(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}
