package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/services"
	"hotel-admin/utils"
)

type createUserPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type UserController struct {
	UserSvc   *services.UserService
	ReportSvc *services.ReportService
	Log       *zap.Logger
}

func NewUserController(users *services.UserService, reports *services.ReportService, log *zap.Logger) *UserController {
	return &UserController{UserSvc: users, ReportSvc: reports, Log: log}
}

// POST /api/admin/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var payload createUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid user payload: "+err.Error())
		return
	}

	user, err := ctrl.UserSvc.Create(c.Request.Context(), services.CreateUserInput{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

// GET /api/admin/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := ctrl.UserSvc.Get(ctx, id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	stats, err := ctrl.ReportSvc.ComputeUserStats(ctx, id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":         user,
		"bookingCount": stats.BookingCount,
		"totalSpent":   stats.TotalSpent,
		"isVip":        stats.IsVIP(),
	})
}
