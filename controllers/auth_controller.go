package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/middleware"
	"hotel-admin/services"
	"hotel-admin/utils"
)

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	AuthSvc *services.AuthService
	Log     *zap.Logger
}

func NewAuthController(svc *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{AuthSvc: svc, Log: log}
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "username and password required")
		return
	}

	token, admin, err := ctrl.AuthSvc.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		ctrl.Log.Info("login rejected", zap.String("username", payload.Username), zap.Error(err))
		respondError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin":   admin,
	})
}

// GET /api/users/profile
func (ctrl *AuthController) Profile(c *gin.Context) {
	id := c.GetUint(middleware.AdminIDKey)
	admin, err := ctrl.AuthSvc.GetAdmin(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admin)
}
