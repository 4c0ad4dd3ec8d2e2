package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/models"
	"hotel-admin/services"
	"hotel-admin/utils"
)

type hotelSettingsPayload struct {
	Name    string `json:"name" binding:"max=255"`
	Address string `json:"address"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Website string `json:"website" binding:"omitempty,url"`
	Logo    string `json:"logo"`
}

type SettingsController struct {
	SettingsSvc *services.SettingsService
	Log         *zap.Logger
}

func NewSettingsController(svc *services.SettingsService, log *zap.Logger) *SettingsController {
	return &SettingsController{SettingsSvc: svc, Log: log}
}

// GET /api/admin/settings/hotel
func (ctrl *SettingsController) GetHotelSettings(c *gin.Context) {
	hotel, err := ctrl.SettingsSvc.Get(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

// PUT /api/admin/settings/hotel
func (ctrl *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	hotel, err := ctrl.SettingsSvc.Save(c.Request.Context(), models.HotelSetting{
		Name:    payload.Name,
		Address: payload.Address,
		Phone:   payload.Phone,
		Email:   payload.Email,
		Website: payload.Website,
		Logo:    payload.Logo,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}
