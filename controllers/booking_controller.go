// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/models"
	"hotel-admin/services"
	"hotel-admin/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingPayload struct {
	RoomTypeID        uint     `json:"roomTypeId" binding:"required"`
	UserID            *uint    `json:"userId"`
	GuestName         string   `json:"guestName" binding:"required"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	CheckIn           string   `json:"checkIn" binding:"required"`
	CheckOut          string   `json:"checkOut" binding:"required"`
	Adults            int      `json:"adults" binding:"min=0"`
	Children          int      `json:"children" binding:"min=0"`
	SelectedAmenities []string `json:"selectedAmenities"`
	Status            string   `json:"status"`
}

// UpdateBookingPayload: every field optional; status may be combined with contact edits.
type UpdateBookingPayload struct {
	Status    *string `json:"status"`
	Force     bool    `json:"force"`
	GuestName *string `json:"guestName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

type NotifyPayload struct {
	CustomMessage string `json:"customMessage"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	Log        *zap.Logger
}

func NewBookingController(svc *services.BookingService, log *zap.Logger) *BookingController {
	return &BookingController{BookingSvc: svc, Log: log}
}

// GET /api/admin/bookings?status=&search=
func (ctrl *BookingController) ListBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.ListBookings(c.Request.Context(), services.BookingFilter{
		Status: models.BookingStatus(strings.TrimSpace(c.Query("status"))),
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/admin/bookings/:id
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/admin/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid payload: "+err.Error())
		return
	}

	checkIn, err := utils.ParseDate(payload.CheckIn)
	if err != nil {
		respondBadRequest(c, "checkIn: "+err.Error())
		return
	}
	checkOut, err := utils.ParseDate(payload.CheckOut)
	if err != nil {
		respondBadRequest(c, "checkOut: "+err.Error())
		return
	}

	booking, err := ctrl.BookingSvc.CreateBooking(c.Request.Context(), services.CreateBookingInput{
		RoomTypeID:        payload.RoomTypeID,
		UserID:            payload.UserID,
		GuestName:         payload.GuestName,
		Email:             payload.Email,
		Phone:             payload.Phone,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		Adults:            payload.Adults,
		Children:          payload.Children,
		SelectedAmenities: payload.SelectedAmenities,
		Status:            models.BookingStatus(payload.Status),
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// PUT /api/admin/bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var payload UpdateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid payload: "+err.Error())
		return
	}

	in := services.UpdateBookingInput{
		Force:     payload.Force,
		GuestName: payload.GuestName,
		Email:     payload.Email,
		Phone:     payload.Phone,
	}
	if payload.Status != nil {
		st := models.BookingStatus(strings.TrimSpace(*payload.Status))
		in.Status = &st
	}

	booking, err := ctrl.BookingSvc.UpdateBooking(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DELETE /api/admin/bookings/:id
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.BookingSvc.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Booking deleted")
}

// POST /api/admin/bookings/:id/notify
func (ctrl *BookingController) NotifyGuest(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var payload NotifyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid payload: "+err.Error())
		return
	}

	dispatch, err := ctrl.BookingSvc.RequestNotification(c.Request.Context(), id, payload.CustomMessage)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification sent to " + utils.MaskEmail(dispatch.To),
		"data":    dispatch,
	})
}
