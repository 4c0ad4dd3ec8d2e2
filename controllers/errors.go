package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/services"
	"hotel-admin/utils"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrInvalidDateRange, http.StatusBadRequest, "invalid_date_range"},
	{services.ErrOccupancyExceeded, http.StatusUnprocessableEntity, "occupancy_exceeded"},
	{services.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{services.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{services.ErrEmptyMessage, http.StatusBadRequest, "empty_message"},
	{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{services.ErrValidation, http.StatusBadRequest, "validation_error"},
	{services.ErrConflict, http.StatusConflict, "conflict"},
	{services.ErrDispatchFailed, http.StatusBadGateway, "dispatch_failed"},
}

// StatusFor maps a service error to its HTTP status and machine-readable code.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// respondError writes {success:false, code, message}. Unknown errors are logged and hidden.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "internal server error"
	}
	utils.JSONError(c, status, code, message)
}

func respondBadRequest(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusBadRequest, "validation_error", message)
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
