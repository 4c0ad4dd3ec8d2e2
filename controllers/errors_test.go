package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-admin/services"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("booking 9: %w", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{services.ErrInvalidDateRange, http.StatusBadRequest, "invalid_date_range"},
		{services.ErrOccupancyExceeded, http.StatusUnprocessableEntity, "occupancy_exceeded"},
		{services.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
		{services.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{services.ErrEmptyMessage, http.StatusBadRequest, "empty_message"},
		{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{services.ErrValidation, http.StatusBadRequest, "validation_error"},
		{services.ErrConflict, http.StatusConflict, "conflict"},
		{services.ErrDispatchFailed, http.StatusBadGateway, "dispatch_failed"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
