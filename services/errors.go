package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrOccupancyExceeded = errors.New("occupancy exceeded")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrDispatchFailed    = errors.New("notification dispatch failed")
)

// isDuplicateKey detects MySQL 1062 and the SQLite unique constraint message.
func isDuplicateKey(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
