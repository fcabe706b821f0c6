package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken means another appointment already holds the (branch, date, time) slot.
	ErrSlotTaken = errors.New("appointment slot already taken")
	// ErrStaleStatus means the row changed status between read and write.
	ErrStaleStatus = errors.New("appointment status changed concurrently")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// modernc and mattn sqlite drivers both report this text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
