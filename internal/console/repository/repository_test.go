package repository

import (
	"errors"
	"testing"
	"time"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestBookingWindow_CoversEveryLifecycleState(t *testing.T) {
	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	active, since := bookingWindow(now)

	assert.Equal(t, now.Add(-30*24*time.Hour), since)
	assert.Len(t, active, len(domain.ActiveStatuses))
	assert.NotContains(t, active, string(domain.StatusCompleted))
	assert.NotContains(t, active, string(domain.StatusCancelled))
}

func TestWriteErr(t *testing.T) {
	err := writeErr("update booking", pgx.ErrNoRows)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "update booking: record not found")

	down := errors.New("conn refused")
	err = writeErr("insert driver", down)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
