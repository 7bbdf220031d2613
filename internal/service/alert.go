package service

import (
	"time"

	"github.com/labsalud/api/internal/enum"
)

// Age thresholds for pending-order alerts.
const (
	pendingOverdueAge    = 6 * time.Hour
	inProgressDelayedAge = 12 * time.Hour
)

// ClassifyAlert derives the alert label for an order from its status and age.
// PENDING orders older than 6 hours are OVERDUE; IN_PROGRESS orders older
// than 12 hours are DELAYED; everything else is NONE. The classification is
// recomputed on every read and never stored.
func ClassifyAlert(status string, createdAt, now time.Time) string {
	age := now.Sub(createdAt)
	switch status {
	case enum.OrderStatusPending:
		if age > pendingOverdueAge {
			return enum.AlertOverdue
		}
	case enum.OrderStatusInProgress:
		if age > inProgressDelayedAge {
			return enum.AlertDelayed
		}
	}
	return enum.AlertNone
}
