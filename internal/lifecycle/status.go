package lifecycle

import (
	"fmt"
	"time"

	"bunker/gym-admin/internal/domain"
)

// TemporalStatus is the date-derived state of a membership.
type TemporalStatus string

const (
	StatusActive       TemporalStatus = "ACTIVE"
	StatusExpiringSoon TemporalStatus = "EXPIRING_SOON"
	StatusExpired      TemporalStatus = "EXPIRED"
)

// StatusView is what the dashboard shows next to a membership.
type StatusView struct {
	Status   TemporalStatus `json:"status"`
	DaysLeft int            `json:"daysLeft"`
	Label    string         `json:"label"`
}

// Classify derives the temporal status of a membership ending on endDate.
// A negative threshold selects the engine default.
func (e *Engine) Classify(endDate time.Time, threshold int) TemporalStatus {
	threshold = e.resolveThreshold(threshold)
	if e.IsExpired(endDate) {
		return StatusExpired
	}
	if e.DaysUntilExpiration(endDate) <= threshold {
		return StatusExpiringSoon
	}
	return StatusActive
}

// ClassifyMembership classifies m by its end date only; m.Status is ignored.
func (e *Engine) ClassifyMembership(m domain.Membership, threshold int) TemporalStatus {
	return e.Classify(m.EndDate, threshold)
}

// Describe classifies m and renders the label shown to staff.
func (e *Engine) Describe(m domain.Membership, threshold int) StatusView {
	days := e.DaysUntilExpiration(m.EndDate)
	status := e.ClassifyMembership(m, threshold)
	return StatusView{
		Status:   status,
		DaysLeft: days,
		Label:    label(status, days),
	}
}

func label(status TemporalStatus, days int) string {
	switch {
	case status == StatusExpired:
		return "expired " + plural(-days) + " ago"
	case days == 0:
		return "due today"
	default:
		return plural(days) + " left"
	}
}

func plural(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
