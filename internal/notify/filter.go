package notify

import (
	"slices"
	"strconv"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/dates"
	"github.com/MKhiriev/go-study-keeper/models"
)

// BadgeLimit is the largest count the badge renders verbatim.
const BadgeLimit = 99

// ActiveReminders returns the reminders that are not completed and whose due
// instant is at or before now, in input order. Reminders without a due
// instant are never active.
func ActiveReminders(reminders []models.Reminder, now time.Time) []models.Reminder {
	active := make([]models.Reminder, 0)
	for _, r := range reminders {
		if r.Completed || r.Due == nil || r.Due.After(now) {
			continue
		}
		active = append(active, r)
	}
	return active
}

// Badge renders count for the notification badge. Counts above BadgeLimit
// render as "99+"; zero renders as the empty string.
func Badge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > BadgeLimit:
		return strconv.Itoa(BadgeLimit) + "+"
	default:
		return strconv.Itoa(count)
	}
}

// MarkedDays returns the sorted, distinct calendar days that have at least
// one dated reminder, completed or not.
func MarkedDays(reminders []models.Reminder) []string {
	seen := make(map[string]struct{}, len(reminders))
	days := make([]string, 0, len(reminders))
	for _, r := range reminders {
		if r.Due == nil {
			continue
		}
		day := dates.DayKey(*r.Due)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	slices.Sort(days)
	return days
}
