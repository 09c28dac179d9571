package report

import (
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
)

// NextRunTime computes when a report should run again after running at
// the given instant.
func NextRunTime(schedule report.Schedule, from time.Time) time.Time {
	switch schedule {
	case report.ScheduleDaily:
		return from.Add(24 * time.Hour)
	case report.ScheduleWeekly:
		return from.AddDate(0, 0, 7)
	case report.ScheduleMonthly:
		return from.AddDate(0, 1, 0)
	case report.ScheduleSprint:
		return from.AddDate(0, 0, 14)
	}
	return from.AddDate(0, 0, 7)
}

// PeriodRange resolves an export period keyword to a concrete date
// range ending now. The week starts on Sunday; an empty period means
// the trailing 30 days.
func PeriodRange(period string, now time.Time) (time.Time, time.Time) {
	end := now
	switch period {
	case "today":
		return startOfDay(now), end
	case "week":
		start := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
		return start, end
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), end
	}
	return startOfDay(now).AddDate(0, 0, -30), end
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
