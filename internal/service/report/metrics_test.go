package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
)

func hoursPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func logFor(squadID string, status attendance.ComplianceStatus, hours *float64) attendance.AttendanceLog {
	return attendance.AttendanceLog{
		SquadID:          strPtr(squadID),
		ComplianceStatus: status,
		TotalHours:       hours,
	}
}

func TestComputeMetrics(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
	}
	logs := []attendance.AttendanceLog{
		{UserID: "u1", Date: day(10), SquadID: strPtr("squad-1"), ComplianceStatus: attendance.StatusCompliant, TotalHours: hoursPtr(8.5)},
		{UserID: "u2", Date: day(10), SquadID: strPtr("squad-1"), ComplianceStatus: attendance.StatusCompliant, TotalHours: hoursPtr(8)},
		{UserID: "u1", Date: day(11), SquadID: strPtr("squad-1"), ComplianceStatus: attendance.StatusLateCheckin, TotalHours: hoursPtr(7.75)},
		{UserID: "u3", Date: day(12), SquadID: strPtr("squad-2"), ComplianceStatus: attendance.StatusInsufficientHours, TotalHours: hoursPtr(6)},
	}
	squads := []squad.Squad{
		{ID: "squad-1", Name: "Core"},
		{ID: "squad-2", Name: "Platform"},
	}

	m := ComputeMetrics(from, to, logs, squads)

	// Three distinct users show up in the rows.
	assert.Equal(t, 3, m.TotalMembers)
	assert.Equal(t, 4, m.TotalAttendanceLogs)
	assert.Equal(t, 50.0, m.ComplianceRate)
	assert.Equal(t, 7.56, m.AverageWorkingHours)
	// 4 period days, attendance on 3 distinct dates.
	assert.Equal(t, 1, m.AbsenceDays)
	assert.Equal(t, 2, m.StatusBreakdown[string(attendance.StatusCompliant)])
	assert.Equal(t, 1, m.StatusBreakdown[string(attendance.StatusLateCheckin)])

	require.Len(t, m.TopSquads, 2)
	assert.Equal(t, "Core", m.TopSquads[0].SquadName)
	assert.Equal(t, 66.67, m.TopSquads[0].ComplianceRate)
	assert.Equal(t, "Platform", m.TopSquads[1].SquadName)
	assert.Equal(t, 0.0, m.TopSquads[1].ComplianceRate)
}

func TestComputeMetricsAverageCountsOpenLogs(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	logs := []attendance.AttendanceLog{
		{UserID: "u1", Date: from, ComplianceStatus: attendance.StatusCompliant, TotalHours: hoursPtr(8)},
		{UserID: "u2", Date: from, ComplianceStatus: attendance.StatusMissingCheckout, TotalHours: nil},
	}

	m := ComputeMetrics(from, to, logs, nil)

	// The open log still divides the average.
	assert.Equal(t, 4.0, m.AverageWorkingHours)
}

func TestComputeMetricsEmpty(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	m := ComputeMetrics(from, to, nil, nil)

	assert.Zero(t, m.TotalMembers)
	assert.Zero(t, m.ComplianceRate)
	assert.Zero(t, m.AverageWorkingHours)
	assert.Zero(t, m.AbsenceDays)
	assert.Empty(t, m.TopSquads)
}

func TestTopSquadsKeepsBestFive(t *testing.T) {
	var logs []attendance.AttendanceLog
	var squads []squad.Squad
	for i := 0; i < 7; i++ {
		id := string(rune('a' + i))
		squads = append(squads, squad.Squad{ID: id, Name: id})
		status := attendance.StatusCompliant
		if i%2 == 0 {
			status = attendance.StatusLateCheckin
		}
		logs = append(logs, logFor(id, status, hoursPtr(8)))
	}

	top := topSquads(logs, squads, 5)

	require.Len(t, top, 5)
	// Fully compliant squads sort ahead of the rest.
	assert.Equal(t, 100.0, top[0].ComplianceRate)
}

func TestSpanDays(t *testing.T) {
	mon := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, spanDays(mon, mon))
	assert.Equal(t, 7, spanDays(mon, mon.AddDate(0, 0, 7)))
	// Partial days round up.
	assert.Equal(t, 1, spanDays(mon, mon.Add(6*time.Hour)))
	assert.Equal(t, 0, spanDays(mon, mon.AddDate(0, 0, -1)))
}

func TestNextRunTime(t *testing.T) {
	at := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, at.Add(24*time.Hour), NextRunTime(report.ScheduleDaily, at))
	assert.Equal(t, at.AddDate(0, 0, 7), NextRunTime(report.ScheduleWeekly, at))
	assert.Equal(t, at.AddDate(0, 1, 0), NextRunTime(report.ScheduleMonthly, at))
	assert.Equal(t, at.AddDate(0, 0, 14), NextRunTime(report.ScheduleSprint, at))
	assert.Equal(t, at.AddDate(0, 0, 7), NextRunTime(report.Schedule("unknown"), at))
}

func TestPeriodRange(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

	from, to := PeriodRange("today", now)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, now, to)

	from, _ = PeriodRange("week", now)
	// Weeks start on Sunday.
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), from)

	from, _ = PeriodRange("month", now)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), from)

	from, _ = PeriodRange("", now)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), from)
}
