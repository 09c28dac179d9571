package report

import (
	"math"
	"sort"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
)

// ComputeMetrics derives report metrics from raw attendance rows. It
// is a pure function so scheduled and on-demand generation share one
// code path.
//
// TotalMembers counts the distinct users that appear in the rows, an
// open log contributes zero hours to the average, and AbsenceDays is
// the number of days in the period with no attendance at all.
func ComputeMetrics(from, to time.Time, logs []attendance.AttendanceLog, squads []squad.Squad) report.Metrics {
	m := report.Metrics{
		PeriodStart:         from,
		PeriodEnd:           to,
		TotalAttendanceLogs: len(logs),
		StatusBreakdown:     make(map[string]int),
	}

	compliant := 0
	hoursSum := 0.0
	users := make(map[string]struct{})
	dates := make(map[string]struct{})
	for _, log := range logs {
		m.StatusBreakdown[string(log.ComplianceStatus)]++
		if log.ComplianceStatus == attendance.StatusCompliant {
			compliant++
		}
		if log.TotalHours != nil {
			hoursSum += *log.TotalHours
		}
		users[log.UserID] = struct{}{}
		dates[log.Date.Format("2006-01-02")] = struct{}{}
	}
	m.TotalMembers = len(users)

	if len(logs) > 0 {
		m.ComplianceRate = round2(float64(compliant) / float64(len(logs)) * 100)
		m.AverageWorkingHours = round2(hoursSum / float64(len(logs)))
	}

	if span := spanDays(from, to); span > len(dates) {
		m.AbsenceDays = span - len(dates)
	}

	m.TopSquads = topSquads(logs, squads, 5)
	return m
}

// topSquads ranks squads by their compliance rate over the period and
// keeps the best n.
func topSquads(logs []attendance.AttendanceLog, squads []squad.Squad, n int) []report.SquadScore {
	names := make(map[string]string, len(squads))
	for _, sq := range squads {
		names[sq.ID] = sq.Name
	}

	type tally struct {
		total     int
		compliant int
	}
	counts := make(map[string]*tally)
	for _, log := range logs {
		if log.SquadID == nil {
			continue
		}
		t := counts[*log.SquadID]
		if t == nil {
			t = &tally{}
			counts[*log.SquadID] = t
		}
		t.total++
		if log.ComplianceStatus == attendance.StatusCompliant {
			t.compliant++
		}
	}

	scores := make([]report.SquadScore, 0, len(counts))
	for id, t := range counts {
		scores = append(scores, report.SquadScore{
			SquadID:        id,
			SquadName:      names[id],
			ComplianceRate: round2(float64(t.compliant) / float64(t.total) * 100),
			LogCount:       t.total,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].ComplianceRate != scores[j].ComplianceRate {
			return scores[i].ComplianceRate > scores[j].ComplianceRate
		}
		return scores[i].SquadName < scores[j].SquadName
	})

	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// spanDays is the period length in whole days, rounded up.
func spanDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
