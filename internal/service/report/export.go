package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
)

var exportHeader = []string{
	"Date", "User Name", "Squad", "Check In", "Check Out",
	"Total Hours", "Late Minutes", "Compliance Status", "Notes",
}

// renderCSV writes attendance rows as CSV. An empty slice still yields
// the header so a download is never zero bytes.
func renderCSV(logs []attendance.AttendanceLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, log := range logs {
		if err := w.Write(exportRow(log)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(log attendance.AttendanceLog) []string {
	userName := ""
	if log.UserName != nil {
		userName = *log.UserName
	}
	squadName := ""
	if log.SquadName != nil {
		squadName = *log.SquadName
	}
	checkIn := ""
	if log.CheckInTime != nil {
		checkIn = log.CheckInTime.Format("15:04")
	}
	checkOut := ""
	if log.CheckOutTime != nil {
		checkOut = log.CheckOutTime.Format("15:04")
	}
	totalHours := ""
	if log.TotalHours != nil {
		totalHours = fmt.Sprintf("%.2f", *log.TotalHours)
	}
	notes := ""
	if log.ComplianceNotes != nil {
		notes = *log.ComplianceNotes
	}

	return []string{
		log.Date.Format("2006-01-02"),
		userName,
		squadName,
		checkIn,
		checkOut,
		totalHours,
		fmt.Sprintf("%d", log.LateMinutes),
		string(log.ComplianceStatus),
		notes,
	}
}

func renderJSON(logs []attendance.AttendanceLog) ([]byte, error) {
	responses := make([]attendance.AttendanceResponse, len(logs))
	for i, log := range logs {
		responses[i] = attendance.ToResponse(log)
	}
	return json.Marshal(responses)
}
