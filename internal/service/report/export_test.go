package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
)

func TestRenderCSV(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 9, 20, 0, 0, time.UTC)
	checkOut := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	logs := []attendance.AttendanceLog{
		{
			Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			UserName:         strPtr("Ada Lovelace"),
			SquadName:        strPtr("Core, Backend"),
			CheckInTime:      &checkIn,
			CheckOutTime:     &checkOut,
			TotalHours:       hoursPtr(7.75),
			LateMinutes:      20,
			ComplianceStatus: attendance.StatusLateCheckin,
			ComplianceNotes:  strPtr("Late by 20 minutes"),
		},
	}

	payload, err := renderCSV(logs)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{
		"2025-03-10", "Ada Lovelace", "Core, Backend", "09:20", "17:00",
		"7.75", "20", "late-checkin", "Late by 20 minutes",
	}, records[1])
}

func TestRenderCSVEmpty(t *testing.T) {
	payload, err := renderCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, exportHeader, records[0])
}

func TestRenderCSVMissingCheckout(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	logs := []attendance.AttendanceLog{
		{
			Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			CheckInTime:      &checkIn,
			ComplianceStatus: attendance.StatusMissingCheckout,
		},
	}

	payload, err := renderCSV(logs)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "09:00", row[3])
	assert.Empty(t, row[4])
	assert.Empty(t, row[5])
	assert.Equal(t, "missing-checkout", row[7])
}
