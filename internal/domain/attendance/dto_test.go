package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

func strPtr(s string) *string { return &s }

func fieldMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.ToMap()
}

func TestCheckInRequestValidate(t *testing.T) {
	req := CheckInRequest{Time: strPtr("2025-03-10T09:00:00Z"), WorkMode: "office"}
	assert.NoError(t, req.Validate())

	// A nil time means "now" and is fine.
	req = CheckInRequest{WorkMode: "remote"}
	assert.NoError(t, req.Validate())

	req = CheckInRequest{Time: strPtr("10-03-2025 09:00")}
	fields := fieldMap(t, req.Validate())
	assert.Contains(t, fields, "time")

	req = CheckInRequest{WorkMode: "submarine"}
	fields = fieldMap(t, req.Validate())
	assert.Contains(t, fields, "work_mode")
}

func TestCheckOutRequestValidate(t *testing.T) {
	req := CheckOutRequest{Time: strPtr("2025-03-10T17:00:00Z")}
	assert.NoError(t, req.Validate())

	req = CheckOutRequest{Time: strPtr("not-a-timestamp")}
	fields := fieldMap(t, req.Validate())
	assert.Contains(t, fields, "time")
}

func TestUpdateAttendanceRequestValidate(t *testing.T) {
	req := UpdateAttendanceRequest{
		CheckInTime:  strPtr("2025-03-10T09:00:00Z"),
		CheckOutTime: strPtr("2025-03-10T17:00:00Z"),
		WorkMode:     strPtr("remote"),
	}
	assert.NoError(t, req.Validate())

	req = UpdateAttendanceRequest{
		CheckInTime:  strPtr("2025-03-10"),
		CheckOutTime: strPtr("17:00"),
	}
	fields := fieldMap(t, req.Validate())
	assert.Contains(t, fields, "check_in_time")
	assert.Contains(t, fields, "check_out_time")
}
