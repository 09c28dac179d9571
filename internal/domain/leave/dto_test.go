package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

func fieldMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.ToMap()
}

func TestCreateLeaveRequestValidate(t *testing.T) {
	req := CreateLeaveRequest{
		Type:      "vacation",
		StartDate: "2025-04-01",
		EndDate:   "2025-04-05",
		Reason:    "family trip",
	}
	assert.NoError(t, req.Validate())

	req.StartDate = "01/04/2025"
	req.EndDate = "2025-04-32"
	fields := fieldMap(t, req.Validate())
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "end_date")

	req = CreateLeaveRequest{Type: "sabbatical", StartDate: "2025-04-01", EndDate: "2025-04-05", Reason: "x"}
	fields = fieldMap(t, req.Validate())
	assert.Contains(t, fields, "type")
}

func TestUpdateStatusRequestValidate(t *testing.T) {
	req := UpdateStatusRequest{Status: "approved"}
	assert.NoError(t, req.Validate())

	req = UpdateStatusRequest{Status: "escalated"}
	fields := fieldMap(t, req.Validate())
	assert.Contains(t, fields, "status")
}
