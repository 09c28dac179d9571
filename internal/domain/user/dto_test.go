package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/pkg/validator"
)

func strPtr(s string) *string { return &s }

func TestUpdateUserRequestValidate(t *testing.T) {
	req := UpdateUserRequest{
		Name:    strPtr("Ada"),
		Role:    strPtr("squadLead"),
		SquadID: strPtr("5aa2e1a2-8c9d-4f30-9a5a-1f2e3d4c5b6a"),
	}
	assert.NoError(t, req.Validate())

	req = UpdateUserRequest{Role: strPtr("owner")}
	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "role")

	req = UpdateUserRequest{SquadID: strPtr("not-a-uuid")}
	err = req.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "squad_id")
}

func TestValidRolesCoversEveryRole(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"admin", "squadLead", "member", "viewer"},
		ValidRoles(),
	)
}
