package audit

import "time"

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Category string

const (
	CategoryUserManagement Category = "user-management"
	CategoryAttendance     Category = "attendance"
	CategoryLeave          Category = "leave"
	CategorySquad          Category = "squad"
	CategoryReporting      Category = "reporting"
	CategorySecurity       Category = "security"
	CategorySystem         Category = "system"
)

// FieldChange records one field's before and after values, serialized
// as JSON fragments.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Entry is one immutable audit log row. Checksum is a SHA-256 digest
// over the entry's identifying fields, computed at write time so
// tampering is detectable later.
type Entry struct {
	ID                 string        `json:"id"`
	ActorID            *string       `json:"actor_id,omitempty"`
	Action             Action        `json:"action"`
	EntityType         string        `json:"entity_type"`
	EntityID           string        `json:"entity_id"`
	ChangedFields      []FieldChange `json:"changed_fields,omitempty"`
	Severity           Severity      `json:"severity"`
	Category           Category      `json:"category"`
	ComplianceRelevant bool          `json:"compliance_relevant"`
	Checksum           string        `json:"checksum"`
	CreatedAt          time.Time     `json:"created_at"`
}
