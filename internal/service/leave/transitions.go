package leave

import (
	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
)

// allowedTransitions maps each status to the statuses an approver may
// move it to. Terminal statuses have no outgoing edges.
var allowedTransitions = map[leave.Status][]leave.Status{
	leave.StatusPendingSquadLead: {
		leave.StatusApprovedSquadLead,
		leave.StatusRejectedSquadLead,
	},
	leave.StatusPendingAdmin: {
		leave.StatusApproved,
		leave.StatusRejectedAdmin,
	},
}

// ApplyTransition validates a requested status change and returns the
// status that should actually be stored. A squad lead approval is
// immediately forwarded to the admin queue, so approved-squad-lead
// never persists.
func ApplyTransition(current, requested leave.Status) (leave.Status, error) {
	for _, next := range allowedTransitions[current] {
		if next == requested {
			if requested == leave.StatusApprovedSquadLead {
				return leave.StatusPendingAdmin, nil
			}
			return requested, nil
		}
	}
	return "", leave.ErrInvalidTransition
}

// StageFor reports which approval stage a transition out of the given
// status belongs to.
type Stage int

const (
	StageNone Stage = iota
	StageSquadLead
	StageAdmin
)

func StageFor(current leave.Status) Stage {
	switch current {
	case leave.StatusPendingSquadLead:
		return StageSquadLead
	case leave.StatusPendingAdmin:
		return StageAdmin
	}
	return StageNone
}
