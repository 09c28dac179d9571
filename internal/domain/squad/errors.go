package squad

import "errors"

var (
	ErrSquadNotFound  = errors.New("squad not found")
	ErrNameExists     = errors.New("squad name already exists")
	ErrNotSquadLead   = errors.New("you are not the lead of this squad")
	ErrUserHasNoSquad = errors.New("user is not assigned to any squad")
)
