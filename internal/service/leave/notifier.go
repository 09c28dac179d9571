package leave

import (
	"context"
	"fmt"

	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

// Notifier watches leave request mutations and fans notifications out
// to whoever must act next: the squad lead on submission, the admins
// once the lead approves, and the requester on a final decision.
type Notifier struct {
	notifications notification.NotificationService
	users         user.UserRepository
	squads        squad.SquadRepository
}

func NewNotifier(
	notifications notification.NotificationService,
	users user.UserRepository,
	squads squad.SquadRepository,
) *Notifier {
	return &Notifier{
		notifications: notifications,
		users:         users,
		squads:        squads,
	}
}

func (n *Notifier) Name() string { return "leave-notifier" }

func (n *Notifier) Handle(ctx context.Context, ev hooks.Event) error {
	if ev.EntityType != "leave_requests" {
		return nil
	}
	after, ok := ev.After.(leave.LeaveResponse)
	if !ok {
		return nil
	}

	link := "/leave/" + after.ID

	switch {
	case ev.Action == hooks.ActionCreate:
		return n.notifySquadLead(ctx, after, link)
	case after.Status == string(leave.StatusPendingAdmin):
		return n.notifyAdmins(ctx, after, link)
	case leave.Status(after.Status).IsTerminal():
		n.notifyRequester(after, link)
	}
	return nil
}

func (n *Notifier) notifySquadLead(ctx context.Context, lr leave.LeaveResponse, link string) error {
	if lr.SquadID == nil {
		return nil
	}
	sq, err := n.squads.GetByID(ctx, *lr.SquadID)
	if err != nil {
		return fmt.Errorf("failed to load squad for leave notification: %w", err)
	}
	if sq.LeadID == nil {
		return nil
	}
	n.notifications.Enqueue(notification.CreateNotificationRequest{
		UserID:  *sq.LeadID,
		Type:    notification.TypeLeave,
		Title:   "New leave request",
		Message: fmt.Sprintf("A %s leave request for %s to %s is waiting for your review", lr.Type, lr.StartDate, lr.EndDate),
		Link:    &link,
	})
	return nil
}

func (n *Notifier) notifyAdmins(ctx context.Context, lr leave.LeaveResponse, link string) error {
	admins, err := n.users.GetByRole(ctx, user.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load admins for leave notification: %w", err)
	}
	ids := make([]string, len(admins))
	for i, admin := range admins {
		ids[i] = admin.ID
	}
	n.notifications.EnqueueMany(ids, notification.TypeLeave,
		"Leave request needs admin approval",
		fmt.Sprintf("A %s leave request for %s to %s passed squad lead review", lr.Type, lr.StartDate, lr.EndDate),
		&link,
	)
	return nil
}

func (n *Notifier) notifyRequester(lr leave.LeaveResponse, link string) {
	var title string
	switch lr.Status {
	case string(leave.StatusApproved):
		title = "Leave request approved"
	default:
		title = "Leave request rejected"
	}
	n.notifications.Enqueue(notification.CreateNotificationRequest{
		UserID:  lr.UserID,
		Type:    notification.TypeLeave,
		Title:   title,
		Message: fmt.Sprintf("Your %s leave request for %s to %s is now %s", lr.Type, lr.StartDate, lr.EndDate, lr.Status),
		Link:    &link,
	})
}
