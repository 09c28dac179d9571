package leave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/service/hooks"
)

type fakeNotifySink struct {
	enqueued []notification.CreateNotificationRequest
}

func (f *fakeNotifySink) Enqueue(req notification.CreateNotificationRequest) {
	f.enqueued = append(f.enqueued, req)
}

func (f *fakeNotifySink) EnqueueMany(userIDs []string, typ notification.NotificationType, title, message string, link *string) {
	for _, id := range userIDs {
		f.enqueued = append(f.enqueued, notification.CreateNotificationRequest{
			UserID: id, Type: typ, Title: title, Message: message, Link: link,
		})
	}
}

func (f *fakeNotifySink) List(ctx context.Context, filter notification.ListFilter) (notification.ListResponse, error) {
	return notification.ListResponse{}, nil
}

func (f *fakeNotifySink) CountUnread(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeNotifySink) MarkRead(ctx context.Context, userID, id string) error { return nil }

func (f *fakeNotifySink) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeNotifySink) Delete(ctx context.Context, userID, id string) error { return nil }

func (f *fakeNotifySink) Stop() {}

func newTestNotifier(t *testing.T) (*Notifier, *fakeNotifySink) {
	t.Helper()

	squadID := "squad-1"
	leadID := "lead-1"

	sink := &fakeNotifySink{}
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"member-1": {ID: "member-1", Role: user.RoleMember, SquadID: &squadID, IsActive: true},
		"lead-1":   {ID: "lead-1", Role: user.RoleSquadLead, SquadID: &squadID, IsActive: true},
		"admin-1":  {ID: "admin-1", Role: user.RoleAdmin, IsActive: true},
		"admin-2":  {ID: "admin-2", Role: user.RoleAdmin, IsActive: true},
	}}
	squadRepo := &fakeSquadRepo{squads: map[string]squad.Squad{
		"squad-1": {ID: "squad-1", Name: "Core", LeadID: &leadID, TimeZone: "UTC"},
	}}

	return NewNotifier(sink, userRepo, squadRepo), sink
}

func leaveEvent(action hooks.Action, after leave.LeaveResponse) hooks.Event {
	return hooks.Event{
		Action:     action,
		EntityType: "leave_requests",
		EntityID:   after.ID,
		After:      after,
	}
}

func TestNotifierTellsSquadLeadOnCreate(t *testing.T) {
	notifier, sink := newTestNotifier(t)
	squadID := "squad-1"

	err := notifier.Handle(context.Background(), leaveEvent(hooks.ActionCreate, leave.LeaveResponse{
		ID:        "lr-1",
		UserID:    "member-1",
		SquadID:   &squadID,
		Type:      "vacation",
		StartDate: "2025-04-01",
		EndDate:   "2025-04-05",
		Status:    string(leave.StatusPendingSquadLead),
	}))
	require.NoError(t, err)

	require.Len(t, sink.enqueued, 1)
	assert.Equal(t, "lead-1", sink.enqueued[0].UserID)
	assert.Equal(t, notification.TypeLeave, sink.enqueued[0].Type)
	assert.Equal(t, "New leave request", sink.enqueued[0].Title)
}

func TestNotifierFansOutToAdminsAfterLeadApproval(t *testing.T) {
	notifier, sink := newTestNotifier(t)

	err := notifier.Handle(context.Background(), leaveEvent(hooks.ActionUpdate, leave.LeaveResponse{
		ID:     "lr-1",
		UserID: "member-1",
		Status: string(leave.StatusPendingAdmin),
	}))
	require.NoError(t, err)

	require.Len(t, sink.enqueued, 2)
	recipients := []string{sink.enqueued[0].UserID, sink.enqueued[1].UserID}
	assert.ElementsMatch(t, []string{"admin-1", "admin-2"}, recipients)
}

func TestNotifierTellsRequesterOnFinalDecision(t *testing.T) {
	notifier, sink := newTestNotifier(t)

	err := notifier.Handle(context.Background(), leaveEvent(hooks.ActionUpdate, leave.LeaveResponse{
		ID:     "lr-1",
		UserID: "member-1",
		Status: string(leave.StatusApproved),
	}))
	require.NoError(t, err)

	require.Len(t, sink.enqueued, 1)
	assert.Equal(t, "member-1", sink.enqueued[0].UserID)
	assert.Equal(t, "Leave request approved", sink.enqueued[0].Title)

	sink.enqueued = nil
	err = notifier.Handle(context.Background(), leaveEvent(hooks.ActionUpdate, leave.LeaveResponse{
		ID:     "lr-2",
		UserID: "member-1",
		Status: string(leave.StatusRejectedAdmin),
	}))
	require.NoError(t, err)

	require.Len(t, sink.enqueued, 1)
	assert.Equal(t, "Leave request rejected", sink.enqueued[0].Title)
}

func TestNotifierIgnoresOtherEntities(t *testing.T) {
	notifier, sink := newTestNotifier(t)

	err := notifier.Handle(context.Background(), hooks.Event{
		Action:     hooks.ActionCreate,
		EntityType: "attendance_logs",
		EntityID:   "log-1",
	})
	require.NoError(t, err)
	assert.Empty(t, sink.enqueued)
}

func TestNotifierStaysQuietMidChain(t *testing.T) {
	notifier, sink := newTestNotifier(t)

	// Lead rejection is terminal, lead approval moves to the admins;
	// an intermediate non-terminal state with no admin stage pending
	// produces nothing.
	err := notifier.Handle(context.Background(), leaveEvent(hooks.ActionUpdate, leave.LeaveResponse{
		ID:     "lr-1",
		UserID: "member-1",
		Status: string(leave.StatusPendingSquadLead),
	}))
	require.NoError(t, err)
	assert.Empty(t, sink.enqueued)
}
