package hooks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	name   string
	calls  *[]string
	err    error
	panics bool
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) Handle(ctx context.Context, ev Event) error {
	*o.calls = append(*o.calls, o.name)
	if o.panics {
		panic("boom")
	}
	return o.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchRunsObserversInOrder(t *testing.T) {
	var calls []string
	d := NewDispatcher(discardLogger(),
		&recordingObserver{name: "first", calls: &calls},
		&recordingObserver{name: "second", calls: &calls},
		&recordingObserver{name: "third", calls: &calls},
	)

	d.Dispatch(context.Background(), Event{Action: ActionCreate, EntityType: "attendance_logs"})

	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	var calls []string
	d := NewDispatcher(discardLogger(),
		&recordingObserver{name: "failing", calls: &calls, err: errors.New("down")},
		&recordingObserver{name: "panicking", calls: &calls, panics: true},
		&recordingObserver{name: "healthy", calls: &calls},
	)

	d.Dispatch(context.Background(), Event{Action: ActionUpdate, EntityType: "leave_requests"})

	assert.Equal(t, []string{"failing", "panicking", "healthy"}, calls)
}

func TestRegisterAppends(t *testing.T) {
	var calls []string
	d := NewDispatcher(discardLogger())
	d.Register(&recordingObserver{name: "late", calls: &calls})

	d.Dispatch(context.Background(), Event{Action: ActionDelete, EntityType: "squads"})

	assert.Equal(t, []string{"late"}, calls)
}
