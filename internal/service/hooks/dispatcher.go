package hooks

import (
	"context"
	"fmt"
	"log/slog"
)

// Action is the lifecycle verb that triggered an event.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
)

// Event describes one committed entity mutation. Before is nil on
// create, After is nil on delete.
type Event struct {
	Action     Action
	EntityType string
	EntityID   string
	ActorID    *string
	Before     any
	After      any
}

// Observer reacts to a committed mutation. Observers must treat the
// event as read-only.
type Observer interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

// Dispatcher fans committed mutations out to registered observers in
// registration order. A failing or panicking observer is logged and
// never blocks the rest of the chain or the request.
type Dispatcher struct {
	logger    *slog.Logger
	observers []Observer
}

func NewDispatcher(logger *slog.Logger, observers ...Observer) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		observers: observers,
	}
}

func (d *Dispatcher) Register(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	for _, o := range d.observers {
		if err := d.run(ctx, o, ev); err != nil {
			d.logger.Error("observer failed",
				slog.String("observer", o.Name()),
				slog.String("action", string(ev.Action)),
				slog.String("entity_type", ev.EntityType),
				slog.String("entity_id", ev.EntityID),
				slog.Any("error", err),
			)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, o Observer, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return o.Handle(ctx, ev)
}
