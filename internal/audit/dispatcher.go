package audit

import "go.uber.org/zap"

type Event struct {
	SalonID  uint
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher decouples audit writes from request handling. Events go through
// a buffered channel into a single writer goroutine; a full queue drops the
// event rather than slowing the API down.
type Dispatcher struct {
	logger *Logger
	log    *zap.SugaredLogger
	queue  chan Event
}

func NewDispatcher(logger *Logger, log *zap.SugaredLogger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.SalonID,
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Errorw("audit write failed", "action", ev.Action, "error", err)
		}
	}
}

// Discard returns a dispatcher that drops every event. Useful where no audit
// store is wired, such as tests.
func Discard() *Dispatcher {
	return &Dispatcher{log: zap.NewNop().Sugar()}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warnw("audit queue full, dropping event", "action", ev.Action)
	}
}
