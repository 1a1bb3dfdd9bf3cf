package host

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

type HandlerFunc func(ev Event) error

// Dispatcher routes events to one handler per kind. Events with no
// handler are logged and dropped.
type Dispatcher struct {
	log      logrus.FieldLogger
	handlers map[Kind]HandlerFunc
}

func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		log:      log,
		handlers: make(map[Kind]HandlerFunc),
	}
}

// On registers fn for kind, replacing any previous handler.
func (d *Dispatcher) On(kind Kind, fn HandlerFunc) {
	d.handlers[kind] = fn
}

func (d *Dispatcher) Handles(kind Kind) bool {
	_, ok := d.handlers[kind]
	return ok
}

func (d *Dispatcher) Dispatch(ev Event) error {
	fn, ok := d.handlers[ev.Kind]
	if !ok {
		if ev.Kind != Tick {
			d.log.Debugf("Unhandled application event: %s", ev.Kind)
		}
		return nil
	}

	if err := fn(ev); err != nil {
		return errors.Wrapf(err, "handling %s", ev.Kind)
	}
	return nil
}
