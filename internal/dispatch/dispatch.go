// Package dispatch delivers typed actions to registered stores.
//
// Actions flow one way: rest clients and callers Dispatch, stores receive
// them through Handler.OnAction and mutate their own state. Delivery is
// synchronous on the dispatching goroutine and fire-and-forget; there is no
// acknowledgment or redelivery.
package dispatch

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/wpstores/internal/metrics"
)

// Type names an action.
type Type string

const (
	FetchSites      Type = "FETCH_SITES"
	UpdateSites     Type = "UPDATE_SITES"
	FetchSite       Type = "FETCH_SITE"
	UpdateSite      Type = "UPDATE_SITE"
	CreateNewSite   Type = "CREATE_NEW_SITE"
	CreatedNewSite  Type = "CREATED_NEW_SITE"
	Authenticate    Type = "AUTHENTICATE"
	Authenticated   Type = "AUTHENTICATED"
	FetchAccount    Type = "FETCH_ACCOUNT"
	FetchedAccount  Type = "FETCHED_ACCOUNT"
	FetchSettings   Type = "FETCH_SETTINGS"
	FetchedSettings Type = "FETCHED_SETTINGS"
	PushSettings    Type = "PUSH_SETTINGS"
	PushedSettings  Type = "PUSHED_SETTINGS"
)

// String returns the string representation of the Type.
func (t Type) String() string {
	return string(t)
}

// Action is a typed message. Concrete actions live with the domain that
// owns them.
type Action interface {
	ActionType() Type
}

// Handler receives every dispatched action.
type Handler interface {
	OnAction(Action)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Action)

// OnAction implements Handler.
func (f HandlerFunc) OnAction(a Action) { f(a) }

type registration struct {
	id      uint64
	handler Handler
}

// Dispatcher fans actions out to handlers in registration order.
type Dispatcher struct {
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	nextID   uint64
	handlers []registration
}

// New builds a Dispatcher. A nil logger uses the logrus standard logger and
// a nil metrics records nothing.
func New(log logrus.FieldLogger, m *metrics.Metrics) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		log:     log.WithField("component", "dispatcher"),
		metrics: m,
	}
}

// Register adds h and returns a function that removes it again.
func (d *Dispatcher) Register(h Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.handlers = append(d.handlers, registration{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { d.unregister(id) })
	}
}

func (d *Dispatcher) unregister(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.handlers {
		if r.id == id {
			d.handlers = append(d.handlers[:i:i], d.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch delivers a to every handler registered at the time of the call.
// Handlers may dispatch further actions.
func (d *Dispatcher) Dispatch(a Action) {
	if a == nil {
		return
	}
	d.mu.RLock()
	targets := make([]Handler, len(d.handlers))
	for i, r := range d.handlers {
		targets[i] = r.handler
	}
	d.mu.RUnlock()

	d.log.WithField("action", a.ActionType().String()).Debug("dispatching")
	d.metrics.ObserveDispatch(a.ActionType().String())
	for _, h := range targets {
		h.OnAction(a)
	}
}
