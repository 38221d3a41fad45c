package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/feral-file/ff-card-indexer/internal/domain"
)

// ErrNoHandler is returned when an event has no registered handler
var ErrNoHandler = errors.New("no handler registered")

// HandlerFunc reconciles one stored chain event into the projection.
// Handlers must be safe to run more than once for the same event.
type HandlerFunc func(ctx context.Context, event *domain.ChainEvent) error

// Dispatcher routes chain events to their handlers
//
//go:generate mockgen -source=registry.go -destination=../mocks/dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	// Dispatch runs the handler registered for the event name
	Dispatch(ctx context.Context, event *domain.ChainEvent) error
	// Handles reports whether a handler is registered for name
	Handles(name domain.EventName) bool
	// Names returns the registered event names, sorted
	Names() []domain.EventName
}

// Registry is a Dispatcher keyed by event name
type Registry struct {
	handlers map[domain.EventName]HandlerFunc
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[domain.EventName]HandlerFunc)}
}

// Register binds fn to name, replacing any previous handler
func (r *Registry) Register(name domain.EventName, fn HandlerFunc) {
	r.handlers[name] = fn
}

func (r *Registry) Dispatch(ctx context.Context, event *domain.ChainEvent) error {
	fn, ok := r.handlers[event.Name()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, event.Name())
	}
	return fn(ctx, event)
}

func (r *Registry) Handles(name domain.EventName) bool {
	_, ok := r.handlers[name]
	return ok
}

func (r *Registry) Names() []domain.EventName {
	names := make([]domain.EventName, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
