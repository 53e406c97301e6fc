package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrDuplicateHandler is returned by Register when the request type is taken
var ErrDuplicateHandler = errors.New("handler already registered")

// Mediator routes each request type to exactly one handler. Every Send runs
// through the middleware chain, first Use outermost.
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	Use(middleware Middleware)
}

type mediator struct {
	mu          sync.RWMutex
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

func NewMediator() Mediator {
	return &mediator{handlers: make(map[reflect.Type]RequestHandler)}
}

func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	switch {
	case requestType == nil:
		return fmt.Errorf("request type cannot be nil")
	case handler == nil:
		return fmt.Errorf("handler for %s cannot be nil", requestType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.handlers[requestType]; taken {
		return fmt.Errorf("%w for type %s", ErrDuplicateHandler, requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

func (m *mediator) Use(middleware Middleware) {
	m.mu.Lock()
	m.middlewares = append(m.middlewares, middleware)
	m.mu.Unlock()
}

func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	requestType := reflect.TypeOf(request)

	m.mu.RLock()
	handler, found := m.handlers[requestType]
	middlewares := m.middlewares
	m.mu.RUnlock()

	if !found {
		return nil, fmt.Errorf("%w for type %s", ErrNoHandler, requestType)
	}
	return wrap(handler.Handle, middlewares)(ctx, request)
}

// wrap folds middlewares around the final handler from the inside out
func wrap(final HandlerFunc, middlewares []Middleware) HandlerFunc {
	next := final
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, inner := middlewares[i], next
		next = func(ctx context.Context, request Request) (Response, error) {
			return mw(ctx, request, inner)
		}
	}
	return next
}

// RegisterHandler keys the handler on T, e.g. RegisterHandler[*LaunchWeaponCommand]
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	return m.Register(reflect.TypeOf((*T)(nil)).Elem(), handler)
}

// Registered lists the request names a mediator can route, sorted
func Registered(m Mediator) []string {
	impl, ok := m.(*mediator)
	if !ok {
		return nil
	}
	impl.mu.RLock()
	defer impl.mu.RUnlock()
	names := make([]string, 0, len(impl.handlers))
	for t := range impl.handlers {
		names = append(names, RequestName(reflect.Zero(t).Interface()))
	}
	sort.Strings(names)
	return names
}
