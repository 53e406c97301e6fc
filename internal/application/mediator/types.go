package mediator

import (
	"context"
	"errors"
	"reflect"
	"strings"
)

// ErrNoHandler is wrapped by Send when a request type was never registered
var ErrNoHandler = errors.New("no handler registered")

// Request is any command or query struct, sent by pointer
type Request interface{}

// Response is the handler's result, usually a pointer to a *Response struct
type Response interface{}

// RequestHandler handles exactly one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to the last link of the middleware chain
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps every Send. Used for actor resolution and command metrics.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// RequestName is the bare type name of a request, "*commands.LaunchWeaponCommand"
// becoming "LaunchWeaponCommand". Metrics labels and test doubles key on it.
func RequestName(request Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
