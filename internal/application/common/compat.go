package common

// Re-exports of the mediator types so handlers depend on one package.

import (
	"github.com/fame0528/DarkFrame-sub009/internal/application/mediator"
)

// Mediator types - re-exported
type (
	Request        = mediator.Request
	Response       = mediator.Response
	RequestHandler = mediator.RequestHandler
	HandlerFunc    = mediator.HandlerFunc
	Middleware     = mediator.Middleware
	Mediator       = mediator.Mediator
)

// Mediator functions - re-exported
var (
	NewMediator  = mediator.NewMediator
	RequestName  = mediator.RequestName
	ErrNoHandler = mediator.ErrNoHandler

	RegisteredRequests = mediator.Registered
)

// RegisterHandler is generic and cannot be aliased; it forwards to mediator.RegisterHandler
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	return mediator.RegisterHandler[T](m, handler)
}
