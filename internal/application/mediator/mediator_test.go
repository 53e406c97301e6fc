package mediator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

type pingHandler struct{}

func (pingHandler) Handle(_ context.Context, request Request) (Response, error) {
	return "pong:" + request.(*pingCommand).Value, nil
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, pingHandler{}))

	var calls []string
	trace := func(name string) Middleware {
		return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
			calls = append(calls, name+">")
			resp, err := next(ctx, request)
			calls = append(calls, "<"+name)
			return resp, err
		}
	}
	m.Use(trace("outer"))
	m.Use(trace("inner"))

	resp, err := m.Send(context.Background(), &pingCommand{Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, "pong:x", resp)
	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, calls)
}

func TestMediator_RegistrationErrors(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, pingHandler{}))
	assert.Error(t, RegisterHandler[*pingCommand](m, pingHandler{}))
	assert.Error(t, m.Register(nil, pingHandler{}))

	_, err := m.Send(context.Background(), &struct{}{})
	assert.Error(t, err)
	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_UnregisteredRequest(t *testing.T) {
	m := NewMediator()

	_, err := m.Send(context.Background(), &pingCommand{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "pingCommand", RequestName(&pingCommand{}))
	assert.Equal(t, "pingCommand", RequestName(pingCommand{}))
	assert.Equal(t, "UnknownCommand", RequestName(nil))
}

func TestRegistered_ListsRequestNames(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, pingHandler{}))

	assert.Equal(t, []string{"pingCommand"}, Registered(m))

	err := RegisterHandler[*pingCommand](m, pingHandler{})
	assert.ErrorIs(t, err, ErrDuplicateHandler)
}
