package helpers

import (
	"context"
	"reflect"
	"sync"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
)

// MockMediator is a test double for the Mediator interface. Background jobs
// only need Send, so tests script its outcome per request type.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	failures map[string]error
	callLog  []string // Track which requests were sent
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{
		failures: make(map[string]error),
		callLog:  []string{},
	}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	name := common.RequestName(request)

	m.mu.Lock()
	m.callLog = append(m.callLog, name)
	fn := m.sendFunc
	failure := m.failures[name]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, request)
	}
	if failure != nil {
		return nil, failure
	}
	return struct{}{}, nil
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// FailOn makes every request of the named type (e.g. "ProcessImpactsCommand") fail with err
func (m *MockMediator) FailOn(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[name] = err
}

// GetCallLog returns the request type names in send order
func (m *MockMediator) GetCallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}

// CallCount counts how often a request type was sent
func (m *MockMediator) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.callLog {
		if call == name {
			count++
		}
	}
	return count
}

// ClearCallLog clears the call log
func (m *MockMediator) ClearCallLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callLog = []string{}
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

// Use implements the Mediator interface (no-op for tests)
func (m *MockMediator) Use(middleware common.Middleware) {}

// Ensure MockMediator implements the common.Mediator interface
var _ common.Mediator = (*MockMediator)(nil)
