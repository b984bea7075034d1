package mocks

import (
	"context"
	"sync"

	"github.com/tutorway/tutorway-api/internal/notify"
)

// MockNotifier records dispatched messages instead of delivering them.
type MockNotifier struct {
	// DispatchFn allows for custom dispatch behavior in tests
	DispatchFn func(ctx context.Context, msg notify.Message) error

	// Err is returned by Dispatch when DispatchFn is nil
	Err error

	mu       sync.Mutex
	messages []notify.Message
}

// Dispatch implements service.Notifier
func (m *MockNotifier) Dispatch(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	if m.DispatchFn != nil {
		return m.DispatchFn(ctx, msg)
	}
	return m.Err
}

// Messages returns a copy of every dispatched message.
func (m *MockNotifier) Messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.messages...)
}
