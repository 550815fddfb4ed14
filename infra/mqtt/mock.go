package mqtt

import (
	"fmt"
	"sync"
	"time"

	"github.com/haocluo92/well-scheduler/core/notify"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	"github.com/haocluo92/well-scheduler/core/simops"
)

// Notifier mirrors the core notify.Notifier interface.
type Notifier = notify.Notifier

// MockNotifier is a simple notifier used in tests.
type MockNotifier struct {
	Runs           []runlog.Record
	Alerts         map[string][]simops.ConflictPair
	FailRunIDs     map[string]bool
	ConfirmResults map[string]bool
	mu             sync.Mutex
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		Alerts:         make(map[string][]simops.ConflictPair),
		FailRunIDs:     make(map[string]bool),
		ConfirmResults: make(map[string]bool),
	}
}

// PublishRun records the run or returns an error if configured to fail.
func (m *MockNotifier) PublishRun(rec runlog.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRunIDs[rec.RunID] {
		return "", fmt.Errorf("publish failed")
	}
	m.Runs = append(m.Runs, rec)
	messageID := fmt.Sprintf("msg-%s", rec.RunID)
	m.ConfirmResults[messageID] = true
	return messageID, nil
}

// PublishConflicts records the alert pairs keyed by run ID.
func (m *MockNotifier) PublishConflicts(runID string, pairs []simops.ConflictPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRunIDs[runID] {
		return fmt.Errorf("publish failed")
	}
	m.Alerts[runID] = append(m.Alerts[runID], pairs...)
	return nil
}

// AwaitConfirmation simulates an immediate confirmation based on the stored result.
func (m *MockNotifier) AwaitConfirmation(messageID string, timeout time.Duration) (bool, error) {
	m.mu.Lock()
	ok, exists := m.ConfirmResults[messageID]
	m.mu.Unlock()
	if !exists {
		return false, fmt.Errorf("unknown message")
	}
	return ok, nil
}

// Close is a no-op for the mock.
func (m *MockNotifier) Close() error { return nil }
