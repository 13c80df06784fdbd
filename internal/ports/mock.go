package ports

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockCommandRunner is a thread-safe test double for CommandRunner.
// It returns registered results keyed by command and arguments and
// records every invocation for assertions.
type MockCommandRunner struct {
	mu      sync.RWMutex
	results map[string]CommandResult
	errors  map[string]error
	calls   []CommandCall
}

// NewMockCommandRunner creates a new MockCommandRunner.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		results: make(map[string]CommandResult),
		errors:  make(map[string]error),
		calls:   make([]CommandCall, 0),
	}
}

// AddResult registers an expected command and its result.
func (m *MockCommandRunner) AddResult(command string, args []string, result CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[mockKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *MockCommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[mockKey(command, args)] = err
}

// Run executes a mock command.
func (m *MockCommandRunner) Run(_ context.Context, command string, args ...string) (CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CommandCall{Command: command, Args: args})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := mockKey(command, args)

	if err, ok := m.errors[key]; ok {
		return CommandResult{}, err
	}
	if result, ok := m.results[key]; ok {
		return result, nil
	}

	return CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// Calls returns all recorded command invocations.
func (m *MockCommandRunner) Calls() []CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears all registered results, errors, and recorded calls.
func (m *MockCommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]CommandResult)
	m.errors = make(map[string]error)
	m.calls = make([]CommandCall, 0)
}

func mockKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

// Ensure MockCommandRunner implements CommandRunner.
var _ CommandRunner = (*MockCommandRunner)(nil)
