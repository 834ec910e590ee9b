package e2e

import (
	"context"
	"fmt"

	"authsession/internal/auth/flow"
	"authsession/internal/auth/orchestrator"
	"authsession/internal/testkit/fakebackend"
	"authsession/internal/testkit/harness"
)

// TestContext holds state between test steps
type TestContext struct {
	ctx     context.Context
	harness *harness.Harness

	LastSuccess bool
	LastCode    string
	LastMessage string

	pending *flow.PendingLogin
	values  map[string]string
}

// NewTestContext creates a test context with no client attached yet.
func NewTestContext() *TestContext {
	return &TestContext{ctx: context.Background(), values: make(map[string]string)}
}

// Start builds a fresh client and fake backend, closing any previous one.
func (tc *TestContext) Start(mode fakebackend.ProviderMode) error {
	tc.Close()
	h, err := harness.New(tc.ctx, harness.Options{Provider: mode})
	if err != nil {
		return fmt.Errorf("failed to start harness: %w", err)
	}
	tc.harness = h
	if resp := h.Orchestrator.Initialize(tc.ctx); !resp.Success {
		return fmt.Errorf("initial session check failed: %s", resp.MessageOr("unknown error"))
	}
	return nil
}

// Close releases the current client, if any.
func (tc *TestContext) Close() {
	if tc.harness != nil {
		tc.harness.Close()
		tc.harness = nil
	}
}

// Record keeps the outcome of the last operation for assertion steps.
func (tc *TestContext) Record(success bool, code, message string) {
	tc.LastSuccess = success
	tc.LastCode = code
	tc.LastMessage = message
}

// Getter methods for step package interfaces

func (tc *TestContext) Context() context.Context { return tc.ctx }

func (tc *TestContext) Orchestrator() *orchestrator.Orchestrator { return tc.harness.Orchestrator }

func (tc *TestContext) Backend() *fakebackend.Backend { return tc.harness.Backend }

func (tc *TestContext) Clock() *harness.Clock { return tc.harness.Clock }

func (tc *TestContext) LastOutcome() (success bool, code, message string) {
	return tc.LastSuccess, tc.LastCode, tc.LastMessage
}

func (tc *TestContext) GetPendingLogin() *flow.PendingLogin { return tc.pending }

func (tc *TestContext) SetPendingLogin(p *flow.PendingLogin) { tc.pending = p }

func (tc *TestContext) GetValue(key string) string { return tc.values[key] }

func (tc *TestContext) SetValue(key, value string) { tc.values[key] = value }
