package engine

import (
	"context"

	"github.com/ndquangr/moneymind/internal/service"
)

// mockOracle is a scripted oracle for tests. Exactly one of intent, err, or
// hang should be set per instance.
type mockOracle struct {
	intent *service.Intent
	err    error
	hang   bool
	calls  int
}

func (m *mockOracle) DetectIntent(ctx context.Context, text string) (*service.Intent, error) {
	m.calls++
	if m.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.intent, nil
}
