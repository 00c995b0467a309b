package executor

import "context"

// Executor runs external commands. Gateways depend on this interface so
// tests can substitute a fake instead of spawning real processes.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
}
