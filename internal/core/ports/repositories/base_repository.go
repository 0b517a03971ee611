package repositories

import "context"

// HealthChecker is implemented by stores that can report their availability.
type HealthChecker interface {
	// Ping verifies that the underlying database is reachable.
	Ping(ctx context.Context) error
}
