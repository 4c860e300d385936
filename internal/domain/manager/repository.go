package manager

import "context"

type Repository interface {
	// GetActive returns the manager only if it exists and is active.
	GetActive(ctx context.Context, managerID string) (Manager, error)
}
