package stats

import "context"

type Repository interface {
	GetManagerUserStats(ctx context.Context) ([]ManagerUserStat, error)
}
