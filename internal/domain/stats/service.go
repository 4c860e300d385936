package stats

import "context"

type Service interface {
	GetManagerStats(ctx context.Context) ([]ManagerUserStat, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetManagerStats(ctx context.Context) ([]ManagerUserStat, error) {
	return s.repo.GetManagerUserStats(ctx)
}
