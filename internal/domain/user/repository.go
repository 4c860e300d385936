package user

import "context"

// Filter narrows user queries; zero-value fields are not applied. All queries
// match active rows only.
type Filter struct {
	UserID    string
	MobNum    string
	ManagerID string
}

type Repository interface {
	GetActiveByID(ctx context.Context, userID string) (User, error)
	ListActive(ctx context.Context, f Filter) ([]User, error)
	Deactivate(ctx context.Context, userID string) (int64, error)
	DeactivateMatching(ctx context.Context, f Filter) (int64, error)
	Insert(ctx context.Context, u User) error
}
