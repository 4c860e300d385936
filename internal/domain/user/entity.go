package user

import "time"

// User is one physical row. A logical user may span several rows over time:
// an update deactivates the current row and inserts a replacement with a new
// UserID but the original CreatedAt.
type User struct {
	ID        string
	FullName  string
	MobNum    string
	PANNum    string
	ManagerID string
	CreatedAt time.Time
	UpdatedAt time.Time
	IsActive  bool
}
