package manager

type Manager struct {
	ID       string
	IsActive bool
}
