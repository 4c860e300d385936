package stats

type ManagerUserStat struct {
	ManagerID     string
	ActiveUsers   int
	InactiveUsers int
}
