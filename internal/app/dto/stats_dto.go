package dto

type ManagerUserStat struct {
	ManagerID     string `json:"manager_id"`
	ActiveUsers   int    `json:"active_users"`
	InactiveUsers int    `json:"inactive_users"`
}

type StatsResponse struct {
	Managers []ManagerUserStat `json:"managers"`
}
