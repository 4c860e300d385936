package dto

import "time"

type User struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	MobNum    string    `json:"mob_num"`
	PANNum    string    `json:"pan_num"`
	ManagerID string    `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

type CreateUserRequest struct {
	FullName  string `json:"full_name"`
	MobNum    string `json:"mob_num"`
	PANNum    string `json:"pan_num"`
	ManagerID string `json:"manager_id"`
}

type GetUsersRequest struct {
	UserID    string `json:"user_id"`
	MobNum    string `json:"mob_num"`
	ManagerID string `json:"manager_id"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
	MobNum string `json:"mob_num"`
}

type UpdateData struct {
	FullName  string `json:"full_name"`
	MobNum    string `json:"mob_num"`
	PANNum    string `json:"pan_num"`
	ManagerID string `json:"manager_id"`
}

type UpdateUserRequest struct {
	UserIDs    []string   `json:"user_ids"`
	UpdateData UpdateData `json:"update_data"`
}

type UpdateUserResponse struct {
	Message   string   `json:"message"`
	Updated   []string `json:"updated"`
	Missing   []string `json:"missing,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
}
