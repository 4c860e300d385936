package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userservice/internal/app/dto"
	"userservice/internal/domain/user"
)

func (h *Handler) CreateUser(c *gin.Context) {
	var body dto.CreateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	u, err := h.UserSvc.Create(c.Request.Context(), user.CreateParams{
		FullName:  body.FullName,
		MobNum:    body.MobNum,
		PANNum:    body.PANNum,
		ManagerID: body.ManagerID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}{
		Message: "User created successfully",
		UserID:  u.ID,
	}

	c.JSON(http.StatusCreated, resp)
}

// GetUsers accepts filters either as a JSON body (the historical contract)
// or as query parameters; the body wins when both are present.
func (h *Handler) GetUsers(c *gin.Context) {
	body := dto.GetUsersRequest{
		UserID:    c.Query("user_id"),
		MobNum:    c.Query("mob_num"),
		ManagerID: c.Query("manager_id"),
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.badRequest(c, "invalid JSON")
			return
		}
	}

	list, err := h.UserSvc.List(c.Request.Context(), user.Filter{
		UserID:    body.UserID,
		MobNum:    body.MobNum,
		ManagerID: body.ManagerID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		Users []dto.User `json:"users"`
	}{
		Users: make([]dto.User, 0, len(list)),
	}
	for _, u := range list {
		resp.Users = append(resp.Users, dto.User{
			UserID:    u.ID,
			FullName:  u.FullName,
			MobNum:    u.MobNum,
			PANNum:    u.PANNum,
			ManagerID: u.ManagerID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
			IsActive:  u.IsActive,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	var body dto.DeleteUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}

	if err := h.UserSvc.Delete(c.Request.Context(), body.UserID, body.MobNum); err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		Message string `json:"message"`
	}{
		Message: "User deleted successfully (marked as inactive)",
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpdateUsers(c *gin.Context) {
	var body dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if len(body.UserIDs) == 0 {
		h.badRequest(c, "invalid or missing user_ids")
		return
	}

	data := user.UpdateData{
		FullName:  body.UpdateData.FullName,
		MobNum:    body.UpdateData.MobNum,
		PANNum:    body.UpdateData.PANNum,
		ManagerID: body.UpdateData.ManagerID,
	}

	res, err := h.UserSvc.Update(c.Request.Context(), body.UserIDs, data)
	if err != nil {
		h.writeError(c, err)
		return
	}

	managerOnly := data.ManagerID != "" &&
		data.FullName == "" && data.MobNum == "" && data.PANNum == ""

	var msg string
	switch {
	case len(res.Conflicts) > 0:
		msg = "Some updates failed due to conflicts"
	case len(res.Missing) > 0:
		msg = "Some users not found, others updated"
	case managerOnly:
		msg = "Manager updated for selected users"
	default:
		msg = "User(s) updated successfully"
	}

	c.JSON(http.StatusOK, dto.UpdateUserResponse{
		Message:   msg,
		Updated:   append([]string{}, res.Updated...),
		Missing:   res.Missing,
		Conflicts: res.Conflicts,
	})
}
