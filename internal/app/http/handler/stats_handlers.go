package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userservice/internal/app/dto"
)

func (h *Handler) StatsManagers(c *gin.Context) {
	list, err := h.StatsSvc.GetManagerStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := dto.StatsResponse{
		Managers: make([]dto.ManagerUserStat, 0, len(list)),
	}
	for _, s := range list {
		resp.Managers = append(resp.Managers, dto.ManagerUserStat{
			ManagerID:     s.ManagerID,
			ActiveUsers:   s.ActiveUsers,
			InactiveUsers: s.InactiveUsers,
		})
	}

	c.JSON(http.StatusOK, resp)
}
