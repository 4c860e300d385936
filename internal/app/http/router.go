package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"userservice/internal/app/http/handler"
	"userservice/internal/app/http/middleware"
)

func NewRouter(h *handler.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		middleware.ZapLogger(log),
		middleware.ZapRecovery(log),
	)

	r.GET("/health", h.Health)

	r.POST("/create_user", h.CreateUser)
	r.GET("/get_users", h.GetUsers)
	r.DELETE("/delete_user", h.DeleteUser)
	r.PATCH("/update_user", h.UpdateUsers)

	r.GET("/stats/managers", h.StatsManagers)

	return r
}
