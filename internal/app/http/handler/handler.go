package handler

import (
	"userservice/internal/domain/stats"
	"userservice/internal/domain/user"

	"go.uber.org/zap"
)

type Handler struct {
	UserSvc  user.Service
	StatsSvc stats.Service
	Log      *zap.Logger
}

func New(userSvc user.Service, statsSvc stats.Service, log *zap.Logger) *Handler {
	return &Handler{
		UserSvc:  userSvc,
		StatsSvc: statsSvc,
		Log:      log,
	}
}
