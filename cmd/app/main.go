package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"go.uber.org/zap"

	"userservice/internal/app/config"
	httpapi "userservice/internal/app/http"
	"userservice/internal/app/http/handler"
	"userservice/internal/domain/stats"
	"userservice/internal/domain/user"
	"userservice/internal/infrastructure/async"
	"userservice/internal/infrastructure/db/pg"
	"userservice/internal/infrastructure/logging"
)

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open error", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("db ping error", zap.Error(err))
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose dialect error", zap.Error(err))
	}
	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatal("goose up error", zap.Error(err))
	}

	uow := pg.NewTxManager(db)

	eventBus := async.NewAsyncEventBus(ctx, 4, log)
	defer eventBus.Close()

	userRepo := pg.NewUserRepository(db)
	managerRepo := pg.NewManagerRepository(db)
	statsRepo := pg.NewStatsRepository(db)

	userSvc := user.NewService(uow, userRepo, managerRepo, eventBus, uuidGenerator{})
	statsSvc := stats.NewService(statsRepo)

	h := handler.New(userSvc, statsSvc, log)
	router := httpapi.NewRouter(h, log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
