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

	"civicconnect/internal/blob"
	"civicconnect/internal/config"
	"civicconnect/internal/database"
	"civicconnect/internal/domain"
	httpapi "civicconnect/internal/http"
	"civicconnect/internal/logger"
	"civicconnect/internal/repository"
	"civicconnect/internal/service"
	"civicconnect/internal/session"
	"civicconnect/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "civicconnect")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Session backend: Redis when reachable, in-process memory otherwise.
	var kv store.KV
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, sessions held in memory", zap.Error(err))
		kv = store.NewMemoryKV()
	} else {
		kv = store.NewRedisKV(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	cancel()

	// Persistence: Postgres when enabled and reachable, memory fallback
	// so the portal still comes up for local dev.
	var (
		db            *sql.DB
		wards         repository.WardsRepo
		users         repository.UsersRepo
		complaints    repository.ComplaintsRepo
		announcements repository.AnnouncementsRepo
		projects      repository.ProjectsRepo
	)
	if cfg.DBEnabled {
		if d, err := database.New(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for civicconnect")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory store", zap.Error(err))
		}
	}
	if db != nil {
		wards = repository.NewPostgresWardsRepo(db)
		users = repository.NewPostgresUsersRepo(db)
		complaints = repository.NewPostgresComplaintsRepo(db)
		announcements = repository.NewPostgresAnnouncementsRepo(db)
		projects = repository.NewPostgresProjectsRepo(db)
	} else {
		mem := repository.NewMemoryStore()
		wards, users, complaints, announcements, projects = mem, mem, mem, mem, mem
	}

	if cfg.Gov.Seed {
		seedGovernmentAccount(users, cfg, log)
	}

	blobs, err := blob.NewLocalStore(cfg.Uploads.Dir, log)
	if err != nil {
		log.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	sessions := session.NewStore(kv, []byte(cfg.Session.Secret), cfg.Session.MaxAge)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Sessions:  sessions,
		Users:     users,
		Auth:      service.NewAuthService(users, wards, log),
		Provision: service.NewProvisionService(wards, log),
		Complaint: service.NewComplaintService(complaints, blobs, log),
		Bulletin:  service.NewBulletinService(announcements, projects, log),
		Blobs:     blobs,
		MaxUpload: cfg.Uploads.MaxBytes,
		Logger:    log,
	})

	srv := service.NewServer(cfg.HTTP.Addr, router, log)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
	if db != nil {
		db.Close()
	}
	log.Info("civicconnect stopped")
}

// seedGovernmentAccount makes sure the provisioning flow has a login
// after a fresh deploy. An existing row is left untouched.
func seedGovernmentAccount(users repository.UsersRepo, cfg *config.Config, log *zap.Logger) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Gov.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash seed password", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = users.CreateUser(ctx, &domain.User{
		Name:         cfg.Gov.Name,
		Email:        cfg.Gov.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleGovernment,
	})
	switch err {
	case nil:
		log.Info("Seeded government account", zap.String("email", cfg.Gov.Email))
	case repository.ErrDuplicateEmail:
		// Already present.
	default:
		log.Error("Failed to seed government account", zap.Error(err))
	}
}
