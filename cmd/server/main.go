package main

import (
	"bunker/gym-admin/internal/api"
	"bunker/gym-admin/internal/config"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/logging"
	"bunker/gym-admin/internal/repository"
	"bunker/gym-admin/internal/repository/mongo"
	"bunker/gym-admin/internal/service"
	"bunker/gym-admin/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// @title Gym Admin API
// @version 1.0
// @description Staff dashboard API for a gym: members, plans, memberships, exercises, routines and training sessions.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	app := fx.New(
		fx.Supply(cfg, logger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			newDatabase,
			newEngine,
			newFileStorage,

			mongo.NewMongoStaffRepository,
			mongo.NewMongoMemberRepository,
			mongo.NewMongoPlanRepository,
			mongo.NewMongoMembershipRepository,
			mongo.NewMongoExerciseRepository,
			mongo.NewMongoRoutineRepository,
			mongo.NewMongoSessionRepository,
			mongo.NewMongoTrainerMemberRepository,

			newAuthService,
			newMemberService,
			service.NewMembershipService,
			newExerciseService,
			service.NewRoutineService,
			service.NewTrainingService,
			service.NewTrainerService,
			service.NewDashboardService,

			newRouter,
		),
		fx.Invoke(seedAdmin, startServer),
	)
	app.Run()
}

func newDatabase(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*mongodriver.Database, error) {
	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	db := client.Database(cfg.Database.Name)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return mongo.EnsureIndexes(ctx, db, logger)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("disconnecting MongoDB")
			return mongo.DisconnectDB(ctx, client)
		},
	})
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))
	return db, nil
}

func newEngine(cfg config.Config) (*lifecycle.Engine, error) {
	loc, err := cfg.Membership.Location()
	if err != nil {
		return nil, err
	}
	return lifecycle.NewEngine(
		lifecycle.WithLocation(loc),
		lifecycle.WithThreshold(cfg.Membership.ExpiringThresholdDays),
	), nil
}

func newFileStorage(cfg config.Config, logger *zap.Logger) (storage.FileStorage, error) {
	return storage.NewS3Storage(cfg.S3, logger)
}

func newAuthService(staffRepo repository.StaffRepository, cfg config.Config, logger *zap.Logger) service.AuthService {
	return service.NewAuthService(staffRepo, cfg.JWT.Secret, cfg.JWT.Expiration, logger)
}

func newMemberService(
	memberRepo repository.MemberRepository,
	membershipRepo repository.MembershipRepository,
	sessionRepo repository.TrainingSessionRepository,
	linkRepo repository.TrainerMemberRepository,
	staffRepo repository.StaffRepository,
	files storage.FileStorage,
	engine *lifecycle.Engine,
	cfg config.Config,
	logger *zap.Logger,
) service.MemberService {
	return service.NewMemberService(memberRepo, membershipRepo, sessionRepo, linkRepo, staffRepo, files, engine, cfg.S3.PresignExpiry, logger)
}

func newExerciseService(exerciseRepo repository.ExerciseRepository, files storage.FileStorage, cfg config.Config, logger *zap.Logger) service.ExerciseService {
	return service.NewExerciseService(exerciseRepo, files, cfg.S3.PresignExpiry, logger)
}

type routerParams struct {
	fx.In

	Config     config.Config
	Logger     *zap.Logger
	Auth       service.AuthService
	Members    service.MemberService
	Membership service.MembershipService
	Exercises  service.ExerciseService
	Routines   service.RoutineService
	Training   service.TrainingService
	Trainers   service.TrainerService
	Dashboard  service.DashboardService
}

func newRouter(p routerParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(p.Logger.Named("http")))

	api.SetupRoutes(router, p.Config.JWT.Secret, p.Logger, api.Services{
		Auth:       p.Auth,
		Members:    p.Members,
		Membership: p.Membership,
		Exercises:  p.Exercises,
		Routines:   p.Routines,
		Training:   p.Training,
		Trainers:   p.Trainers,
		Dashboard:  p.Dashboard,
	})
	return router
}

// seedAdmin creates the configured admin account once the indexes exist.
func seedAdmin(lc fx.Lifecycle, cfg config.Config, auth service.AuthService, logger *zap.Logger) {
	if !cfg.Admin.Enabled() {
		logger.Info("admin seeding disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			admin, err := auth.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			logger.Info("admin account ready", zap.String("email", admin.Email))
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, router *gin.Engine, logger *zap.Logger) {
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", server.Addr, err)
			}
			logger.Info("server starting", zap.String("address", server.Addr))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			stopCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(stopCtx)
		},
	})
}
