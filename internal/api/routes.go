package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth       service.AuthService
	Members    service.MemberService
	Membership service.MembershipService
	Exercises  service.ExerciseService
	Routines   service.RoutineService
	Training   service.TrainingService
	Trainers   service.TrainerService
	Dashboard  service.DashboardService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, logger *zap.Logger, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, logger)
	memberHandler := NewMemberHandler(svc.Members, svc.Membership, svc.Trainers, logger)
	membershipHandler := NewMembershipHandler(svc.Membership, logger)
	exerciseHandler := NewExerciseHandler(svc.Exercises, logger)
	trainerHandler := NewTrainerHandler(svc.Trainers, svc.Routines, svc.Training, logger)
	dashboardHandler := NewDashboardHandler(svc.Dashboard, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)

		// --- Admin panel ---
		admin := protected.Group("/admin")
		admin.Use(RoleMiddleware(domain.RoleAdmin))
		{
			admin.GET("/dashboard", dashboardHandler.Stats)

			admin.GET("/staff", authHandler.ListStaff)
			admin.POST("/staff", authHandler.RegisterStaff)
			admin.GET("/trainers", trainerHandler.ListTrainers)

			admin.GET("/members", memberHandler.ListMembers)
			admin.POST("/members", memberHandler.CreateMember)
			admin.GET("/members/:memberId", memberHandler.GetMember)
			admin.PUT("/members/:memberId", memberHandler.UpdateMember)
			admin.DELETE("/members/:memberId", memberHandler.DeleteMember)
			admin.GET("/members/:memberId/current-membership", memberHandler.CurrentMembership)
			admin.POST("/members/:memberId/photo/upload-url", memberHandler.PhotoUploadURL)
			admin.POST("/members/:memberId/photo/confirm", memberHandler.ConfirmPhoto)
			admin.GET("/members/:memberId/photo-url", memberHandler.PhotoURL)
			admin.GET("/members/:memberId/trainer", memberHandler.GetTrainer)
			admin.PUT("/members/:memberId/trainer", memberHandler.AssignTrainer)
			admin.DELETE("/members/:memberId/trainer", memberHandler.UnassignTrainer)

			admin.GET("/plans", membershipHandler.ListPlans)
			admin.POST("/plans", membershipHandler.CreatePlan)
			admin.GET("/plans/:planId", membershipHandler.GetPlan)
			admin.PUT("/plans/:planId", membershipHandler.UpdatePlan)
			admin.POST("/plans/:planId/deactivate", membershipHandler.DeactivatePlan)

			admin.GET("/memberships", membershipHandler.ListMemberships)
			admin.POST("/memberships", membershipHandler.CreateMembership)
			admin.POST("/memberships/renew", membershipHandler.RenewMembership)
			admin.GET("/memberships/expiring", membershipHandler.ExpiringMemberships)
			admin.GET("/memberships/:membershipId", membershipHandler.GetMembership)
			admin.POST("/memberships/:membershipId/cancel", membershipHandler.CancelMembership)
			admin.POST("/memberships/:membershipId/expire", membershipHandler.ExpireMembership)

			admin.POST("/exercises", exerciseHandler.CreateExercise)
			admin.PUT("/exercises/:exerciseId", exerciseHandler.UpdateExercise)
			admin.DELETE("/exercises/:exerciseId", exerciseHandler.DeleteExercise)
			admin.POST("/exercises/:exerciseId/video/upload-url", exerciseHandler.VideoUploadURL)
			admin.POST("/exercises/:exerciseId/video/confirm", exerciseHandler.ConfirmVideo)
		}

		// --- Trainer panel ---
		// Admins can open it too.
		trainer := protected.Group("/trainer")
		trainer.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		{
			trainer.GET("/members", trainerHandler.GetMyMembers)
			trainer.GET("/members/:memberId/sessions", trainerHandler.MemberSessions)

			trainer.GET("/exercises", exerciseHandler.ListExercises)
			trainer.GET("/exercises/grouped", exerciseHandler.GroupedExercises)
			trainer.GET("/exercises/:exerciseId", exerciseHandler.GetExercise)
			trainer.GET("/exercises/:exerciseId/video-url", exerciseHandler.VideoURL)

			trainer.GET("/routines", trainerHandler.ListRoutines)
			trainer.POST("/routines", trainerHandler.CreateRoutine)
			trainer.GET("/routines/:routineId", trainerHandler.GetRoutine)
			trainer.PUT("/routines/:routineId", trainerHandler.UpdateRoutine)
			trainer.DELETE("/routines/:routineId", trainerHandler.DeleteRoutine)

			trainer.GET("/sessions", trainerHandler.ListSessions)
			trainer.POST("/sessions", trainerHandler.CreateSession)
			trainer.GET("/sessions/today", trainerHandler.TodaySessions)
			trainer.GET("/sessions/:sessionId", trainerHandler.GetSession)
			trainer.DELETE("/sessions/:sessionId", trainerHandler.DeleteSession)
			trainer.PUT("/session-exercises/:sessionExerciseId", trainerHandler.UpdateSessionExercise)
			trainer.DELETE("/session-exercises/:sessionExerciseId", trainerHandler.DeleteSessionExercise)
		}
	}
}
