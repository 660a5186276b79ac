package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/controllers"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	leadController *controllers.LeadController,
	studentController *controllers.StudentController,
	publicController *controllers.PublicController,
	paymentController *controllers.PaymentController,
	batchController *controllers.BatchController,
	stagingController *controllers.StagingController,
	reportController *controllers.ReportController,
	commandCenterController *controllers.CommandCenterController,
	centerController *controllers.CenterController,
	userController *controllers.UserController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Public token-based forms ---
	// These are the links sent to leads and students over WhatsApp, keyed
	// by an opaque token rather than a session.
	public := v1.Group("/public")
	{
		public.GET("/join/:token", publicController.GetJoinForm)
		public.POST("/join/:token", publicController.SubmitJoinForm)
		public.GET("/renew/:token", publicController.GetRenewForm)
		public.POST("/renew/:token", publicController.SubmitRenewal)
	}

	// Legacy path for the renewal form, kept because sent links stay valid
	// for months.
	v1.GET("/students/by-token/:token", publicController.GetRenewForm)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetProfile)
		authenticated.PUT("/auth/password", authController.ChangePassword)

		// Lead pipeline routes
		leads := authenticated.Group("/leads")
		{
			leads.POST("", leadController.CreateLead)
			leads.GET("", leadController.GetAllLeads)
			leads.GET("/:id", leadController.GetLead)
			leads.PUT("/:id", leadController.UpdateLead)
			leads.POST("/:id/transition", leadController.TransitionLead)
			leads.POST("/:id/trial", leadController.ScheduleTrial)
			leads.POST("/:id/trial/outcome", leadController.RecordTrialOutcome)
			leads.POST("/:id/convert", studentController.ConvertLead)
			leads.GET("/:id/whatsapp", leadController.GetWhatsAppLink)
			leads.POST("/:id/followups", leadController.AddFollowup)
			leads.GET("/:id/followups", leadController.GetFollowups)
			leads.POST("/:id/followups/:followupId/complete", leadController.CompleteFollowup)

			// Deleting a lead erases its history, so it stays with management
			leadsManagerProtected := leads.Group("")
			leadsManagerProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleManager)))
			{
				leadsManagerProtected.DELETE("/:id", leadController.DeleteLead)
			}
		}

		// Student routes
		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetAllStudents)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.GET("/:id/attendance", studentController.GetAttendanceHistory)
		}

		// Payment routes
		payments := authenticated.Group("/payments")
		{
			payments.GET("", paymentController.GetAllPayments)
			payments.GET("/:id", paymentController.GetPayment)
			payments.POST("/:id/utr", paymentController.SubmitUTR)
			payments.POST("/:id/proof", paymentController.AttachProof)

			// Verification moves money state, managers only
			paymentsManagerProtected := payments.Group("")
			paymentsManagerProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleManager)))
			{
				paymentsManagerProtected.POST("/:id/verify", paymentController.VerifyPayment)
			}
		}

		// Batch and attendance routes
		batches := authenticated.Group("/batches")
		{
			batches.GET("", batchController.GetAllBatches)
			batches.GET("/mine", batchController.GetMyBatches)
			batches.GET("/:id", batchController.GetBatch)
			batches.GET("/:id/attendance", batchController.GetAttendanceSheet)
			batches.POST("/:id/attendance", batchController.MarkAttendance)

			batchesManagerProtected := batches.Group("")
			batchesManagerProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleManager)))
			{
				batchesManagerProtected.POST("", batchController.CreateBatch)
				batchesManagerProtected.PUT("/:id", batchController.UpdateBatch)
				batchesManagerProtected.PUT("/:id/coach/:coachId", batchController.AssignCoach)
			}
		}

		// Staged bulk-action routes
		staging := authenticated.Group("/staging")
		{
			staging.POST("", stagingController.CreateAction)
			staging.GET("", stagingController.GetAllActions)
			staging.GET("/:id", stagingController.GetAction)

			stagingManagerProtected := staging.Group("")
			stagingManagerProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleManager)))
			{
				stagingManagerProtected.POST("/:id/decide", stagingController.DecideAction)
			}
		}

		// Executive report routes
		reports := authenticated.Group("/reports")
		reports.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleManager)))
		{
			reports.GET("/funnel", reportController.GetFunnel)
			reports.GET("/revenue", reportController.GetRevenue)
			reports.GET("/export", reportController.ExportReports)
			reports.GET("/attendance", reportController.GetAttendance)

			reportsAdminProtected := reports.Group("")
			reportsAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				reportsAdminProtected.DELETE("/cache", reportController.InvalidateCache)
			}
		}

		// Command center dashboard
		authenticated.GET("/command-center", commandCenterController.GetDashboard)

		// Center routes
		centers := authenticated.Group("/centers")
		{
			centers.GET("", centerController.GetAllCenters)
			centers.GET("/:id", centerController.GetCenter)

			centersAdminProtected := centers.Group("")
			centersAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				centersAdminProtected.POST("", centerController.CreateCenter)
				centersAdminProtected.PUT("/:id", centerController.UpdateCenter)
				centersAdminProtected.DELETE("/:id", centerController.DeleteCenter)
			}
		}

		// Staff account routes
		users := authenticated.Group("/users")
		users.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleManager)))
		{
			users.GET("", userController.GetAllUsers)
			users.GET("/:id", userController.GetUser)

			usersAdminProtected := users.Group("")
			usersAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				usersAdminProtected.POST("", userController.CreateUser)
				usersAdminProtected.PUT("/:id", userController.UpdateUser)
			}
		}

		// Notification routes
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.POST("/:id/read", notificationController.MarkRead)
			notifications.POST("/read-all", notificationController.MarkAllRead)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
