package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/config"
	"hotel-admin/controllers"
	"hotel-admin/middleware"
)

// Controllers groups every handler set the router mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Booking   *controllers.BookingController
	Room      *controllers.RoomController
	User      *controllers.UserController
	Dashboard *controllers.DashboardController
	Settings  *controllers.SettingsController
}

// SetupRouter mounts every route; /api/admin and /api/users require a bearer token.
func SetupRouter(cfg *config.Config, log *zap.Logger, tokens middleware.TokenParser, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logger(log))
	r.MaxMultipartMemory = cfg.HTTP.MaxUploadBytes
	r.Static("/uploads", cfg.UploadDir)

	origins := cfg.HTTP.CORSOrigins
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.HTTP.RateLimitPerMinute, cfg.HTTP.RateLimitBurst, log))
	{
		api.POST("/auth/login", ctl.Auth.Login)

		users := api.Group("/users", middleware.RequireAdmin(tokens))
		users.GET("/profile", ctl.Auth.Profile)

		admin := api.Group("/admin", middleware.RequireAdmin(tokens))
		{
			dashboard := admin.Group("/dashboard")
			dashboard.GET("/stats", ctl.Dashboard.Stats)
			dashboard.GET("/users", ctl.Dashboard.Users)

			rooms := admin.Group("/rooms")
			rooms.GET("", ctl.Room.ListRooms)
			rooms.POST("", ctl.Room.CreateRoom)
			rooms.GET("/:id", ctl.Room.GetRoom)
			rooms.PUT("/:id", ctl.Room.UpdateRoom)
			rooms.DELETE("/:id", ctl.Room.DeleteRoom)
			rooms.GET("/:id/availability", ctl.Room.Availability)

			bookings := admin.Group("/bookings")
			bookings.GET("", ctl.Booking.ListBookings)
			bookings.POST("", ctl.Booking.CreateBooking)
			bookings.GET("/:id", ctl.Booking.GetBooking)
			bookings.PUT("/:id", ctl.Booking.UpdateBooking)
			bookings.DELETE("/:id", ctl.Booking.DeleteBooking)
			bookings.POST("/:id/notify", ctl.Booking.NotifyGuest)

			adminUsers := admin.Group("/users")
			adminUsers.POST("", ctl.User.CreateUser)
			adminUsers.GET("/:id", ctl.User.GetUser)

			admin.GET("/settings/hotel", ctl.Settings.GetHotelSettings)
			admin.PUT("/settings/hotel", ctl.Settings.UpdateHotelSettings)
		}
	}

	return r
}
