package routes

import (
	"net/http"
	"time"

	"guidely/handlers"
	"guidely/middleware"
	"guidely/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterHandler)
		api.POST("/register/verify", hb.User.VerifyRegistrationHandler)
		api.POST("/login", hb.User.AuthenticateHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.User.GetMeHandler)
		api.DELETE("/revoke", hb.User.RevokeTokenHandler)
		api.PUT("/fcm-token", hb.User.UpdateFCMTokenHandler)
	}
}

// RegisterGuideRoutes registers the public guide directory.
func RegisterGuideRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/guides")
	{
		api.GET("", hb.User.ListGuidesHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the escrow booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		bookingGroup.POST("", hb.Booking.CreateBooking)
		bookingGroup.GET("", hb.Booking.ListBookings)
		bookingGroup.GET("/:id", hb.Booking.GetBooking)
		bookingGroup.POST("/:id/verify-otp", hb.Booking.VerifyOTP)
		bookingGroup.POST("/:id/cancel", hb.Booking.CancelBooking)
		bookingGroup.GET("/:id/transactions", hb.Booking.ListTransactions)
	}
}

// RegisterPaymentRoutes registers the Stripe webhook endpoint. It is public;
// authenticity comes from the signature header, not a bearer token.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/webhook", hb.Webhook.HandlePaymentEvent)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/bookings/disputed", hb.Admin.ListDisputedHandler)
		adminGroup.POST("/bookings/:id/retry-capture", hb.Admin.RetryCaptureHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterGuideRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
