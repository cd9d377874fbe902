// File: guidely/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guidely/config"
	"guidely/cron"
	"guidely/database"
	bookingRepoPkg "guidely/database/repository/booking"
	ledgerRepoPkg "guidely/database/repository/ledger"
	userRepoPkg "guidely/database/repository/user"
	"guidely/handlers"
	"guidely/middleware"
	"guidely/routes"
	"guidely/services/escrow"
	"guidely/services/notification"
	"guidely/services/payment"
	"guidely/services/user"
	"guidely/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	ledgerRepo := ledgerRepoPkg.NewMongoLedgerRepo()

	// Background dispatch worker plus the producer side of the queue.
	cron.InitDispatchWorker(userRepo)
	dispatchClient := cron.NewDispatchClient()
	defer dispatchClient.Close()

	notificationService, err := notification.NewDefaultNotificationService(dispatchClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	escrowService := &escrow.DefaultEscrowService{
		Bookings:     bookingRepo,
		Ledger:       ledgerRepo,
		Users:        userRepo,
		Gateway:      payment.NewStripeGateway(logger),
		Notification: notificationService,
		Logger:       logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,
		User:     handlers.NewUserHandler(userService),
		Booking:  handlers.NewBookingHandler(escrowService, logger),
		Webhook:  handlers.NewWebhookHandler(escrowService, utils.GetCacheClient(), logger),
		Admin:    handlers.NewAdminHandler(escrowService, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetOTPCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
