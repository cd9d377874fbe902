package cron

import (
	"log"
	"time"

	"guidely/config"
	userRepo "guidely/database/repository/user"
	"guidely/services/notification"
	"guidely/utils"

	"github.com/hibiken/asynq"
)

// InitDispatchWorker runs the async notification worker in background.
func InitDispatchWorker(users userRepo.UserRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDispatchDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	handlers := &notification.TaskHandlers{
		Users:  users,
		Logger: utils.GetLogger(),
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeMeetupCode, handlers.HandleMeetupCode)
	mux.HandleFunc(notification.TypeBookingPush, handlers.HandleBookingPush)

	go func() {
		log.Println("[DispatchWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DispatchWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DispatchWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// NewDispatchClient creates the asynq producer used by the notification service.
func NewDispatchClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDispatchDB,
	})
}
