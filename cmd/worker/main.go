package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hangout_app/internal/scheduler"
	"hangout_app/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis is optional; without it sweeps run without cross-instance locks
	var locker scheduler.Locker
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err := services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
		} else {
			defer cache.Close()
			locker = cache
		}
	}

	cfg := scheduler.DefaultConfig()
	cfg.AutoCompleteCadence = os.Getenv("AUTO_COMPLETE_RRULE")
	cfg.InvitationCadence = os.Getenv("INVITATION_EXPIRY_RRULE")
	cfg.ConditionalCadence = os.Getenv("CONDITIONAL_DEPS_RRULE")

	sched := scheduler.New(db, services.NewStoredProcedures(db), services.NewUpdateEmitter(db), locker, cfg)
	sched.Start()

	log.Println("Worker started. Waiting for next tick...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down worker...")
	sched.Stop()
}
