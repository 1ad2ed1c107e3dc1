package main

import (
	"context"
	"log"

	"ai-studybot-be/internal/bootstrap"
	"ai-studybot-be/internal/config"
	"ai-studybot-be/internal/entity"
	"ai-studybot-be/internal/server"
	"ai-studybot-be/internal/tracer"
	"ai-studybot-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional: only the transcript archive needs it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDB(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := gormDB.AutoMigrate(&entity.Transcript{}); err != nil {
			log.Printf("[WARN] Failed to migrate transcript table: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
