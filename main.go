package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/roll2bowl/partner-api/app/controllers"
	"github.com/roll2bowl/partner-api/app/repository"
	"github.com/roll2bowl/partner-api/internal/pkg/billing"
	"github.com/roll2bowl/partner-api/internal/pkg/cache"
	"github.com/roll2bowl/partner-api/internal/pkg/database"
	"github.com/roll2bowl/partner-api/internal/pkg/env"
	"github.com/roll2bowl/partner-api/internal/pkg/events"
	"github.com/roll2bowl/partner-api/internal/pkg/router"
	"github.com/roll2bowl/partner-api/internal/pkg/storage"
)

// abandonedSweepInterval is how often stale checkout orders are swept.
const abandonedSweepInterval = time.Hour

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	if client, err := storage.NewClientFromEnv(); err != nil {
		log.Printf("object storage disabled: %v", err)
	} else {
		controllers.SetStorageClient(client)
	}

	producer := events.NewProducerFromEnv()
	producer.Start(context.Background())
	controllers.SetEventsProducer(producer)

	go sweepAbandonedPayments()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

// sweepAbandonedPayments periodically marks stale checkout orders as
// abandoned so interrupted payments do not linger forever.
func sweepAbandonedPayments() {
	svc := billing.NewServiceFromDB(database.GetDB())
	ticker := time.NewTicker(abandonedSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		swept, err := svc.SweepAbandoned(context.Background(), 24*time.Hour)
		if err != nil {
			log.Printf("abandoned payment sweep failed: %v", err)
			continue
		}
		if swept > 0 {
			log.Printf("swept %d abandoned payment orders", swept)
		}
	}
}
