package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pantry-api/internal/handler"
	"go-pantry-api/internal/middleware"
	"go-pantry-api/internal/model"
	"go-pantry-api/internal/repository"
	"go-pantry-api/internal/service"
	"go-pantry-api/internal/ws"
	"go-pantry-api/pkg/database"
	applogger "go-pantry-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	defer applogger.GetLogger().Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(&model.Location{}, &model.Item{}, &model.ItemImage{}); err != nil {
		log.Fatal("Failed to migrate database schema: ", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)

	if err := locationRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed locations: %v", err)
	}

	itemService := service.NewItemService(itemRepo, wsHub)

	itemHandler := handler.NewItemHandler(itemService)
	locationHandler := handler.NewLocationHandler(locationRepo)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Pantry Inventory API v1.0",
	})

	// Middleware
	app.Use(logger.New())         // Request logging
	app.Use(recover.New())        // Panic recovery
	app.Use(cors.New())           // CORS
	app.Use(middleware.Metrics()) // Prometheus counters

	// 6. Routes
	api := app.Group("/api/v1")

	items := api.Group("/items")
	items.Get("/", itemHandler.GetItems)
	items.Post("/", itemHandler.CreateItem)
	items.Put("/:id", itemHandler.UpdateItem)
	items.Delete("/:id", itemHandler.DeleteItem)

	api.Get("/locations", locationHandler.GetLocations)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
