package main

import (
	"context"
	"log"
	"os"

	"warehouse-backend/internal/database"
	"warehouse-backend/internal/handler"
	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/repository"
	"warehouse-backend/internal/service"
	"warehouse-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Warehouse Inventory API
// @version         1.0
// @description     Stock lifecycle and reconciliation backend: orders, productions, material receipts and the transaction ledger.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	itemRepo := repository.NewItemRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productionRepo := repository.NewProductionRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	ledger := service.NewStockLedger(itemRepo, productRepo, wsHub)
	authService := service.NewAuthService(userRepo)
	catalogService := service.NewCatalogService(itemRepo, productRepo, warehouseRepo, txManager)
	transactionService := service.NewTransactionService(transactionRepo, sequenceRepo, ledger, txManager)
	orderService := service.NewOrderService(orderRepo, itemRepo, warehouseRepo, sequenceRepo, ledger, transactionService, txManager)
	productionService := service.NewProductionService(productionRepo, itemRepo, productRepo, warehouseRepo, sequenceRepo, ledger, transactionService, txManager)
	receiptService := service.NewReceiptService(receiptRepo, itemRepo, warehouseRepo, sequenceRepo, ledger, transactionService, txManager)

	if err := authService.EnsureAdmin(context.Background()); err != nil {
		log.Printf("WARNING: failed to ensure admin account: %v", err)
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	productionHandler := handler.NewProductionHandler(productionService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	productionHandler.RegisterRoutes(router.Group(""))
	receiptHandler.RegisterRoutes(router.Group(""))
	transactionHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
