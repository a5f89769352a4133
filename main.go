package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jimmytdh/prconverter/client"
	"github.com/jimmytdh/prconverter/config"
	"github.com/jimmytdh/prconverter/handler"
	"github.com/jimmytdh/prconverter/repository"
	"github.com/jimmytdh/prconverter/service"
)

func main() {
	// Tesseract v5 reads the tessdata location from the environment
	if os.Getenv("TESSDATA_PREFIX") == "" {
		os.Setenv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/")
	}
	log.Println("TESSDATA_PREFIX set to:", os.Getenv("TESSDATA_PREFIX"))

	// Initialize configuration
	cfg := config.LoadConfig()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Initialize storage
	store, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	extractService := service.NewTextExtractionService(pdfProcessor, tesseractClient)
	recordService := service.NewRecordService(extractService, store, cfg.UploadDir)

	// Initialize handler layer
	uploadHandler := handler.NewUploadHandler(recordService, cfg.MaxFileSize)
	recordHandler := handler.NewRecordHandler(store, recordService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Purchase Request Converter",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		records := api.Group("/records")
		{
			records.POST("/process", uploadHandler.Process)
			records.POST("/save", uploadHandler.Save)
			records.POST("/cancel", uploadHandler.Cancel)
			records.GET("", recordHandler.List)
			records.GET("/:id/items", recordHandler.ListItems)
			records.POST("/:id/items", recordHandler.SaveItem)
			records.DELETE("/:id/items/:itemID", recordHandler.DeleteItem)
			records.DELETE("/:id", recordHandler.Delete)
			records.GET("/:id/export", recordHandler.Export)
		}
	}

	// Start server
	log.Printf("Starting Purchase Request Converter on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
