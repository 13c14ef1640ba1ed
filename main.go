package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Ingenium9/plum-assignment/client"
	"github.com/Ingenium9/plum-assignment/config"
	"github.com/Ingenium9/plum-assignment/handler"
	"github.com/Ingenium9/plum-assignment/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize external collaborators
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	ollamaClient := client.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout)
	qrClient := client.NewQRClient()
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	ocrService := service.NewOCRService(tesseractClient, pdfProcessor, qrClient)
	classifierService := service.NewClassifierService(ollamaClient, service.NewFallbackState())
	billService := service.NewBillService(
		classifierService,
		service.NewReasoningService(),
		service.NewGuardrailService(),
	)

	// Initialize handler layer
	billHandler := handler.NewBillHandler(ocrService, billService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Bill Amount Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		bills := api.Group("/bills")
		{
			bills.POST("/process", billHandler.ProcessBill)
		}
	}

	// Start server
	log.Printf("Starting Bill Amount Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
