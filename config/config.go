package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OllamaURL         string
	OllamaModel       string
	OllamaTimeout     time.Duration
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3:8b"
	}

	ollamaTimeout := 15 * time.Second
	if v := os.Getenv("OLLAMA_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ollamaTimeout = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tesseractDataPath,
		OllamaURL:         ollamaURL,
		OllamaModel:       ollamaModel,
		OllamaTimeout:     ollamaTimeout,
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
	}
}
