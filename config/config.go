package config

import "os"

type Config struct {
	ServerPort        string
	TesseractDataPath string
	UploadDir         string
	DatabasePath      string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/4.00/tessdata"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	databasePath := os.Getenv("DB_PATH")
	if databasePath == "" {
		databasePath = "pr_data.db"
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tesseractDataPath,
		UploadDir:         uploadDir,
		DatabasePath:      databasePath,
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
	}
}
