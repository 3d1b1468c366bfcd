package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                     string
	MongoURI                 string
	DBName                   string
	JWTSecret                string
	TokenExpiryHours         int
	LogExportIntervalSeconds int
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var tokenExpiryHours int
	if val := os.Getenv("TOKEN_EXPIRY_HOURS"); val != "" {
		_, err := fmt.Sscanf(val, "%d", &tokenExpiryHours)
		if err != nil {
			log.Fatalf("Invalid TOKEN_EXPIRY_HOURS: %v", err)
		}
	}
	if tokenExpiryHours == 0 {
		tokenExpiryHours = 24
	}

	var exportInterval int
	fmt.Sscanf(os.Getenv("LOG_EXPORT_INTERVAL_SECONDS"), "%d", &exportInterval)
	if exportInterval == 0 {
		exportInterval = 30
	}

	return Config{
		Port:                     os.Getenv("PORT"),
		MongoURI:                 os.Getenv("MONGO_URI"),
		DBName:                   os.Getenv("DB_NAME"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		TokenExpiryHours:         tokenExpiryHours,
		LogExportIntervalSeconds: exportInterval,
	}
}
