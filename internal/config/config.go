package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	PORT                  string
	MONGO_URI             string
	DB_NAME               string
	SECRET_KEY            string
	KAFKA_ADDRESS         string
	ES_URL                string
	ES_USER               string
	ES_PASSWORD           string
	REDIS_ADDR            string
	REDIS_PASSWORD        string
	CLOUDINARY_CLOUD_NAME string
	CLOUDINARY_API_KEY    string
	CLOUDINARY_API_SECRET string
	LOG_LEVEL             string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:                  getEnv("PORT", "4000"),
		MONGO_URI:             os.Getenv("MONGO_URI"),
		DB_NAME:               getEnv("DB_NAME", "shop"),
		SECRET_KEY:            os.Getenv("SECRET_KEY"),
		KAFKA_ADDRESS:         os.Getenv("KAFKA_ADDRESS"),
		ES_URL:                os.Getenv("ES_URL"),
		ES_USER:               os.Getenv("ES_USER"),
		ES_PASSWORD:           os.Getenv("ES_PASSWORD"),
		REDIS_ADDR:            os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD:        os.Getenv("REDIS_PASSWORD"),
		CLOUDINARY_CLOUD_NAME: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CLOUDINARY_API_KEY:    os.Getenv("CLOUDINARY_API_KEY"),
		CLOUDINARY_API_SECRET: os.Getenv("CLOUDINARY_API_SECRET"),
		LOG_LEVEL:             getEnv("LOG_LEVEL", "info"),
	}

	return config, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
