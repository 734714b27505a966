package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config trả về giá trị env theo key, load .env nếu có
func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Error loading .env file")
	}
	return os.Getenv(key)
}
